package notifier

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/yashrajoria/pos-terminal/models"
	aws_pkg "github.com/yashrajoria/pos-terminal/pkg/aws"
	"go.uber.org/zap"
)

// SNSNotifier forwards notifications of the configured severities to an SNS
// topic, e.g. to page a manager on failed sales. Each publish runs in the
// background with its own timeout.
type SNSNotifier struct {
	publisher  aws_pkg.SNSPublisher
	topicArn   string
	severities map[models.Severity]bool
	timeout    time.Duration
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// NewSNSNotifier forwards only the given severities, or all of them when none
// are given.
func NewSNSNotifier(publisher aws_pkg.SNSPublisher, topicArn string, logger *zap.Logger, severities ...models.Severity) *SNSNotifier {
	n := &SNSNotifier{
		publisher: publisher,
		topicArn:  topicArn,
		timeout:   5 * time.Second,
		logger:    logger,
	}
	if len(severities) > 0 {
		n.severities = make(map[models.Severity]bool, len(severities))
		for _, s := range severities {
			n.severities[s] = true
		}
	}
	return n
}

func (n *SNSNotifier) Notify(_ context.Context, note models.Notification) {
	if n.severities != nil && !n.severities[note.Severity] {
		return
	}
	payload, err := json.Marshal(note)
	if err != nil {
		n.logger.Warn("Failed to marshal notification", zap.Error(err))
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		attrs := map[string]string{"severity": string(note.Severity)}
		if err := n.publisher.Publish(ctx, n.topicArn, payload, attrs); err != nil {
			n.logger.Error("Failed to publish notification to SNS", zap.Error(err))
		}
	}()
}

// Close waits for in-flight publishes.
func (n *SNSNotifier) Close() {
	n.wg.Wait()
}
