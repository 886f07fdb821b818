package notifier

import (
	"context"

	"github.com/yashrajoria/pos-terminal/models"
	"go.uber.org/zap"
)

// LogNotifier writes notifications to the service log. It is always part of
// the sink chain so every toast leaves a trace.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notifications")}
}

func (n *LogNotifier) Notify(_ context.Context, note models.Notification) {
	fields := []zap.Field{
		zap.String("severity", string(note.Severity)),
		zap.Time("at", note.Timestamp),
	}
	if note.Duration > 0 {
		fields = append(fields, zap.Duration("duration", note.Duration))
	}
	if note.Severity == models.SeverityError {
		n.logger.Warn(note.Message, fields...)
		return
	}
	n.logger.Info(note.Message, fields...)
}
