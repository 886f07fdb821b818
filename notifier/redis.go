package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/yashrajoria/pos-terminal/models"
	"go.uber.org/zap"
)

const DefaultPublishTimeout = 2 * time.Second

// RedisNotifier publishes notifications as JSON on a Redis pub/sub channel so
// any number of displays can show them. Publishing is synchronous to keep
// delivery order; failures are logged and dropped.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	timeout time.Duration
	logger  *zap.Logger
}

func NewRedisNotifier(client *redis.Client, channel string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{
		client:  client,
		channel: channel,
		timeout: DefaultPublishTimeout,
		logger:  logger,
	}
}

// NewRedisClient connects to the Redis server at url and verifies it with a
// ping.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func (n *RedisNotifier) Notify(ctx context.Context, note models.Notification) {
	payload, err := json.Marshal(note)
	if err != nil {
		n.logger.Warn("Failed to marshal notification", zap.Error(err))
		return
	}

	// The caller's request may already be finished; only its values matter.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	defer cancel()

	if err := n.client.Publish(pubCtx, n.channel, payload).Err(); err != nil {
		n.logger.Warn("Failed to publish notification",
			zap.String("channel", n.channel),
			zap.Error(err),
		)
	}
}
