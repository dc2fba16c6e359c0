package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/practice-api/pkg/circuitbreaker"
	"github.com/jwalitptl/practice-api/pkg/messaging"
)

const noticePayload = "changed"

type Config struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
}

// Notifier fans change notices out to every API replica over Redis
// pub/sub.
type Notifier struct {
	client *redis.Client
	cb     *circuitbreaker.CircuitBreaker
	logger zerolog.Logger
}

var _ messaging.Notifier = (*Notifier)(nil)

func NewNotifier(ctx context.Context, config Config, logger zerolog.Logger) (*Notifier, error) {
	opts, err := redis.ParseURL(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.MaxRetries = config.MaxRetries
	if config.RetryBackoff > 0 {
		opts.MinRetryBackoff = config.RetryBackoff
	}
	if config.PoolSize > 0 {
		opts.PoolSize = config.PoolSize
	}
	opts.MinIdleConns = config.MinIdleConns

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewNotifierFromClient(client, logger), nil
}

func NewNotifierFromClient(client *redis.Client, logger zerolog.Logger) *Notifier {
	return &Notifier{
		client: client,
		cb: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "redis-notifier",
			MaxFailures: 5,
			Timeout:     5 * time.Second,
		}),
		logger: logger.With().Str("component", "redis_notifier").Logger(),
	}
}

func (n *Notifier) Notify(ctx context.Context, topic string) error {
	return n.cb.ExecuteContext(ctx, func(ctx context.Context) error {
		if err := n.client.Publish(ctx, topic, noticePayload).Err(); err != nil {
			return fmt.Errorf("failed to publish notice: %w", err)
		}
		return nil
	})
}

func (n *Notifier) Listen(ctx context.Context, topic string) (<-chan struct{}, error) {
	pubsub := n.client.Subscribe(ctx, topic)
	// Wait for the subscription to be confirmed so no notice published
	// after Listen returns is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	notices := make(chan struct{}, 1)
	msgs := pubsub.Channel()

	go func() {
		defer func() {
			pubsub.Close()
			close(notices)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					n.logger.Warn().Str("topic", topic).Msg("pub/sub channel closed")
					return
				}
				select {
				case notices <- struct{}{}:
				default:
				}
			}
		}
	}()

	return notices, nil
}

func (n *Notifier) Close() error {
	return n.client.Close()
}

// Ping reports whether Redis is reachable, for readiness checks.
func (n *Notifier) Ping(ctx context.Context) error {
	return n.client.Ping(ctx).Err()
}
