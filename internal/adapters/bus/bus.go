// Package bus subscribes to the webhook republisher channel on Redis.
//
// The republisher forwards provider webhooks onto
// "<prefix>:webhookChannels:nomic". One goroutine drains the subscription;
// each message is handed to the handler to completion before the next is
// read, so per-message processing order is preserved.
package bus

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/okian/nomic/pkg/logger"
	"github.com/okian/nomic/pkg/metrics"
)

const channelSuffix = "webhookChannels:nomic"

// Handler consumes one raw bus message. Implementations must not panic;
// a bad message must never stop future messages from being processed.
type Handler interface {
	HandleMessage(ctx context.Context, raw []byte)
}

// Listener owns the bus subscription.
type Listener struct {
	rdb     *redis.Client
	channel string
	handler Handler
	logger  logger.Logger

	pubsub *redis.PubSub
}

// Option applies a configuration option to the Listener.
type Option func(*Listener)

// WithLogger sets a custom logger for the listener.
func WithLogger(l logger.Logger) Option {
	return func(b *Listener) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates a Listener on "<prefix>:webhookChannels:nomic".
func New(rdb *redis.Client, prefix string, handler Handler, opts ...Option) *Listener {
	b := &Listener{
		rdb:     rdb,
		channel: fmt.Sprintf("%s:%s", prefix, channelSuffix),
		handler: handler,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = logger.Named("bus")
	}
	return b
}

// Listen subscribes and drains messages until ctx is canceled or the
// subscription channel closes. Subscribing happens once per process.
func (b *Listener) Listen(ctx context.Context) error {
	b.pubsub = b.rdb.Subscribe(ctx, b.channel)

	// Force the subscription onto the wire before reporting readiness.
	if _, err := b.pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	b.logger.Info(ctx, "subscribed", logger.String("channel", b.channel))

	ch := b.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			metrics.RecordBusMessage()
			delivery := uuid.NewString()
			b.logger.Debug(ctx, "bus message received",
				logger.String("delivery", delivery),
				logger.String("channel", msg.Channel),
			)
			b.handler.HandleMessage(ctx, []byte(msg.Payload))
		}
	}
}

// Close tears down the subscription. The Redis client itself is shared
// and closed by the process owner.
func (b *Listener) Close() error {
	if b.pubsub == nil {
		return nil
	}
	return b.pubsub.Close()
}
