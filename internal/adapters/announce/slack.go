// Package announce sends game announcements to the chat channel.
package announce

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/okian/nomic/pkg/logger"
	"github.com/okian/nomic/pkg/metrics"
)

// SlackNotifier posts announcements to a fixed Slack channel.
type SlackNotifier struct {
	client  *slack.Client
	channel string
	logger  logger.Logger
}

// Option applies a configuration option to the SlackNotifier.
type Option func(*SlackNotifier)

// WithLogger sets a custom logger for the notifier.
func WithLogger(l logger.Logger) Option {
	return func(n *SlackNotifier) {
		if l != nil {
			n.logger = l
		}
	}
}

// NewSlack creates a notifier bound to the announcement channel.
func NewSlack(token, channel string, opts ...Option) *SlackNotifier {
	n := &SlackNotifier{
		client:  slack.New(token),
		channel: channel,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = logger.Named("announce")
	}
	return n
}

// Say posts one fully formatted announcement. Announcements are never
// split across multiple messages.
func (n *SlackNotifier) Say(ctx context.Context, text string) error {
	if _, _, err := n.client.PostMessageContext(ctx, n.channel, slack.MsgOptionText(text, false)); err != nil {
		metrics.RecordAnnounceError()
		n.logger.Error(ctx, "announcement failed", logger.Error(err))
		return fmt.Errorf("post to %s: %w", n.channel, err)
	}
	metrics.RecordAnnouncement()
	return nil
}
