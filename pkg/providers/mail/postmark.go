package mail

import (
	"context"
	"fmt"

	"github.com/mrz1836/postmark"

	"github.com/notifykit/notifykit/pkg/notification"
)

// Config holds the mail channel configuration. Tokens are optional so
// development environments can run on the DevSender instead.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderAddress        string `env:"MAIL_SENDER_ADDRESS"`
}

type postmarkSender struct {
	client *postmark.Client
	from   string
}

// NewPostmarkSender creates a Postmark-backed mail sender. All fields
// are required for runtime operation; failing here keeps a
// misconfigured service from starting half-working.
func NewPostmarkSender(cfg Config) (Sender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if cfg.SenderAddress == "" {
		return nil, fmt.Errorf("%w: SenderAddress is required", ErrInvalidConfig)
	}

	return &postmarkSender{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		from:   cfg.SenderAddress,
	}, nil
}

// Send implements Sender using Postmark's transactional API. Relay
// failures are classified as transport errors so the outer queue
// retries them.
func (s *postmarkSender) Send(ctx context.Context, msg Message) (string, error) {
	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.from,
		To:       msg.To,
		Subject:  msg.Subject,
		Tag:      msg.Tag,
		HTMLBody: msg.BodyHTML,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", notification.ErrTransport, err)
	}
	if resp.ErrorCode > 0 {
		return "", fmt.Errorf("%w: postmark error %d: %s", notification.ErrTransport, resp.ErrorCode, resp.Message)
	}
	return resp.MessageID, nil
}
