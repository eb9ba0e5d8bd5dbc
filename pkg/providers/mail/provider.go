package mail

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/notifykit/notifykit/pkg/dispatch"
	"github.com/notifykit/notifykit/pkg/notification"
)

// Provider delivers notifications over electronic mail. It selects a
// formatting template by category, renders title, body, and the
// attribute table into it, and submits once per call with no internal
// retry.
type Provider struct {
	sender     Sender
	byCategory map[notification.Category]*template.Template
	fallback   *template.Template
	logger     *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a mail provider over the given sender.
func New(sender Sender, opts ...Option) (*Provider, error) {
	if sender == nil {
		return nil, ErrSenderRequired
	}

	byCategory, fallback, err := buildTemplates()
	if err != nil {
		return nil, err
	}

	p := &Provider{
		sender:     sender,
		byCategory: byCategory,
		fallback:   fallback,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Channel implements dispatch.Provider.
func (p *Provider) Channel() notification.Channel {
	return notification.ChannelMail
}

// Send implements dispatch.Provider.
func (p *Provider) Send(ctx context.Context, n notification.Notification, pref notification.ChannelPreference) (dispatch.DeliveryResult, error) {
	if pref.Address == "" {
		return dispatch.DeliveryResult{}, fmt.Errorf("%w: no mailbox configured", notification.ErrPolicyRejection)
	}

	tpl, ok := p.byCategory[n.Category]
	if !ok {
		tpl = p.fallback
	}

	var body strings.Builder
	err := tpl.Execute(&body, templateData{
		Title:      n.Title,
		Body:       n.Body,
		Category:   string(n.Category),
		Severity:   string(n.Severity),
		Attributes: renderAttributes(n.Attributes),
	})
	if err != nil {
		return dispatch.DeliveryResult{}, fmt.Errorf("failed to render mail template: %w", err)
	}

	msgID, err := p.sender.Send(ctx, Message{
		To:       pref.Address,
		Subject:  subjectFor(n),
		BodyHTML: body.String(),
		Tag:      string(n.Category),
	})
	if err != nil {
		return dispatch.DeliveryResult{}, err
	}

	return dispatch.DeliveryResult{ProviderMessageID: msgID}, nil
}
