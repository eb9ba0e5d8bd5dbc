package sms

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/notifykit/notifykit/pkg/dispatch"
	"github.com/notifykit/notifykit/pkg/logger"
	"github.com/notifykit/notifykit/pkg/notification"
)

// Provider delivers notifications over the text-message channel. It is
// the one rate-limited channel: quota against the per-user hourly send
// count and daily spend ceilings is reserved before anything reaches
// the gateway, and handed back when the gateway call fails.
type Provider struct {
	cfg     Config
	gateway Gateway
	limiter *Limiter
	logger  *slog.Logger
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

// New creates a text-message provider over the given gateway.
func New(cfg Config, gateway Gateway, opts ...Option) (*Provider, error) {
	if gateway == nil {
		return nil, ErrGatewayRequired
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		cfg:     cfg,
		gateway: gateway,
		limiter: NewLimiter(cfg.HourlyLimit, cfg.DailyCostLimit, cfg.CostPerMessage),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Channel implements dispatch.Provider.
func (p *Provider) Channel() notification.Channel {
	return notification.ChannelSMS
}

// Send implements dispatch.Provider.
func (p *Provider) Send(ctx context.Context, n notification.Notification, pref notification.ChannelPreference) (dispatch.DeliveryResult, error) {
	if pref.Address == "" {
		return dispatch.DeliveryResult{}, fmt.Errorf("%w: no phone number configured", notification.ErrPolicyRejection)
	}
	// The matcher already filters unverified numbers; the provider
	// re-checks because it is also reachable through direct dispatch.
	if !pref.Verified {
		return dispatch.DeliveryResult{}, fmt.Errorf("%w: phone number not verified", notification.ErrPolicyRejection)
	}

	userID := n.RecipientUserID
	if err := p.limiter.Reserve(userID); err != nil {
		p.logger.LogAttrs(ctx, slog.LevelInfo, "sms send rejected by rate limiter",
			logger.NotificationID(n.ID),
			logger.UserID(userID),
			logger.Error(err))
		return dispatch.DeliveryResult{}, err
	}

	msgID, err := p.gateway.Send(ctx, pref.Address, p.format(n))
	if err != nil {
		p.limiter.Release(userID)
		return dispatch.DeliveryResult{}, err
	}

	return dispatch.DeliveryResult{ProviderMessageID: msgID}, nil
}

// Usage exposes the rate-limit consumption for a user.
func (p *Provider) Usage(userID string) Usage {
	return p.limiter.Usage(userID)
}

var severityMarkers = map[notification.Severity]string{
	notification.SeverityLow:      "LOW",
	notification.SeverityMedium:   "MED",
	notification.SeverityHigh:     "HIGH",
	notification.SeverityCritical: "CRIT",
}

// format renders the deliberately short SMS body: severity marker,
// category label, and as much of the title/body as fits the character
// budget, ellipsis-marked when truncated. The budget counts runes, not
// bytes, and binds the whole message including the prefix, so a budget
// smaller than the prefix still yields a valid clamped message.
func (p *Provider) format(n notification.Notification) string {
	marker, ok := severityMarkers[n.Severity]
	if !ok {
		marker = strings.ToUpper(string(n.Severity))
	}

	msg := fmt.Sprintf("[%s] %s: %s", marker, n.Category, n.Title)
	if n.Body != "" {
		msg += " - " + n.Body
	}

	runes := []rune(msg)
	if len(runes) <= p.cfg.CharBudget {
		return msg
	}
	if p.cfg.CharBudget > 3 {
		return string(runes[:p.cfg.CharBudget-3]) + "..."
	}
	return string(runes[:p.cfg.CharBudget])
}
