package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/notifykit/notifykit/pkg/dispatch"
	"github.com/notifykit/notifykit/pkg/notification"
)

// Provider delivers notifications to mobile devices through an HTTP
// push gateway. Each device token registered in the recipient's
// preferences receives its own gateway call; the call succeeds when at
// least one device accepts the message.
type Provider struct {
	client *http.Client
	cfg    Config
	logger *slog.Logger
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

// WithHTTPClient replaces the HTTP client used for gateway calls.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		if c != nil {
			p.client = c
		}
	}
}

// New creates a push provider from cfg.
func New(cfg Config, opts ...Option) (*Provider, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		client: &http.Client{Timeout: cfg.GatewayTimeout},
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Channel implements dispatch.Provider.
func (p *Provider) Channel() notification.Channel {
	return notification.ChannelPush
}

type pushPayload struct {
	Token    string         `json:"token"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Category string         `json:"category"`
	Severity string         `json:"severity"`
	Data     map[string]any `json:"data,omitempty"`
}

// Send implements dispatch.Provider. It pushes the notification to
// every registered device token and reports per-token outcomes.
func (p *Provider) Send(ctx context.Context, n notification.Notification, pref notification.ChannelPreference) (dispatch.DeliveryResult, error) {
	if len(pref.Targets) == 0 {
		return dispatch.DeliveryResult{}, fmt.Errorf("%w: no device tokens registered", notification.ErrPolicyRejection)
	}

	targets := make([]dispatch.TargetResult, 0, len(pref.Targets))
	delivered := 0
	for _, token := range pref.Targets {
		status, err := p.push(ctx, token, n)
		result := dispatch.TargetResult{Target: token, StatusCode: status}
		if err != nil {
			result.Error = err.Error()
			p.logger.WarnContext(ctx, "push delivery to device failed",
				slog.String("notification_id", n.ID),
				slog.Int("status", status),
				slog.String("error", err.Error()))
		} else {
			result.Success = true
			delivered++
		}
		targets = append(targets, result)
	}

	if delivered == 0 {
		return dispatch.DeliveryResult{Targets: targets},
			fmt.Errorf("%w: push rejected by all %d devices", notification.ErrTransport, len(pref.Targets))
	}

	return dispatch.DeliveryResult{Targets: targets}, nil
}

func (p *Provider) push(ctx context.Context, token string, n notification.Notification) (int, error) {
	body, err := json.Marshal(pushPayload{
		Token:    token,
		Title:    n.Title,
		Body:     n.Body,
		Category: string(n.Category),
		Severity: string(n.Severity),
		Data:     n.Attributes,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.cfg.GatewayAPIKey)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("push gateway request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	p.logger.DebugContext(ctx, "push gateway responded",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return resp.StatusCode, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return resp.StatusCode, fmt.Errorf("device token no longer registered (status %d)", resp.StatusCode)
	default:
		return resp.StatusCode, fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
}
