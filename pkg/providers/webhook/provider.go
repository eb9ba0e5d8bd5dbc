package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/notifykit/notifykit/pkg/dispatch"
	"github.com/notifykit/notifykit/pkg/logger"
	"github.com/notifykit/notifykit/pkg/notification"
)

// Provider delivers a notification to every webhook target a user has
// configured. One provider call fans out to all targets; each target
// gets its own inner retry loop for transient transport failures,
// distinct from the delivery queue's outer rescheduling.
//
// The provider call as a whole succeeds if at least one target
// succeeded; per-target detail is reported so operators can see
// partial fan-out failure.
type Provider struct {
	client *http.Client
	cfg    Config
	logger *slog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient sets a custom HTTP client, useful for custom
// transports or testing.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		if client != nil {
			p.client = client
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a webhook fan-out provider.
func New(cfg Config, opts ...Option) (*Provider, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
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
	return notification.ChannelWebhook
}

// payload is the wire shape posted to every target.
type payload struct {
	ID         string         `json:"id"`
	Category   string         `json:"category"`
	Severity   string         `json:"severity"`
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	UserID     string         `json:"user_id,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Send implements dispatch.Provider. It POSTs a JSON payload to each
// configured target with a bounded timeout and a small fixed number of
// immediate retries with linearly increasing delay. A 5xx status or
// network failure is retried; a 4xx status is a permanent rejection
// for that target on this attempt.
func (p *Provider) Send(ctx context.Context, n notification.Notification, pref notification.ChannelPreference) (dispatch.DeliveryResult, error) {
	if len(pref.Targets) == 0 {
		return dispatch.DeliveryResult{}, fmt.Errorf("%w: no webhook targets configured", notification.ErrPolicyRejection)
	}

	body, err := json.Marshal(payload{
		ID:         n.ID,
		Category:   string(n.Category),
		Severity:   string(n.Severity),
		Title:      n.Title,
		Body:       n.Body,
		UserID:     n.RecipientUserID,
		Attributes: n.Attributes,
		CreatedAt:  n.CreatedAt,
	})
	if err != nil {
		return dispatch.DeliveryResult{}, fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	targets := make([]dispatch.TargetResult, 0, len(pref.Targets))
	succeeded := 0
	for _, target := range pref.Targets {
		tr := p.deliverTarget(ctx, target, body)
		if tr.Success {
			succeeded++
		}
		targets = append(targets, tr)
	}

	result := dispatch.DeliveryResult{Targets: targets}
	if succeeded == 0 {
		return result, fmt.Errorf("%w: all %d webhook targets failed", notification.ErrTransport, len(targets))
	}

	if succeeded < len(targets) {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "partial webhook fan-out failure",
			logger.NotificationID(n.ID),
			slog.Int("succeeded", succeeded),
			slog.Int("targets", len(targets)))
	}
	return result, nil
}

// deliverTarget runs the inner retry loop for one target. The loop is
// transport-level resilience for a single provider call, not
// queue-level rescheduling.
func (p *Provider) deliverTarget(ctx context.Context, target string, body []byte) dispatch.TargetResult {
	tr := dispatch.TargetResult{Target: target}

	if err := validateTarget(target); err != nil {
		tr.Error = err.Error()
		return tr
	}

	var lastStatus int
	var lastErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			// Linear delay between immediate retries.
			select {
			case <-ctx.Done():
				tr.Error = ctx.Err().Error()
				return tr
			case <-time.After(p.cfg.RetryDelay * time.Duration(attempt)):
			}
		}

		status, err := p.post(ctx, target, body)
		lastStatus, lastErr = status, err
		if err == nil {
			tr.Success = true
			tr.StatusCode = status
			return tr
		}

		// 4xx responses are permanent rejections for this target;
		// retrying the same payload cannot change the answer.
		if status >= 400 && status < 500 {
			break
		}
	}

	tr.StatusCode = lastStatus
	if lastErr != nil {
		tr.Error = lastErr.Error()
	}
	return tr
}

func (p *Provider) post(ctx context.Context, target string, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "notifykit-webhook/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, nil
	}

	// Read a slice of the response body for error context; cap it to
	// keep log lines and stored results bounded.
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.ReplaceAll(string(snippet), "\n", " ")
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	if msg == "" {
		return resp.StatusCode, fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return resp.StatusCode, fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, msg)
}

// validateTarget restricts targets to http/https URLs with a host.
func validateTarget(target string) error {
	u, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidTarget)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: host is required", ErrInvalidTarget)
	}
	return nil
}
