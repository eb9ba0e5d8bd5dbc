package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/notifykit/notifykit/pkg/notification"
)

// Gateway submits one formatted message to the SMS transport and
// returns the gateway's message identifier.
type Gateway interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// HTTPGateway talks to an SMS relay over HTTP. Calls run through a
// circuit breaker so a flapping relay fails fast instead of tying up
// dispatch slots on timeouts.
type HTTPGateway struct {
	url     string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewHTTPGateway creates a gateway client for the given relay endpoint.
func NewHTTPGateway(url, apiKey string, timeout time.Duration) (*HTTPGateway, error) {
	if url == "" {
		return nil, ErrGatewayURLRequired
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &HTTPGateway{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "sms-gateway",
			MaxRequests: 3,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= 3 && failureRatio >= 0.6
			},
		}),
	}, nil
}

type gatewayRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

type gatewayResponse struct {
	MessageID string `json:"message_id"`
}

// Send implements Gateway. All failures, including an open breaker,
// surface as transport errors.
func (g *HTTPGateway) Send(ctx context.Context, to, body string) (string, error) {
	result, err := g.breaker.Execute(func() (any, error) {
		return g.post(ctx, to, body)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", notification.ErrTransport, err)
	}
	return result.(string), nil
}

func (g *HTTPGateway) post(ctx context.Context, to, body string) (string, error) {
	payload, err := json.Marshal(gatewayRequest{To: to, Body: body})
	if err != nil {
		return "", fmt.Errorf("failed to marshal gateway request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gateway request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var out gatewayResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&out); err != nil {
		// Some relays answer 2xx with an empty body; the send still
		// happened, only the message id is missing.
		return "", nil
	}
	return out.MessageID, nil
}
