package dispatch

import (
	"context"
	"time"

	"github.com/notifykit/notifykit/pkg/notification"
)

// Provider attempts a single delivery of a notification over exactly
// one channel. Implementations are stateless per call; any channel
// state (rate limiters, connection pools) lives inside the provider
// value and is shared across calls.
type Provider interface {
	// Channel identifies the delivery medium this provider serves.
	Channel() notification.Channel

	// Send formats the notification for the channel and attempts one
	// delivery to the addresses in pref. The returned result always
	// describes the attempt; err is non-nil iff the attempt failed
	// overall and is wrapped with the shared failure taxonomy.
	Send(ctx context.Context, n notification.Notification, pref notification.ChannelPreference) (DeliveryResult, error)
}

// TargetResult records the outcome for one target of a fan-out
// provider call, so operators can see partial fan-out failure without
// the whole provider call being flagged as total failure.
type TargetResult struct {
	Target     string `json:"target"`
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// DeliveryResult is the immutable record of one (notification,
// provider) delivery attempt. It is consumed by the delivery log and
// by the queue's retry decision.
type DeliveryResult struct {
	NotificationID    string               `json:"notification_id"`
	Channel           notification.Channel `json:"channel"`
	Success           bool                 `json:"success"`
	ProviderMessageID string               `json:"provider_message_id,omitempty"`
	ErrorKind         string               `json:"error_kind,omitempty"`
	Error             string               `json:"error,omitempty"`
	Targets           []TargetResult       `json:"targets,omitempty"`
	Timestamp         time.Time            `json:"timestamp"`
	Duration          time.Duration        `json:"duration"`
}

// AnySucceeded reports whether at least one provider succeeded. The
// subsystem defines this as overall dispatch success.
func AnySucceeded(results []DeliveryResult) bool {
	for _, r := range results {
		if r.Success {
			return true
		}
	}
	return false
}
