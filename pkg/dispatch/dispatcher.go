package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/notifykit/notifykit/pkg/logger"
	"github.com/notifykit/notifykit/pkg/notification"
)

// Dispatcher is the synchronous entry point for delivery: it resolves
// applicable channels, invokes each channel's provider sequentially,
// records every attempt in the delivery log, and returns the full list
// of per-provider results.
//
// Channels are independent side effects; sequential invocation keeps
// per-provider failures isolated and keeps rate-limiter reasoning
// simple. Concurrency lives above the dispatcher, in the queue's
// fan-out of simultaneous in-flight items.
type Dispatcher struct {
	providers map[notification.Channel]Provider
	log       Log
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLog sets the delivery log attempts are appended to.
// Default is an in-memory log.
func WithLog(l Log) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.log = l
		}
	}
}

// WithProviderTimeout sets the fixed timeout wrapped around every
// individual provider call. Default is 15 seconds.
func WithProviderTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a Dispatcher over the given providers. A provider is
// selected by its Channel; registering two providers for the same
// channel is a configuration error.
func New(providers []Provider, opts ...Option) (*Dispatcher, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	d := &Dispatcher{
		providers: make(map[notification.Channel]Provider, len(providers)),
		log:       NewMemoryLog(),
		timeout:   15 * time.Second,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, p := range providers {
		if p == nil {
			continue
		}
		if _, dup := d.providers[p.Channel()]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProvider, p.Channel())
		}
		d.providers[p.Channel()] = p
	}
	if len(d.providers) == 0 {
		return nil, ErrNoProviders
	}

	return d, nil
}

// Dispatch resolves applicable channels and drives one delivery attempt
// per channel, returning all per-provider results.
//
// Zero applicable channels is not an error: the result list is empty
// and nil is returned. Callers must not retry in that case; no amount
// of retrying makes a channel applicable. The caller decides what
// overall success means; this subsystem defines it as "at least one
// provider succeeded" (see AnySucceeded).
func (d *Dispatcher) Dispatch(ctx context.Context, n notification.Notification, prefs notification.Preferences) ([]DeliveryResult, error) {
	n.Normalize()

	channels := notification.ApplicableChannels(n, prefs)
	if len(channels) == 0 {
		d.logger.LogAttrs(ctx, slog.LevelInfo, "no applicable channel",
			logger.NotificationID(n.ID),
			logger.UserID(n.RecipientUserID),
			slog.String("category", string(n.Category)),
			slog.String("severity", string(n.Severity)))
		return nil, nil
	}

	results := make([]DeliveryResult, 0, len(channels))
	for _, ch := range channels {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		provider, ok := d.providers[ch]
		if !ok {
			// Preferences may enable channels this deployment has no
			// provider for; skip rather than fail the whole dispatch.
			d.logger.LogAttrs(ctx, slog.LevelWarn, "no provider registered for channel",
				logger.NotificationID(n.ID),
				logger.Channel(ch))
			continue
		}

		pref, _ := prefs.Channel(ch)
		result := d.attempt(ctx, provider, n, pref)
		results = append(results, result)

		if err := d.log.Append(ctx, result); err != nil {
			// The log is the dispatcher's sole side effect beyond the
			// providers themselves; a failed append must not undo a
			// delivery that already happened.
			d.logger.LogAttrs(ctx, slog.LevelError, "failed to append delivery log entry",
				logger.NotificationID(n.ID),
				logger.Channel(ch),
				logger.Error(err))
		}
	}

	return results, nil
}

// attempt wraps a single provider call with the fixed timeout and
// converts the outcome into an immutable DeliveryResult. A timeout is
// recorded as a transport error: for retry purposes the two are
// indistinguishable.
func (d *Dispatcher) attempt(ctx context.Context, provider Provider, n notification.Notification, pref notification.ChannelPreference) DeliveryResult {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	result, err := provider.Send(callCtx, n, pref)
	result.NotificationID = n.ID
	result.Channel = provider.Channel()
	result.Timestamp = start
	result.Duration = time.Since(start)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("%w: provider call timed out after %s", notification.ErrTransport, d.timeout)
		}
		result.Success = false
		result.ErrorKind = notification.Kind(err)
		result.Error = err.Error()

		d.logger.LogAttrs(ctx, slog.LevelWarn, "provider delivery failed",
			logger.NotificationID(n.ID),
			logger.Channel(provider.Channel()),
			slog.String("error_kind", result.ErrorKind),
			logger.Error(err))
		return result
	}

	result.Success = true
	d.logger.LogAttrs(ctx, slog.LevelDebug, "provider delivery succeeded",
		logger.NotificationID(n.ID),
		logger.Channel(provider.Channel()),
		slog.Duration("duration", result.Duration))
	return result
}
