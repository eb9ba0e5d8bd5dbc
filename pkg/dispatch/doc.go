// Package dispatch drives a single delivery attempt of a notification
// across all applicable channels.
//
// The Dispatcher resolves applicable channels through the preference
// matcher, invokes each channel's Provider sequentially with a fixed
// per-call timeout, appends every attempt to an append-only delivery
// Log, and returns the full list of per-provider results.
//
// # Usage
//
//	d, err := dispatch.New([]dispatch.Provider{mailProvider, smsProvider},
//	    dispatch.WithProviderTimeout(10*time.Second),
//	    dispatch.WithLog(dispatch.NewMemoryLog()),
//	)
//	results, err := d.Dispatch(ctx, n, prefs)
//	if dispatch.AnySucceeded(results) { ... }
//
// Zero applicable channels yields an empty result list and a nil
// error: it is a no-op, not a failure, and must never be retried.
//
// Delivery logs can be kept in memory (NewMemoryLog) or in Redis
// (NewRedisLog) when entries need to outlive the process.
package dispatch
