// Package push delivers notifications to mobile devices through an
// HTTP push gateway.
//
// A recipient may register several device tokens; the provider fans
// the notification out to all of them and succeeds when at least one
// device accepts it. Stale tokens (404/410 from the gateway) are
// reported in the per-target results so callers can prune them.
//
// Usage:
//
//	provider, err := push.New(push.Config{
//		GatewayURL:    "https://push.example.com/v1/send",
//		GatewayAPIKey: "secret",
//	})
//	if err != nil { ... }
package push
