// Package webhook implements the webhook fan-out delivery provider.
//
// A single logical channel may address several independently configured
// targets for one user (chat integrations, generic callback URLs). The
// provider POSTs a JSON payload to each target with a bounded timeout
// and a small number of immediate linear-delay retries: 5xx responses
// and network failures are retried, 4xx responses are treated as
// permanent for that target on this attempt.
//
// The provider call succeeds when at least one target succeeds;
// per-target outcomes are reported in DeliveryResult.Targets so partial
// fan-out failure stays visible.
package webhook
