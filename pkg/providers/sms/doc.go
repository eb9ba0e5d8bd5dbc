// Package sms implements the rate-limited text-message delivery
// provider.
//
// Two independent per-user ceilings gate every send: a rolling hourly
// message count and a rolling daily spend, each with its own lazily
// advanced reset timestamp. Quota is reserved atomically before the
// gateway call and handed back if the call fails, so concurrent sends
// for one user cannot overshoot a ceiling and only messages that
// actually went out count. A breach is reported as a policy rejection,
// distinguishable from transport failures.
//
// Messages are formatted short: a severity marker, the category label,
// and as much title/body as fits a fixed character budget.
//
// The HTTP gateway client wraps its relay calls in a circuit breaker
// so a failing relay trips fast rather than holding dispatch slots on
// timeouts.
package sms
