package notification

import "errors"

// Shared delivery failure taxonomy. Providers wrap their failures with
// one of these sentinels so that callers can classify without knowing
// transport details:
//
//   - ErrPolicyRejection: configuration or limits (disabled channel,
//     unverified address, rate/cost ceiling), not a transport problem.
//   - ErrTransport: network failure, non-2xx response, timeout.
//   - ErrExpired: the notification is past its expiry; never retried.
var (
	ErrPolicyRejection = errors.New("policy rejection")
	ErrTransport       = errors.New("transport error")
	ErrExpired         = errors.New("notification expired")

	ErrInvalidCategory = errors.New("invalid notification category")
	ErrInvalidSeverity = errors.New("invalid notification severity")
)

// IsPolicyRejection reports whether err is a policy rejection.
func IsPolicyRejection(err error) bool {
	return errors.Is(err, ErrPolicyRejection)
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	return errors.Is(err, ErrTransport)
}

// Kind maps an error onto its taxonomy label for logging and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPolicyRejection):
		return "policy_rejection"
	case errors.Is(err, ErrTransport):
		return "transport_error"
	case errors.Is(err, ErrExpired):
		return "expired"
	default:
		return "unknown"
	}
}
