// Package notification defines the core domain model for the delivery
// subsystem: the Notification unit of work, per-user per-channel
// delivery Preferences, the pure preference matcher, and the shared
// failure taxonomy used by every provider.
//
// The package has no I/O and no dependencies on the rest of the
// subsystem; dispatcher, queue, and providers all build on it.
//
// # Matching
//
//	channels := notification.ApplicableChannels(n, prefs)
//
// returns the channels a notification should be routed to. Severity and
// Category are the routing key for the whole pipeline and are immutable
// once a notification is created.
//
// # Failure taxonomy
//
// Providers wrap failures with ErrPolicyRejection, ErrTransport, or
// ErrExpired so callers can classify with errors.Is without knowing
// transport details. Kind converts an error into its stable label for
// logs and metrics.
package notification
