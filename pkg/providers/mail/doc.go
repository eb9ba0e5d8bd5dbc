// Package mail delivers notifications to a recipient's mailbox.
//
// The provider renders each notification into an HTML layout selected
// by category (alert, report, system, with a generic fallback), adds a
// table of notification attributes, and hands the result to a Sender.
// Two senders ship with the package: a Postmark-backed sender for
// production and DevSender, which writes messages to local files for
// inspection during development.
//
// Mail submission is a single attempt per call. The relay accepts the
// message durably, so transient failures are left to the caller's
// retry machinery rather than retried in-process.
//
// Usage:
//
//	sender, err := mail.NewPostmarkSender(cfg)
//	if err != nil { ... }
//	provider, err := mail.New(sender, mail.WithLogger(log))
//	if err != nil { ... }
package mail
