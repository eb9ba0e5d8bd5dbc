package mail

import "errors"

var (
	// ErrInvalidConfig is returned when the mail configuration is incomplete.
	ErrInvalidConfig = errors.New("invalid mail config")
	// ErrSenderRequired is returned when a provider is created without a sender.
	ErrSenderRequired = errors.New("mail sender is required")
)
