package webhook

import "errors"

var (
	// ErrInvalidConfig is returned for negative timeouts or retry counts.
	ErrInvalidConfig = errors.New("invalid webhook provider configuration")

	// ErrInvalidTarget is returned for targets that are not http/https URLs.
	ErrInvalidTarget = errors.New("invalid webhook target")
)
