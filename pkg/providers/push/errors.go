package push

import "errors"

// ErrInvalidConfig is returned when the push gateway configuration is incomplete.
var ErrInvalidConfig = errors.New("invalid push config")
