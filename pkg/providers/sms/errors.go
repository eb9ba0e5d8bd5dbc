package sms

import "errors"

var (
	// ErrInvalidConfig is returned for negative ceilings or an
	// unusably small character budget.
	ErrInvalidConfig = errors.New("invalid sms provider configuration")

	// ErrGatewayRequired is returned when a provider is constructed
	// without a gateway.
	ErrGatewayRequired = errors.New("sms gateway cannot be nil")

	// ErrGatewayURLRequired is returned when an HTTP gateway is
	// constructed without a relay endpoint.
	ErrGatewayURLRequired = errors.New("sms gateway url is required")
)
