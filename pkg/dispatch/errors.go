package dispatch

import "errors"

var (
	// ErrNoProviders is returned when a dispatcher is constructed
	// without any providers.
	ErrNoProviders = errors.New("at least one provider is required")

	// ErrDuplicateProvider is returned when two providers claim the
	// same channel.
	ErrDuplicateProvider = errors.New("duplicate provider for channel")

	// ErrMissingNotificationID is returned when a delivery result
	// without a notification ID is appended to the log.
	ErrMissingNotificationID = errors.New("delivery result has no notification id")

	// ErrNilRedisClient is returned when a RedisLog is constructed
	// without a client.
	ErrNilRedisClient = errors.New("redis client cannot be nil")
)
