// Package redis connects the delivery log to its Redis backend.
//
// Connect parses a redis:// URL, verifies the server answers before
// returning, and retries per the configured schedule so the process
// can start while Redis is still coming up. Healthcheck wraps the same
// ping for readiness probes.
package redis
