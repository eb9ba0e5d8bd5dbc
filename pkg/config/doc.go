// Package config loads application configuration from environment
// variables into tagged structs.
//
// It wraps github.com/joho/godotenv for .env files and
// github.com/caarlos0/env/v11 for struct parsing, and caches each
// successfully parsed configuration type so it is read at most once per
// process. Every subsystem declares its own Config struct with env
// tags; this package is the single place they are populated from.
//
// Usage:
//
//	var cfg queue.Config
//	config.MustLoad(&cfg)
//
// Tests that mutate the environment can call ForceReload or ResetCache
// to bypass the cache.
package config
