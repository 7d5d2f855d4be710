// Package config loads, normalizes, and validates atelier configuration.
//
// Configuration is TOML on disk with defaults for every field, so a missing
// config file still yields a runnable daemon. Paths are expanded (~ and
// relative forms) during normalization; Validate rejects values the daemon
// cannot operate with.
package config
