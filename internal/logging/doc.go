// Package logging constructs slog loggers from atelier configuration and
// provides attribute helpers shared across the engine.
package logging
