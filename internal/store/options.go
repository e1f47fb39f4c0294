package store

import "log/slog"

// Option configures a Store.
type Option func(*config)

type config struct {
	name     string
	clock    Clock
	ids      IDGenerator
	logger   *slog.Logger
	observer Observer
}

func defaultConfig() config {
	return config{
		clock:  NewClock(),
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}
}

// WithName sets a human-readable name carried on every event.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithClock replaces the store's logical version clock.
func WithClock(clock Clock) Option {
	return func(c *config) {
		c.clock = clock
	}
}

// WithIDGenerator replaces the generator used for the store id.
func WithIDGenerator(g IDGenerator) Option {
	return func(c *config) {
		c.ids = g
	}
}

// WithLogger sets the logger dispatch outcomes are written to, in addition
// to any observer set with WithObserver. Defaults to slog.Default(); nil
// turns logging off.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithObserver adds an observer. Repeated use fans out to all of them.
func WithObserver(obs Observer) Option {
	return func(c *config) {
		if c.observer == nil {
			c.observer = obs
			return
		}
		c.observer = NewMultiObserver(c.observer, obs)
	}
}
