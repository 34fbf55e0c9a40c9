package fs

import (
	"log/slog"
	"time"
)

// DefaultPattern matches every file a codec can read.
const DefaultPattern = "*.{json,yaml,yml,toml}"

// options holds the configuration shared by Outbox and Inbox.
type options struct {
	logger       *slog.Logger
	pattern      string
	debounce     time.Duration
	perm         uint32
	errorHandler func(error)
}

// Option defines a functional option for the file transport.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger:   slog.Default(),
		pattern:  DefaultPattern,
		debounce: 50 * time.Millisecond,
		perm:     0o644,
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPattern sets the doublestar pattern inbox file names must match,
// relative to the inbox directory.
func WithPattern(pattern string) Option {
	return func(o *options) {
		o.pattern = pattern
	}
}

// WithDebounce sets how long the inbox waits for a file to settle before
// reading it. Bursts of write events on one file produce a single delivery.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithFileMode sets the permission bits of files written by the outbox.
func WithFileMode(perm uint32) Option {
	return func(o *options) {
		o.perm = perm
	}
}

// WithErrorHandler receives watcher errors in addition to the log.
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
