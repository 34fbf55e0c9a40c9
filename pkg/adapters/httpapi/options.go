package httpapi

import "log/slog"

type options struct {
	logger  *slog.Logger
	maxBody int64
	history int
	sender  Sender
	version string
}

// Option defines a functional option for the relay.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		maxBody: DefaultMaxBodyBytes,
		history: DefaultHistory,
	}
}

// WithLogger sets the logger for handlers and request logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMaxBodyBytes limits request bodies; larger bodies get 413.
func WithMaxBodyBytes(n int64) Option {
	return func(o *options) {
		o.maxBody = n
	}
}

// WithHistory sets how many received items are kept.
func WithHistory(n int) Option {
	return func(o *options) {
		o.history = n
	}
}

// WithSender forwards every accepted item, typically to an outbox.
func WithSender(s Sender) Option {
	return func(o *options) {
		o.sender = s
	}
}

// WithVersion is reported by the health endpoint.
func WithVersion(v string) Option {
	return func(o *options) {
		o.version = v
	}
}
