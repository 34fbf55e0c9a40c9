package lifecycle

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/xitem/pkg/adapters/fs"
)

// DeliverySource turns inbox deliveries into lifecycle events.
// fs.Delivery implements lifecycle.Event through its String method.
type DeliverySource struct {
	deliveries     <-chan fs.Delivery
	out            chan lifecycle.Event
	logger         *slog.Logger
	skipUnreadable bool
	unreadable     atomic.Int64
}

// Option configures a DeliverySource.
type Option func(*DeliverySource)

// WithLogger sets the logger used to report unreadable deliveries.
func WithLogger(l *slog.Logger) Option {
	return func(s *DeliverySource) {
		if l != nil {
			s.logger = l
		}
	}
}

// SkipUnreadable drops deliveries whose file could not be decoded instead of
// emitting them. They are still logged and counted.
func SkipUnreadable() Option {
	return func(s *DeliverySource) { s.skipUnreadable = true }
}

// NewSource creates a source fed by deliveries.
func NewSource(deliveries <-chan fs.Delivery, opts ...Option) *DeliverySource {
	s := &DeliverySource{
		deliveries: deliveries,
		out:        make(chan lifecycle.Event),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ lifecycle.Source = (*DeliverySource)(nil)

func (s *DeliverySource) Events() <-chan lifecycle.Event {
	return s.out
}

// Unreadable reports how many deliveries carried a decode error.
func (s *DeliverySource) Unreadable() int64 {
	return s.unreadable.Load()
}

// Start forwards deliveries until ctx is done or the delivery channel closes,
// then closes Events.
func (s *DeliverySource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case d, ok := <-s.deliveries:
				if !ok {
					return nil
				}
				if d.Err != nil {
					s.unreadable.Add(1)
					s.logger.Warn("unreadable item", "path", d.Path, "error", d.Err)
					if s.skipUnreadable {
						continue
					}
				}
				select {
				case s.out <- d:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
