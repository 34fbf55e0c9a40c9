package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/aretw0/xitem/pkg/codec"
	"github.com/aretw0/xitem/pkg/params"
)

// Outbox writes parameters as files into a directory, one file per Send.
// File names are ULIDs, so a directory listing is in send order.
type Outbox struct {
	Dir   string
	Codec codec.Codec

	opts *options

	mu       sync.Mutex
	sent     int
	lastSent *time.Time
}

// NewOutbox creates an outbox writing to dir with c. A nil codec means JSON.
func NewOutbox(dir string, c codec.Codec, opts ...Option) *Outbox {
	if c == nil {
		c = codec.NewJSON()
	}
	return &Outbox{Dir: dir, Codec: c, opts: applyOptions(opts)}
}

// Send writes p.ToMapping() atomically and returns the path of the new file.
func (o *Outbox) Send(ctx context.Context, p params.Parameters) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	opts := o.opts
	if opts == nil {
		opts = defaultOptions()
	}
	c := o.Codec
	if c == nil {
		c = codec.NewJSON()
	}

	data, err := c.Marshal(p.ToMapping())
	if err != nil {
		return "", fmt.Errorf("failed to encode parameters: %w", err)
	}

	if err := os.MkdirAll(o.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create outbox %s: %w", o.Dir, err)
	}

	path := filepath.Join(o.Dir, ulid.Make().String()+c.Extension())
	if err := writeFileAtomic(path, data, os.FileMode(opts.perm)); err != nil {
		return "", err
	}

	o.mu.Lock()
	now := time.Now()
	o.sent++
	o.lastSent = &now
	o.mu.Unlock()

	opts.logger.Debug("parameters sent", "path", path, "bytes", len(data))
	return path, nil
}
