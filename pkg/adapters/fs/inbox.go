package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/xitem/pkg/codec"
	"github.com/aretw0/xitem/pkg/lint"
	"github.com/aretw0/xitem/pkg/params"
)

var (
	// ErrInboxStarted is returned by Watch when the inbox is already watching.
	ErrInboxStarted = errors.New("inbox already started")

	// ErrInvalidPattern is returned for patterns doublestar cannot parse.
	ErrInvalidPattern = errors.New("invalid inbox pattern")
)

// Delivery is one decoded inbox file. When Err is set, Params is empty and
// the file should be considered unreadable.
type Delivery struct {
	Path     string
	Params   params.Parameters
	Findings []lint.Finding
	Err      error
}

// String implements fmt.Stringer.
func (d Delivery) String() string {
	switch {
	case d.Err != nil:
		return fmt.Sprintf("delivery %s: %v", d.Path, d.Err)
	case len(d.Findings) > 0:
		return fmt.Sprintf("delivery %s: %q (%d findings)", d.Path, d.Params.Title(), len(d.Findings))
	default:
		return fmt.Sprintf("delivery %s: %q", d.Path, d.Params.Title())
	}
}

// Inbox reads parameters dropped into a directory by an Outbox or any other
// producer. Drain reads what is already there; Watch delivers new files as
// they appear.
type Inbox struct {
	dir  string
	opts *options

	mu           sync.RWMutex
	watching     bool
	delivered    int
	failed       int
	lastDelivery *time.Time
}

// NewInbox creates an inbox for dir.
func NewInbox(dir string, opts ...Option) (*Inbox, error) {
	o := applyOptions(opts)
	if !doublestar.ValidatePattern(o.pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, o.pattern)
	}
	return &Inbox{dir: dir, opts: o}, nil
}

// Dir returns the watched directory.
func (in *Inbox) Dir() string {
	return in.dir
}

// Drain delivers every matching file already present in the inbox, in name
// order, and returns how many were delivered.
func (in *Inbox) Drain(ctx context.Context, out chan<- Delivery) (int, error) {
	if _, err := os.Stat(in.dir); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	var paths []string
	err := filepath.WalkDir(in.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !in.matches(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list inbox %s: %w", in.dir, err)
	}
	sort.Strings(paths)

	n := 0
	for _, path := range paths {
		if !in.deliver(ctx, out, path) {
			return n, ctx.Err()
		}
		n++
	}
	return n, nil
}

// matches applies the pattern to the path relative to the inbox directory.
func (in *Inbox) matches(path string) bool {
	if isTempFile(path) {
		return false
	}
	rel, err := filepath.Rel(in.dir, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(in.opts.pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// Read decodes a single file.
func (in *Inbox) Read(path string) Delivery {
	d := Delivery{Path: path}
	c, err := codec.ForExtension(filepath.Ext(path))
	if err != nil {
		d.Err = err
		return d
	}
	data, err := os.ReadFile(path)
	if err != nil {
		d.Err = fmt.Errorf("failed to read %s: %w", path, err)
		return d
	}
	m, err := c.Unmarshal(data)
	if err != nil {
		d.Err = fmt.Errorf("failed to decode %s: %w", path, err)
		return d
	}
	d.Params = params.FromMapping(m)
	d.Findings = lint.Check(m)
	return d
}

// deliver reads path and sends the result. It reports false when ctx ended
// before the delivery was accepted.
func (in *Inbox) deliver(ctx context.Context, out chan<- Delivery, path string) bool {
	d := in.Read(path)
	if d.Err != nil {
		in.opts.logger.Warn("inbox file unreadable", "path", path, "error", d.Err)
	} else {
		in.opts.logger.Debug("inbox file decoded", "path", path, "findings", len(d.Findings))
	}

	select {
	case out <- d:
	case <-ctx.Done():
		return false
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	now := time.Now()
	in.lastDelivery = &now
	if d.Err != nil {
		in.failed++
	} else {
		in.delivered++
	}
	return true
}

// Watch starts a worker delivering new and modified files to out until ctx
// is done. Only one watch may run at a time.
func (in *Inbox) Watch(ctx context.Context, out chan<- Delivery) error {
	w := in.NewWorker(out)
	if err := w.Start(ctx); err != nil {
		return err
	}
	return nil
}

// NewWorker returns an unstarted watch worker, for callers that run it under
// a supervisor.
func (in *Inbox) NewWorker(out chan<- Delivery) worker.Worker {
	return newWatchWorker(in, out)
}

// claim marks the inbox as watching. It fails if another worker holds it.
func (in *Inbox) claim() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.watching {
		return ErrInboxStarted
	}
	in.watching = true
	return nil
}

func (in *Inbox) release() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.watching = false
}
