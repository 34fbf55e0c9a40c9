package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"
)

type watchWorker struct {
	*worker.BaseWorker
	inbox     *Inbox
	out       chan<- Delivery
	watcher   *fsnotify.Watcher
	debouncer *debouncer
	cancel    context.CancelFunc
}

func newWatchWorker(inbox *Inbox, out chan<- Delivery) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("xitem-inbox"),
		inbox:      inbox,
		out:        out,
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("inbox watcher already started (status: %s)", status)
	}

	if err := w.inbox.claim(); err != nil {
		return err
	}

	if err := os.MkdirAll(w.inbox.dir, 0o755); err != nil {
		w.inbox.release()
		return fmt.Errorf("failed to create inbox %s: %w", w.inbox.dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.inbox.release()
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := addRecursive(watcher, w.inbox.dir); err != nil {
		_ = watcher.Close()
		w.inbox.release()
		return err
	}

	w.watcher = watcher
	w.debouncer = newDebouncer(w.inbox.opts.debounce)

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
			"dir":               w.inbox.dir,
			"pattern":           w.inbox.opts.pattern,
		}
	})
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// processFilesystemEvent filters an event and schedules a delivery for it.
func (w *watchWorker) processFilesystemEvent(ctx context.Context, event fsnotify.Event) (processed bool) {
	logger := w.inbox.opts.logger
	logger.Debug("event received", "name", event.Name, "op", event.Op.String())

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}

	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		// New subdirectory: watch it and pick up anything already inside.
		if err := addRecursive(w.watcher, event.Name); err != nil {
			w.handleWatcherError(err)
		}
		w.reconcileDirectory(ctx, event.Name)
		return true
	}

	if !w.inbox.matches(event.Name) {
		return false
	}

	path := event.Name
	w.debouncer.add(path, func() {
		w.inbox.deliver(ctx, w.out, path)
	})
	return true
}

// reconcileDirectory delivers files that landed in a new directory before it
// was watched.
func (w *watchWorker) reconcileDirectory(ctx context.Context, dir string) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !w.inbox.matches(path) {
				return nil
			}
			w.debouncer.add(path, func() {
				w.inbox.deliver(ctx, w.out, path)
			})
			return nil
		})
		if err != nil {
			w.handleWatcherError(fmt.Errorf("reconcile %s: %w", dir, err))
		}
		return nil
	}, lifecycle.WithErrorHandler(func(err error) {
		w.handleWatcherError(fmt.Errorf("reconcile panic: %w", err))
	}))
}

// handleWatcherError processes errors from the fsnotify watcher.
func (w *watchWorker) handleWatcherError(err error) (shouldContinue bool) {
	w.inbox.opts.logger.Error("fsnotify error", "error", err)
	if w.inbox.opts.errorHandler != nil {
		w.inbox.opts.errorHandler(err)
	}
	return true
}

// run is the main event loop for the watcher worker.
func (w *watchWorker) run(ctx context.Context) (err error) {
	logger := w.inbox.opts.logger
	defer func() {
		if recovered := recover(); recovered != nil {
			panicErr := fmt.Errorf("inbox watcher panic: %v", recovered)
			if logger.Enabled(ctx, slog.LevelDebug) {
				logger.Error("inbox watcher panic", "error", panicErr, "stack", string(debug.Stack()))
			} else {
				logger.Error("inbox watcher panic", "error", panicErr)
			}
			err = panicErr
		}
	}()
	defer w.inbox.release()
	defer w.watcher.Close()

	err = w.mainEventLoop(ctx)

	// Pending deliveries are dropped once the loop ends; wait for the ones in flight.
	w.debouncer.stopAndWait(5 * time.Second)

	return err
}

func (w *watchWorker) mainEventLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.processFilesystemEvent(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.handleWatcherError(wErr)
		}
	}
}
