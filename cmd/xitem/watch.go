package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/spf13/cobra"

	"github.com/aretw0/xitem/pkg/adapters/fs"
	"github.com/aretw0/xitem/pkg/adapters/lifecycle"
)

var (
	watchDir       string
	watchPattern   string
	watchSupervise bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Deliver items dropped into the inbox until interrupted",
	Long: `Read every item already in the inbox, then watch it for new files and
log each delivery. With --supervise the watcher is restarted on failure.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		dir := cfg.Inbox.Dir
		if watchDir != "" {
			dir = watchDir
		}
		pattern := cfg.Inbox.Pattern
		if watchPattern != "" {
			pattern = watchPattern
		}

		in, err := fs.NewInbox(dir,
			fs.WithLogger(slog.Default()),
			fs.WithPattern(pattern),
			fs.WithDebounce(time.Duration(cfg.Inbox.Debounce)),
			fs.WithErrorHandler(func(err error) {
				slog.Error("inbox watcher failed", "error", err)
			}),
		)
		if err != nil {
			return err
		}

		out := make(chan fs.Delivery)
		src := lifecycle.NewSource(out, lifecycle.WithLogger(slog.Default()), lifecycle.SkipUnreadable())
		if err := src.Start(ctx); err != nil {
			return err
		}
		done := make(chan struct{})
		go func() {
			defer close(done)
			for e := range src.Events() {
				logDelivery(e)
			}
		}()

		n, err := in.Drain(ctx, out)
		if err != nil {
			return err
		}
		slog.Info("inbox drained", "dir", dir, "items", n)

		var sup interface {
			Stop(context.Context) error
		}
		if watchSupervise {
			s := supervisor.New("xitem", supervisor.StrategyOneForOne, inboxSpec(in, out))
			if err := s.Start(ctx); err != nil {
				return err
			}
			sup = s
		} else if err := in.Watch(ctx, out); err != nil {
			return err
		}
		slog.Info("watching inbox", "dir", dir, "pattern", pattern, "supervised", watchSupervise)

		<-done
		if sup != nil {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer stopCancel()
			if err := sup.Stop(stopCtx); err != nil {
				slog.Error("supervisor stop failed", "error", err)
			}
		}
		slog.Info("inbox stopped", "unreadable", src.Unreadable())
		return nil
	},
}

func inboxSpec(in *fs.Inbox, out chan<- fs.Delivery) supervisor.Spec {
	return supervisor.Spec{
		Name: "xitem-inbox",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			return in.NewWorker(out), nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2,
			ResetDuration:   time.Minute,
			MaxRestarts:     10,
			MaxDuration:     10 * time.Minute,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	}
}

func logDelivery(e fmt.Stringer) {
	d, ok := e.(fs.Delivery)
	if !ok {
		slog.Info("event", "event", e.String())
		return
	}
	slog.Info("item delivered", "path", d.Path, "title", d.Params.Title(), "custom_keys", len(d.Params.CustomMapping()))
	for _, f := range d.Findings {
		slog.Warn("lint finding", "path", d.Path, "finding", f.String())
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "Inbox directory; defaults to inbox.dir")
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "Doublestar file pattern; defaults to inbox.pattern")
	watchCmd.Flags().BoolVar(&watchSupervise, "supervise", false, "Restart the watcher on failure")
}
