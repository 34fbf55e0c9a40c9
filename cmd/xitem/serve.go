package main

import (
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/xitem"
	"github.com/aretw0/xitem/pkg/adapters/fs"
	"github.com/aretw0/xitem/pkg/adapters/httpapi"
)

var (
	serveAddr    string
	serveForward bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP relay",
	Long: `Run the HTTP relay. Producers POST mappings to /items; consumers list and
fetch them. With --forward every accepted item is also written to the outbox.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		addr := cfg.HTTP.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		opts := []httpapi.Option{
			httpapi.WithLogger(slog.Default()),
			httpapi.WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes),
			httpapi.WithHistory(cfg.HTTP.History),
			httpapi.WithVersion(strings.TrimSpace(xitem.Version)),
		}
		if serveForward {
			out := fs.NewOutbox(cfg.Outbox.Dir, cfg.Codec(), fs.WithLogger(slog.Default()))
			opts = append(opts, httpapi.WithSender(out))
			slog.Info("forwarding to outbox", "dir", cfg.Outbox.Dir, "format", cfg.Format)
		}

		slog.Info("server starting", "address", addr)
		if err := httpapi.ListenAndServe(ctx, addr, httpapi.NewHandler(opts...)); err != nil {
			return err
		}
		slog.Info("shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address; defaults to http.addr")
	serveCmd.Flags().BoolVar(&serveForward, "forward", false, "Also write accepted items to the outbox")
}
