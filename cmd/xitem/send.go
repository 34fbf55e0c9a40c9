package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/xitem/pkg/adapters/fs"
)

var (
	sendItem   itemFlags
	sendFormat string
	sendDir    string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Build parameters from flags and drop them into the outbox",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := outputCodec(sendFormat)
		if err != nil {
			return err
		}
		dir := cfg.Outbox.Dir
		if sendDir != "" {
			dir = sendDir
		}

		p, err := sendItem.build()
		if err != nil {
			return err
		}

		out := fs.NewOutbox(dir, c, fs.WithLogger(slog.Default()))
		path, err := out.Send(cmd.Context(), p)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendItem.register(sendCmd)
	sendCmd.Flags().StringVarP(&sendFormat, "format", "f", "", "File format (json, yaml, toml); defaults to the configured format")
	sendCmd.Flags().StringVar(&sendDir, "dir", "", "Outbox directory; defaults to outbox.dir")
}
