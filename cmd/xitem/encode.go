package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	encodeItem   itemFlags
	encodeFormat string
)

var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Build parameters from flags and print the mapping",
	Long: `Build parameters from flags and print the merged mapping in the chosen
format. Custom keys set with --set must not use the x-extension-item prefix.`,
	Example: `  xitem encode --title "Pancakes" --tag breakfast --tumblr-path pancakes
  xitem encode --title "Report" --set team=growth --set priority=2 --format yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := outputCodec(encodeFormat)
		if err != nil {
			return err
		}
		p, err := encodeItem.build()
		if err != nil {
			return err
		}
		data, err := c.Marshal(p.ToMapping())
		if err != nil {
			return fmt.Errorf("failed to encode parameters: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeItem.register(encodeCmd)
	encodeCmd.Flags().StringVarP(&encodeFormat, "format", "f", "", "Output format (json, yaml, toml); defaults to the configured format")
}
