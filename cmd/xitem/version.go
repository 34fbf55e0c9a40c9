package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/xitem"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of xitem",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("xitem version %s\n", strings.TrimSpace(xitem.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
