package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/xitem/pkg/lint"
)

var lintJSON bool

// errFindings makes lint exit with status 1 without printing an error.
var errFindings = errors.New("lint findings")

var lintCmd = &cobra.Command{
	Use:   "lint FILE",
	Short: "Report suspicious keys in a mapping file",
	Long: `Check a mapping file for custom keys that are close to a reserved key,
unknown keys inside the reserved namespace, and system values of the wrong kind.
Exits with status 1 when anything is found.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := readMapping(args[0])
		if err != nil {
			return err
		}
		findings := lint.Check(m)

		if lintJSON {
			if findings == nil {
				findings = []lint.Finding{}
			}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(findings); err != nil {
				return err
			}
		} else {
			for _, f := range findings {
				fmt.Println(f)
			}
		}

		if len(findings) > 0 {
			return errFindings
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
	lintCmd.Flags().BoolVar(&lintJSON, "json", false, "Output in JSON format")
}
