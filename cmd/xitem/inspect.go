package main

import (
	"fmt"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/aretw0/xitem/pkg/params"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Dump the decoded parameters and the raw mapping",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := readMapping(args[0])
		if err != nil {
			return err
		}
		p := params.FromMapping(m)

		fmt.Println("# parameters")
		dumper.Fdump(os.Stdout, newItemView(p))
		fmt.Println("# mapping")
		dumper.Fdump(os.Stdout, m)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
