package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-datx/surface"
)

func newQuantitiesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "quantities <file>",
		Short: "List the measurement quantities of a file",
		Long: `List the readable datasets under the Measurement group. Any of them can
be passed to "datx process -q".

Example:
  datx quantities scan.datx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := a.read(args[0])
			if err != nil {
				return err
			}
			names := surface.Quantities(root)
			if len(names) == 0 {
				return fmt.Errorf("%s has no %s datasets", args[0], surface.MeasurementGroup)
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
