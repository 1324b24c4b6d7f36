package o3rg

import (
	"github.com/o3rg/o3rg/internal/engine"
	"github.com/o3rg/o3rg/internal/report"
	"github.com/o3rg/o3rg/pkg/core"
	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search <file> <pattern>",
		Short: "Search a single file",
		Long:  "Search a single file and print line:text for the first match on every matching line.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := engine.SearchFile(args[0], args[1])
			if err != nil {
				return err
			}
			if asJSON {
				return core.MarshalMatches(cmd.OutOrStdout(), matches)
			}
			report.PrintMatches(cmd.OutOrStdout(), matches)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	return cmd
}
