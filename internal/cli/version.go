package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/microlens-data/ulens/internal/version"
)

func init() {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
	RootCmd.AddCommand(cmd)
}
