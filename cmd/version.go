package cmd

import (
	"fmt"

	"github.com/shiroyk/jsrt/lib"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n jsrt %v/%v\n", lib.Banner, lib.Version, lib.CommitSHA)
		},
	})
}
