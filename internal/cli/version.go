package cli

import (
	"github.com/spf13/cobra"

	"github.com/iw2rmb/richbridge"
)

var version = richbridge.Version()

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("richbridge version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
