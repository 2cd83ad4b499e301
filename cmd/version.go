package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nirman-app/nirman/share"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Long:  `Show version`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", share.BUILDNAME, share.VERSION)
	},
}
