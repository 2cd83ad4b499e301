package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nirman-app/nirman/config"
	"github.com/nirman-app/nirman/model"
	"github.com/nirman-app/nirman/share"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demo dataset",
	Long:  `Load the demo dataset`,
	Run: func(cmd *cobra.Command, args []string) {
		Boot()

		if err := share.DBConnect(config.Conf.DB); err != nil {
			fmt.Println(color.RedString("Fatal: %s", err.Error()))
			os.Exit(1)
		}
		defer share.DBClose()

		store, err := model.New(model.Setting{})
		if err != nil {
			fmt.Println(color.RedString("Fatal: %s", err.Error()))
			os.Exit(1)
		}

		if err := store.Migrate(); err != nil {
			fmt.Println(color.RedString("Fatal: %s", err.Error()))
			os.Exit(1)
		}

		if err := store.Seed(); err != nil {
			fmt.Println(color.RedString("Fatal: %s", err.Error()))
			os.Exit(1)
		}

		fmt.Println(color.GreenString("✨DONE✨"))
	},
}
