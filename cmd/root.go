package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nirman-app/nirman/config"
	"github.com/nirman-app/nirman/share"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   share.BUILDNAME,
	Short: "Nirman construction dashboard",
	Long:  `Nirman construction dashboard`,
	Args:  cobra.MinimumNArgs(1),
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(os.Stderr, "One or more arguments are not correct", args)
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(
		versionCmd,
		startCmd,
		migrateCmd,
		seedCmd,
	)
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", "", "Environment file")
}

// Execute run the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Boot reload the configuration honoring the --env flag
func Boot() {
	if envFile == "" {
		config.Init()
		return
	}

	file, err := filepath.Abs(envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config.Conf = config.LoadFrom(file)
	if config.Conf.Mode == "production" {
		config.Production()
	} else if config.Conf.Mode == "development" {
		config.Development()
	}
}
