package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yaoapp/kun/log"

	"github.com/nirman-app/nirman/config"
	"github.com/nirman-app/nirman/model"
	"github.com/nirman-app/nirman/service"
	"github.com/nirman-app/nirman/share"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the dashboard service",
	Long:  `Start the dashboard service`,
	Run: func(cmd *cobra.Command, args []string) {
		Boot()
		cfg := config.Conf

		mode := ""
		if cfg.Mode == "development" {
			mode = color.RedString("development")
		}
		fmt.Println(color.GreenString("Nirman v%s %s", share.VERSION, mode))

		if err := share.DBConnect(cfg.DB); err != nil {
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

		srv := service.New(cfg, store)

		fmt.Println(color.WhiteString("---------------------------------"))
		fmt.Println(color.GreenString("Frontend:  http://%s:%d/", cfg.Host, cfg.Port))
		fmt.Println(color.GreenString("Dashboard: http://%s:%d/dashboard", cfg.Host, cfg.Port))
		fmt.Println(color.GreenString("API:       http://%s:%d/api", cfg.Host, cfg.Port))
		fmt.Println(color.GreenString("Realtime:  ws://%s:%d/ws/plans", cfg.Host, cfg.Port))
		fmt.Println(color.WhiteString("---------------------------------"))

		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-interrupt
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				log.Error("[service] shutdown: %s", err.Error())
			}
		}()

		if err := srv.Start(); err != nil {
			fmt.Println(color.RedString("Fatal: %s", err.Error()))
			os.Exit(1)
		}
		fmt.Println(color.GreenString("Service stopped"))
	},
}
