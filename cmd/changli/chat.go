package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/changli/internal/transport/cli"
	"github.com/sandevgo/changli/pkg/log"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat interactively from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		app := newApp(ctx)

		rl, err := cli.NewReadLine(app.chatSvc, app.cfg)
		if err != nil {
			return err
		}
		defer rl.Shutdown(ctx)

		if err := rl.Start(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msg("chat loop ended with error")
		}

		for _, service := range app.services {
			if err := service.Shutdown(ctx); err != nil {
				log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", service)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
