package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/changli/internal/transport/httpapi"
	"github.com/sandevgo/changli/pkg/log"
	"github.com/sandevgo/changli/pkg/srv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Changli HTTP API",
	Long:  `Initializes the store, the generation engine provider and the chat core, then serves the HTTP API until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting changli")

		app := newApp(ctx)

		handler := httpapi.NewHandler(app.cfg, app.chatSvc, app.locales, app.provider)
		services := append(app.services, httpapi.NewServer(app.cfg.Addr(), handler.Routes()))

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)

		logger.Info().Msg("changli has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
