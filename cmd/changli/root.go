package main

import (
	"context"
	"os"

	"github.com/sandevgo/changli/internal/config"
	"github.com/sandevgo/changli/pkg/log"
	"github.com/spf13/cobra"
)

var (
	debug bool
)

var rootCmd = &cobra.Command{
	Use:   "changli",
	Short: "Changli: persona chat over a local generation engine",
	Long:  `Changli is a persona-driven chat service with long-term conversational memory.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", config.IsDebug(), "enable debug logging")
}

func setupLogger(ctx context.Context) (context.Context, func()) {
	isDebug := debug || config.IsDebug()
	return log.NewContextWithLogger(ctx, isDebug)
}
