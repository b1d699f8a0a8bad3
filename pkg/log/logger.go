package log

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

// NewContextWithLogger installs a console logger on the context and
// returns a flush function that must run before process exit, since the
// diode writer buffers asynchronously.
func NewContextWithLogger(ctx context.Context, debug bool) (context.Context, func()) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	// Ring-buffered writer so logging never blocks a turn in flight.
	wr := diode.NewWriter(os.Stdout, 1000, 5*time.Millisecond, func(missed int) {
		fmt.Printf("logger dropped %d messages\n", missed)
	})

	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        wr,
		TimeFormat: time.DateTime,
	}).With().Timestamp().Logger()

	log.Logger = logger

	return logger.WithContext(ctx), func() {
		wr.Close()
	}
}

// FromCtx returns the context's logger, or the global one when absent.
func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}
