package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/changli/internal/config"
	"github.com/sandevgo/changli/internal/service/chat"
	"github.com/sandevgo/changli/pkg/log"
)

// ReadLine is an interactive stdin chat loop. The first message creates a
// session; later messages continue it.
type ReadLine struct {
	cfg       *config.AppConfig
	svc       *chat.Service
	rl        *readline.Instance
	sessionID string
}

func NewReadLine(svc *chat.Service, cfg *config.AppConfig) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg: cfg,
		svc: svc,
		rl:  rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	logger.Info().Msg("chat started. Type 'exit' to quit, '/new' for a fresh session.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		switch {
		case line == "exit":
			return nil
		case line == "/new":
			r.sessionID = ""
			fmt.Fprintln(r.rl.Stdout(), "[started a new session]")
			continue
		case line == "":
			continue
		}

		result, err := r.send(ctx, line)
		if err != nil {
			logger.Error().Err(err).Msg("turn failed")
			fmt.Fprintf(r.rl.Stdout(), "Error: %v\n", err)
			continue
		}

		r.sessionID = result.SessionID
		fmt.Fprintf(r.rl.Stdout(), "%s\n", result.Reply)
	}
}

func (r *ReadLine) send(ctx context.Context, line string) (chat.TurnResult, error) {
	req := chat.TurnRequest{Message: line}
	if r.sessionID == "" {
		return r.svc.CreateTurn(ctx, req)
	}
	return r.svc.ContinueTurn(ctx, r.sessionID, req)
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
