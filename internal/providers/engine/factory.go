package engine

import (
	"context"
	"fmt"

	"github.com/sandevgo/changli/internal/config"
	"github.com/sandevgo/changli/internal/core"
	"github.com/sandevgo/changli/pkg/log"
)

// Provider bundles generation with model listing; every concrete engine
// implements both.
type Provider interface {
	core.Engine
	core.ModelLister
}

// NewProvider creates the configured generation engine.
func NewProvider(ctx context.Context, cfg *config.AppConfig) (Provider, error) {
	log.FromCtx(ctx).Info().
		Str("provider", cfg.EngineProvider).
		Str("model", cfg.DefaultModel).
		Msg("starting generation engine provider")

	switch cfg.EngineProvider {
	case "ollama":
		return NewOllama(cfg.OllamaBaseURL, cfg.OllamaAPIKey, cfg.EngineTimeout), nil
	case "custom":
		return NewOpenAICompatible(cfg.CustomBaseURL, cfg.CustomAPIKey, cfg.EngineTimeout), nil
	default:
		return nil, fmt.Errorf("unknown engine provider: %s", cfg.EngineProvider)
	}
}
