package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/changli/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"CHANGLI_RUNTIME_PATH" envDefault:".changli"`

	// HTTP presentation layer
	Host string `env:"CHANGLI_HOST" envDefault:"127.0.0.1"`
	Port int    `env:"CHANGLI_PORT" envDefault:"5000"`

	// Persisted store backend: jsonfile | sqlite
	StoreBackend string `env:"STORE_BACKEND" envDefault:"jsonfile"`

	// Generation engine
	EngineProvider string        `env:"ENGINE_PROVIDER" envDefault:"ollama"`
	OllamaBaseURL  string        `env:"OLLAMA_BASE_URL" envDefault:"http://127.0.0.1:11434"`
	OllamaAPIKey   string        `env:"OLLAMA_API_KEY"`
	CustomBaseURL  string        `env:"CUSTOM_ENGINE_BASE_URL"`
	CustomAPIKey   string        `env:"CUSTOM_ENGINE_API_KEY"`
	DefaultModel   string        `env:"DEFAULT_MODEL" envDefault:"gemma3:4b"`
	EngineTimeout  time.Duration `env:"ENGINE_TIMEOUT" envDefault:"2m"`

	// Context management
	ContextWindowTurns int `env:"CONTEXT_WINDOW_TURNS" envDefault:"32"`
	MemoryCadenceTurns int `env:"MEMORY_CADENCE_TURNS" envDefault:"10"`
	OldDialogueBudget  int `env:"OLD_DIALOGUE_BUDGET" envDefault:"6000"`

	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"id"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	c.RuntimePath = GetRuntimePath()
	return c
}

func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetSessionsPath() string {
	return filepath.Join(c.RuntimePath, "chat_sessions.json")
}

func (c AppConfig) GetProfilePath() string {
	return filepath.Join(c.RuntimePath, "profile.json")
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "changli.db")
}
