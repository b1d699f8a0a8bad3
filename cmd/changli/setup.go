package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/changli/internal/config"
	"github.com/sandevgo/changli/internal/core"
	"github.com/sandevgo/changli/internal/providers/engine"
	"github.com/sandevgo/changli/internal/service/chat"
	"github.com/sandevgo/changli/internal/service/locale"
	"github.com/sandevgo/changli/internal/service/memory"
	"github.com/sandevgo/changli/internal/service/prompt"
	"github.com/sandevgo/changli/internal/storage/jsonfile"
	"github.com/sandevgo/changli/internal/storage/sqlite"
	"github.com/sandevgo/changli/pkg/log"
	"github.com/sandevgo/changli/pkg/srv"
)

// app holds the wired process-scoped state: constructed once at startup,
// passed by handle into the transports that need it.
type app struct {
	cfg      *config.AppConfig
	chatSvc  *chat.Service
	provider engine.Provider
	locales  *locale.Catalog
	services []srv.Service
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	cfg := config.NewAppConfig(ctx)

	services := make([]srv.Service, 0)

	sessions, profiles, cleanup, err := initStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	if cleanup != nil {
		services = append(services, srv.NewCleanup(cleanup))
	}

	provider, err := engine.NewProvider(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize engine provider")
	}

	locales := locale.NewCatalog()

	chatSvc := chat.NewService(
		cfg,
		provider,
		sessions,
		profiles,
		prompt.New(cfg.ContextWindowTurns),
		memory.NewController(provider, cfg.ContextWindowTurns, cfg.MemoryCadenceTurns, cfg.OldDialogueBudget),
		locales.NativeName(cfg.DefaultLocale),
	)

	return &app{
		cfg:      cfg,
		chatSvc:  chatSvc,
		provider: provider,
		locales:  locales,
		services: services,
	}
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (core.SessionRepository, core.ProfileRepository, func() error, error) {
	switch cfg.StoreBackend {
	case "sqlite":
		db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
		if err != nil {
			return nil, nil, nil, err
		}
		return sqlite.NewSessionRepo(db), sqlite.NewProfileRepo(db), db.Close, nil
	default:
		return jsonfile.NewSessionStore(cfg.GetSessionsPath()),
			jsonfile.NewProfileStore(cfg.GetProfilePath()),
			nil, nil
	}
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
