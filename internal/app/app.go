package app

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/processhub-backend/internal/data/db"
	"github.com/yungbote/processhub-backend/internal/http"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *db.Service
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *http.Server
}

// NewLogger builds the process logger from LOG_MODE.
func NewLogger() (*logger.Logger, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	store, err := db.Open(log, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	reposet := wireRepos(store.DB(), log)
	serviceset := wireServices(store.DB(), log, cfg, reposet, clients)
	handlerset := wireHandlers(log, cfg, serviceset, clients)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, clients, handlerset, middleware)

	return &App{
		Log:      log,
		DB:       store,
		Cfg:      cfg,
		Clients:  clients,
		Repos:    reposet,
		Services: serviceset,
		Server:   server,
	}, nil
}

// Run serves HTTP until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.Address(), "db_driver", a.DB.Driver(), "storage_mode", a.Cfg.Storage.Mode)
	return a.Server.Run(ctx, a.Cfg.Address(), a.Cfg.ShutdownTimeout())
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	a.Clients.Close(ctx)
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("Database close failed", "error", err)
		}
	}
	a.Log.Sync()
}

// Migrate applies the schema without starting the server.
func Migrate(log *logger.Logger) error {
	cfg, err := LoadConfig(log)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store, err := db.Open(log, cfg.DB)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer store.Close()
	if err := store.AutoMigrateAll(); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	log.Info("Schema migrated", "driver", store.Driver())
	return nil
}
