package app

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/edge-social/edge-sync/internal/cache"
	"github.com/edge-social/edge-sync/internal/config"
	"github.com/edge-social/edge-sync/internal/database"
	"github.com/edge-social/edge-sync/internal/garden"
	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/remote"
	"github.com/edge-social/edge-sync/internal/session"
	syncpkg "github.com/edge-social/edge-sync/internal/sync"
)

// App is the explicit application-state container: every piece of mutable
// client state lives here and is mutated only through the coordinator and
// the garden engine, never through package-level variables.
type App struct {
	Config      config.Config
	Store       *cache.Store
	Remote      *remote.Client
	Coordinator *syncpkg.Coordinator
	Garden      *garden.Engine
	Autosaver   *garden.Autosaver
	Session     *session.Store
	Toasts      *syncpkg.Toasts

	redisClient *redis.Client
	logger      zerolog.Logger
}

// New assembles the sync engine. Session persistence is enabled only when a
// Redis URL is configured; without it the app still works, it just forgets
// the login between restarts.
func New(cfg config.Config, logger zerolog.Logger) (*App, error) {
	store := cache.NewStore(logger)
	client := remote.NewClient(cfg.ScriptURL, logger)
	toasts := syncpkg.NewToasts()
	validate := validator.New(validator.WithRequiredStructEnabled())

	var (
		redisClient  *redis.Client
		sessionStore *session.Store
	)
	if cfg.RedisURL != "" {
		var err error
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect session store: %w", err)
		}
		sessionStore = session.NewStore(redisClient, cfg.SessionSecret, logger)
	}

	var coordinatorSession syncpkg.SessionStore
	if sessionStore != nil {
		coordinatorSession = sessionStore
	}
	coordinator := syncpkg.NewCoordinator(store, client, toasts, coordinatorSession, validate, logger)

	autosaver := garden.NewAutosaver(store, client, cfg.GardenAutosaveWindow, logger)
	engine := garden.NewEngine(store, autosaver, logger)

	return &App{
		Config:      cfg,
		Store:       store,
		Remote:      client,
		Coordinator: coordinator,
		Garden:      engine,
		Autosaver:   autosaver,
		Session:     sessionStore,
		Toasts:      toasts,
		redisClient: redisClient,
		logger:      logger.With().Str("component", "app").Logger(),
	}, nil
}

// Boot restores the persisted session and performs the initial full load.
// The returned user is the zero value when no valid session exists.
func (a *App) Boot(ctx context.Context) (models.User, models.Settings, error) {
	user := models.User{}
	settings := models.DefaultSettings()

	if a.Session != nil {
		restored, ok, err := a.Session.LoadUser(ctx)
		if err != nil {
			return models.User{}, settings, fmt.Errorf("restore session: %w", err)
		}
		if ok {
			user = restored
		}

		loaded, err := a.Session.LoadSettings(ctx)
		if err == nil {
			settings = loaded
		}
	}

	if err := a.Store.LoadAll(ctx, a.Remote); err != nil {
		return user, settings, fmt.Errorf("initial load: %w", err)
	}

	return user, settings, nil
}

// Close flushes pending garden writes and releases connections.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	if err := a.Autosaver.Close(ctx); err != nil {
		firstErr = err
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
