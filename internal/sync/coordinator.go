package sync

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/edge-social/edge-sync/internal/cache"
	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/remote"
)

// SessionStore persists the current user and display settings across
// restarts. Optional; a nil store disables persistence.
type SessionStore interface {
	SaveUser(ctx context.Context, user models.User) error
	SaveSettings(ctx context.Context, settings models.Settings) error
	Clear(ctx context.Context) error
}

// Coordinator applies user actions to the local cache first, fires the
// remote call, then reconciles: committing the server-assigned id or rolling
// the optimistic change back on failure. Rollback-on-failure is uniform
// across all optimistic mutations.
type Coordinator struct {
	store     *cache.Store
	rc        remote.Caller
	toasts    *Toasts
	session   SessionStore
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewCoordinator builds a coordinator around the given cache and caller.
func NewCoordinator(store *cache.Store, rc remote.Caller, toasts *Toasts, session SessionStore, validate *validator.Validate, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:     store,
		rc:        rc,
		toasts:    toasts,
		session:   session,
		validate:  validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "sync_coordinator").Logger(),
		now:       time.Now,
	}
}

// Refresh replaces every cached collection with fresh server state.
func (c *Coordinator) Refresh(ctx context.Context) error {
	if err := c.store.LoadAll(ctx, c.rc); err != nil {
		c.toasts.Error("Failed to fetch data from database.")
		return err
	}

	c.toasts.Success("Feed refreshed! ✨")
	return nil
}

// pendingID mints a transient identifier for an optimistic record. The
// server replaces it during reconciliation; it never reaches the backend.
func pendingID() models.ID {
	return models.ID("pending-" + uuid.NewString())
}

func (c *Coordinator) timestamp() string {
	return models.FormatTimestamp(c.now())
}

func (c *Coordinator) clean(text string) string {
	return c.sanitizer.Sanitize(text)
}
