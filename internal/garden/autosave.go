package garden

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/edge-social/edge-sync/internal/cache"
	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/observability"
	"github.com/edge-social/edge-sync/internal/remote"
)

// Autosaver persists dirty garden state with a bounded staleness window:
// actions mark state dirty and a single debounced write follows, so a burst
// of plant/water/harvest calls costs one remote call, not one each. Flush
// forces the write immediately, for shutdown and app-backgrounding paths.
type Autosaver struct {
	store  *cache.Store
	rc     remote.Caller
	window time.Duration
	logger zerolog.Logger

	mu    sync.Mutex
	dirty map[models.ID]struct{}
	timer *time.Timer
}

// NewAutosaver builds an autosaver that waits window between the first dirty
// mark and the write.
func NewAutosaver(store *cache.Store, rc remote.Caller, window time.Duration, logger zerolog.Logger) *Autosaver {
	return &Autosaver{
		store:  store,
		rc:     rc,
		window: window,
		logger: logger.With().Str("component", "garden_autosave").Logger(),
		dirty:  make(map[models.ID]struct{}),
	}
}

// MarkDirty schedules a write for the user's garden. Further marks inside
// the window collapse into the same write.
func (a *Autosaver) MarkDirty(userID models.ID) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.dirty[userID] = struct{}{}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.window, func() {
		if err := a.Flush(context.Background()); err != nil {
			a.logger.Warn().Err(err).Msg("garden autosave failed")
		}
	})
}

// Flush writes every dirty garden immediately and clears the dirty set.
// Gardens the server has never seen are created; known ones are updated.
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	pending := a.dirty
	a.dirty = make(map[models.ID]struct{})
	a.mu.Unlock()

	var firstErr error
	for userID := range pending {
		state, ok := a.store.FindGarden(userID)
		if !ok {
			continue
		}
		if err := a.persist(ctx, state); err != nil {
			observability.GardenAutosaves().WithLabelValues("error").Inc()
			a.logger.Warn().Err(err).Str("user_id", string(userID)).Msg("failed to persist garden state")
			// Keep it dirty so the next window retries.
			a.mu.Lock()
			a.dirty[userID] = struct{}{}
			a.mu.Unlock()
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		observability.GardenAutosaves().WithLabelValues("success").Inc()
	}

	return firstErr
}

func (a *Autosaver) persist(ctx context.Context, state models.GardenState) error {
	if state.ID == "" {
		result, err := a.rc.Call(ctx, remote.MethodPost, remote.ResourceGarden, state, "")
		if err != nil {
			return err
		}
		if result.ID != "" {
			state.ID = result.ID
			a.store.UpsertGarden(state)
		}
		return nil
	}

	_, err := a.rc.Call(ctx, remote.MethodPut, remote.ResourceGarden, state, state.ID)
	return err
}

// Close flushes outstanding state and stops the debounce timer.
func (a *Autosaver) Close(ctx context.Context) error {
	return a.Flush(ctx)
}
