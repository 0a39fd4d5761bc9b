package sync

import (
	"context"

	"github.com/edge-social/edge-sync/internal/dto"
	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/remote"
)

// SubmitDailyLog records the actor's check-in for the current calendar day.
// One log per user per day: resubmitting overwrites today's entry via PUT
// instead of creating a duplicate. Server-confirmed, not optimistic.
func (c *Coordinator) SubmitDailyLog(ctx context.Context, actor models.User, draft dto.DailyLogDraft) (models.DailyLog, error) {
	if err := c.validate.Struct(draft); err != nil {
		return models.DailyLog{}, err
	}

	entry := models.DailyLog{
		UserID:       actor.ID,
		Date:         c.now().UTC().Format("2006-01-02"),
		Mood:         draft.Mood,
		Productivity: draft.Productivity,
		Highlight:    c.clean(draft.Highlight),
		Gratitude:    c.clean(draft.Gratitude),
		Notes:        c.clean(draft.Notes),
	}

	if existing, ok := c.store.FindDailyLog(actor.ID, entry.Date); ok {
		entry.ID = existing.ID
		if _, err := c.rc.Call(ctx, remote.MethodPut, remote.ResourceDailyLogs, entry, existing.ID); err != nil {
			c.toasts.Error("Failed to save your daily log.")
			return models.DailyLog{}, err
		}
		c.store.UpsertDailyLog(entry)
		c.toasts.Success("Daily log updated!")
		return entry, nil
	}

	result, err := c.rc.Call(ctx, remote.MethodPost, remote.ResourceDailyLogs, entry, "")
	if err != nil {
		c.toasts.Error("Failed to save your daily log.")
		return models.DailyLog{}, err
	}

	entry.ID = result.ID
	c.store.UpsertDailyLog(entry)
	c.toasts.Success("Daily log saved!")

	return entry, nil
}
