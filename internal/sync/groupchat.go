package sync

import (
	"context"

	"github.com/edge-social/edge-sync/internal/dto"
	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/observability"
	"github.com/edge-social/edge-sync/internal/remote"
)

type groupMessagePayload struct {
	SenderID models.ID `json:"senderId"`
	Text     string    `json:"text"`
}

// SendGroupMessage posts to the single shared channel with the same
// optimistic append / rollback contract as direct messages.
func (c *Coordinator) SendGroupMessage(ctx context.Context, actor models.User, draft dto.GroupMessageDraft) (models.GroupChatMessage, error) {
	if err := c.validate.Struct(draft); err != nil {
		return models.GroupChatMessage{}, err
	}

	pending := models.GroupChatMessage{
		ID:        pendingID(),
		SenderID:  actor.ID,
		Text:      c.clean(draft.Text),
		Timestamp: c.timestamp(),
	}
	c.store.UpsertGroupMessage(pending)

	payload := groupMessagePayload{SenderID: pending.SenderID, Text: pending.Text}
	result, err := c.rc.Call(ctx, remote.MethodPost, remote.ResourceGroupChat, payload, "")
	if err != nil {
		c.store.RemoveGroupMessage(pending.ID)
		observability.OptimisticRollbacks().WithLabelValues("groupchat").Inc()
		c.toasts.Error("Failed to send message.")
		return models.GroupChatMessage{}, err
	}

	committed := pending
	if result.ID != "" {
		c.store.ReplaceGroupMessageID(pending.ID, result.ID)
		committed.ID = result.ID
	}

	return committed, nil
}
