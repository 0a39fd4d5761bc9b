package sync

import (
	"context"
	"fmt"

	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/remote"
)

// notify posts a notification for the recipient. Fire-and-forget: the
// triggering mutation is never rolled back when the notification call fails,
// the failure is only logged. Self-notifications are skipped.
func (c *Coordinator) notify(ctx context.Context, actor models.User, recipientID models.ID, kind string, relatedPostID models.ID, content string) {
	if recipientID == "" || recipientID == actor.ID {
		return
	}

	notification := models.Notification{
		RecipientID:   recipientID,
		SenderID:      actor.ID,
		Type:          kind,
		RelatedPostID: relatedPostID,
		Content:       content,
		IsRead:        false,
	}

	result, err := c.rc.Call(ctx, remote.MethodPost, remote.ResourceNotifications, notification, "")
	if err != nil {
		c.logger.Warn().Err(err).
			Str("recipient_id", string(recipientID)).
			Str("type", kind).
			Msg("failed to deliver notification")
		return
	}

	notification.ID = result.ID
	notification.Timestamp = c.timestamp()
	if notification.ID != "" {
		c.store.UpsertNotification(notification)
	}
}

type markReadPayload struct {
	IsRead bool `json:"isRead"`
}

// MarkNotificationRead marks a notification read on the server first, then
// mirrors the change locally. Badge counts stay server-authoritative.
func (c *Coordinator) MarkNotificationRead(ctx context.Context, actor models.User, id models.ID) error {
	notification, ok := c.store.FindNotification(id)
	if !ok {
		return fmt.Errorf("notification %s not in cache", id)
	}
	if notification.RecipientID != actor.ID {
		return fmt.Errorf("notification %s is not addressed to %s", id, actor.ID)
	}
	if notification.IsRead {
		return nil
	}

	if _, err := c.rc.Call(ctx, remote.MethodPut, remote.ResourceNotifications, markReadPayload{IsRead: true}, id); err != nil {
		return err
	}

	notification.IsRead = true
	c.store.UpsertNotification(notification)
	return nil
}
