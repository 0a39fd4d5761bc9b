package sync

import (
	"context"
	"fmt"

	"github.com/edge-social/edge-sync/internal/dto"
	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/observability"
	"github.com/edge-social/edge-sync/internal/remote"
)

type commentPayload struct {
	PostID models.ID `json:"postId"`
	UserID models.ID `json:"userId"`
	Text   string    `json:"text"`
}

// AddComment optimistically attaches a comment to a post under a transient
// id, then commits the server id or rolls the comment back on failure.
func (c *Coordinator) AddComment(ctx context.Context, actor models.User, draft dto.CommentDraft) (models.Comment, error) {
	if err := c.validate.Struct(draft); err != nil {
		return models.Comment{}, err
	}

	post, ok := c.store.FindPost(draft.PostID)
	if !ok {
		return models.Comment{}, fmt.Errorf("post %s not in cache", draft.PostID)
	}

	pending := models.Comment{
		ID:        pendingID(),
		PostID:    post.ID,
		UserID:    actor.ID,
		Text:      c.clean(draft.Text),
		Timestamp: c.timestamp(),
	}
	c.store.UpsertComment(pending)

	payload := commentPayload{PostID: pending.PostID, UserID: pending.UserID, Text: pending.Text}
	result, err := c.rc.Call(ctx, remote.MethodPost, remote.ResourceComments, payload, "")
	if err != nil {
		c.store.RemoveComment(pending.ID)
		observability.OptimisticRollbacks().WithLabelValues("comment").Inc()
		c.toasts.Error("Failed to post comment.")
		return models.Comment{}, err
	}

	committed := pending
	if result.ID != "" {
		c.store.ReplaceCommentID(pending.ID, result.ID)
		committed.ID = result.ID
	}

	c.notify(ctx, actor, post.UserID, models.NotificationComment, post.ID,
		fmt.Sprintf("%s commented on your post", actor.Name))

	return committed, nil
}
