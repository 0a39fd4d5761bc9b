package sync

import (
	"context"
	"fmt"

	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/observability"
	"github.com/edge-social/edge-sync/internal/remote"
)

type interactionPayload struct {
	PostID          models.ID `json:"postId"`
	UserID          models.ID `json:"userId"`
	InteractionType string    `json:"interactionType"`
}

// ToggleLike flips the actor's like on a post. The cached interaction set is
// mutated immediately and reconciled with the server response; a failed call
// restores the previous state and records an error toast.
func (c *Coordinator) ToggleLike(ctx context.Context, actor models.User, postID models.ID) error {
	post, ok := c.store.FindPost(postID)
	if !ok {
		return fmt.Errorf("post %s not in cache", postID)
	}

	if existing, liked := c.store.FindLike(postID, actor.ID); liked {
		return c.unlike(ctx, existing)
	}

	return c.like(ctx, actor, post)
}

func (c *Coordinator) like(ctx context.Context, actor models.User, post models.Post) error {
	pending := models.Interaction{
		ID:              pendingID(),
		PostID:          post.ID,
		UserID:          actor.ID,
		InteractionType: models.InteractionLike,
		Timestamp:       c.timestamp(),
	}
	c.store.UpsertInteraction(pending)

	payload := interactionPayload{PostID: post.ID, UserID: actor.ID, InteractionType: models.InteractionLike}
	result, err := c.rc.Call(ctx, remote.MethodPost, remote.ResourceInteractions, payload, "")
	if err != nil {
		c.store.RemoveInteraction(pending.ID)
		observability.OptimisticRollbacks().WithLabelValues("like").Inc()
		c.toasts.Error("Like action failed.")
		return err
	}

	if result.ID != "" {
		c.store.ReplaceInteractionID(pending.ID, result.ID)
	}

	c.notify(ctx, actor, post.UserID, models.NotificationLike, post.ID,
		fmt.Sprintf("%s liked your post", actor.Name))

	return nil
}

func (c *Coordinator) unlike(ctx context.Context, existing models.Interaction) error {
	c.store.RemoveInteraction(existing.ID)

	if _, err := c.rc.Call(ctx, remote.MethodDelete, remote.ResourceInteractions, nil, existing.ID); err != nil {
		c.store.UpsertInteraction(existing)
		observability.OptimisticRollbacks().WithLabelValues("unlike").Inc()
		c.toasts.Error("Like action failed.")
		return err
	}

	return nil
}
