package sync

import (
	"context"
	"fmt"

	"github.com/edge-social/edge-sync/internal/dto"
	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/remote"
)

// ErrNotPostOwner is returned when an actor edits or deletes someone else's post.
var ErrNotPostOwner = fmt.Errorf("post belongs to another user")

func (c *Coordinator) postFromDraft(actor models.User, draft dto.PostDraft) models.Post {
	return models.Post{
		ID:        draft.ID,
		UserID:    actor.ID,
		Content:   c.clean(draft.Content),
		Images:    models.ImageList(draft.Images),
		Type:      draft.Type,
		Title:     c.clean(draft.Title),
		Price:     draft.Price,
		Category:  draft.Category,
		Condition: draft.Condition,
		Location:  draft.Location,
	}
}

// CreatePost submits a new post and prepends the committed record to the
// cache. Creation is server-confirmed, not optimistic: the post only appears
// once the backend acknowledged it.
func (c *Coordinator) CreatePost(ctx context.Context, actor models.User, draft dto.PostDraft) (models.Post, error) {
	if err := c.validate.Struct(draft); err != nil {
		c.toasts.Error("Failed to submit post.")
		return models.Post{}, err
	}

	post := c.postFromDraft(actor, draft)
	post.ID = ""

	result, err := c.rc.Call(ctx, remote.MethodPost, remote.ResourcePosts, post, "")
	if err != nil {
		c.toasts.Error("Failed to submit post.")
		return models.Post{}, err
	}

	committed := c.mergeReturnedPost(post, result)
	c.store.PrependPost(committed)
	c.toasts.Success("Posted successfully! 🎉")

	return committed, nil
}

// UpdatePost submits edits to an existing post owned by the actor.
func (c *Coordinator) UpdatePost(ctx context.Context, actor models.User, draft dto.PostDraft) (models.Post, error) {
	if err := c.validate.Struct(draft); err != nil {
		c.toasts.Error("Failed to submit post.")
		return models.Post{}, err
	}

	existing, ok := c.store.FindPost(draft.ID)
	if !ok {
		return models.Post{}, fmt.Errorf("post %s not in cache", draft.ID)
	}
	if existing.UserID != actor.ID {
		return models.Post{}, ErrNotPostOwner
	}

	post := c.postFromDraft(actor, draft)
	post.Timestamp = existing.Timestamp

	result, err := c.rc.Call(ctx, remote.MethodPut, remote.ResourcePosts, post, draft.ID)
	if err != nil {
		c.toasts.Error("Failed to submit post.")
		return models.Post{}, err
	}

	committed := c.mergeReturnedPost(post, result)
	c.store.UpsertPost(committed)
	c.toasts.Success("Post updated successfully!")

	return committed, nil
}

// DeletePost removes a post after server confirmation. Deletion is not
// optimistic: a failed call leaves the post visible, because a post that
// vanished and reappears is worse than a delayed delete.
func (c *Coordinator) DeletePost(ctx context.Context, actor models.User, postID models.ID) error {
	post, ok := c.store.FindPost(postID)
	if !ok {
		return fmt.Errorf("post %s not in cache", postID)
	}
	if post.UserID != actor.ID {
		return ErrNotPostOwner
	}

	if _, err := c.rc.Call(ctx, remote.MethodDelete, remote.ResourcePosts, nil, postID); err != nil {
		c.toasts.Error("Failed to delete post.")
		return err
	}

	c.store.RemovePost(postID)
	c.toasts.Success("Post deleted")
	return nil
}

// mergeReturnedPost folds the server response into the submitted record.
// Some resources echo the stored row back, some only return an id; the
// locally held record fills any gaps.
func (c *Coordinator) mergeReturnedPost(submitted models.Post, result remote.Result) models.Post {
	merged := submitted

	if !result.Empty() {
		var returned models.Post
		if err := result.Decode(&returned); err == nil && returned.ID != "" {
			merged = returned
		}
	}

	if merged.ID == "" {
		merged.ID = result.ID
	}
	if merged.Timestamp == "" {
		merged.Timestamp = c.timestamp()
	}
	if merged.UserID == "" {
		merged.UserID = submitted.UserID
	}

	return merged
}
