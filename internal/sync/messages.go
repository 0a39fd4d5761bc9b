package sync

import (
	"context"
	"fmt"

	"github.com/edge-social/edge-sync/internal/dto"
	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/observability"
	"github.com/edge-social/edge-sync/internal/remote"
)

type messagePayload struct {
	ConversationID models.ID `json:"conversationId"`
	SenderID       models.ID `json:"senderId"`
	Text           string    `json:"text"`
	ImageURL       string    `json:"imageUrl"`
	Type           string    `json:"type"`
}

// SendMessage optimistically appends a message to the conversation and the
// flat message cache, bumps the conversation preview, then reconciles. A
// failed call removes the message and restores the preview.
func (c *Coordinator) SendMessage(ctx context.Context, actor models.User, conversationID models.ID, draft dto.MessageDraft) (models.Message, error) {
	if err := c.validate.Struct(draft); err != nil {
		return models.Message{}, err
	}

	conversation, ok := c.store.FindConversation(conversationID)
	if !ok {
		return models.Message{}, fmt.Errorf("conversation %s not in cache", conversationID)
	}

	pending := models.Message{
		ID:             pendingID(),
		ConversationID: conversationID,
		SenderID:       actor.ID,
		Text:           c.clean(draft.Text),
		ImageURL:       draft.ImageURL,
		Type:           draft.Type,
		Timestamp:      c.timestamp(),
	}
	c.store.UpsertMessage(pending)

	previous := conversation
	conversation.LastMessageTimestamp = pending.Timestamp
	c.store.UpsertConversation(conversation)

	payload := messagePayload{
		ConversationID: pending.ConversationID,
		SenderID:       pending.SenderID,
		Text:           pending.Text,
		ImageURL:       pending.ImageURL,
		Type:           pending.Type,
	}
	result, err := c.rc.Call(ctx, remote.MethodPost, remote.ResourceMessages, payload, "")
	if err != nil {
		c.store.RemoveMessage(pending.ID)
		c.store.UpsertConversation(previous)
		observability.OptimisticRollbacks().WithLabelValues("message").Inc()
		c.toasts.Error("Failed to send message.")
		return models.Message{}, err
	}

	committed := pending
	if result.ID != "" {
		c.store.ReplaceMessageID(pending.ID, result.ID)
		committed.ID = result.ID
	}

	c.notify(ctx, actor, c.otherParticipant(conversation, actor.ID), models.NotificationMessage, "",
		fmt.Sprintf("%s sent you a message", actor.Name))

	return committed, nil
}

// StartConversation returns the existing conversation with the target user
// when one exists; only when the participant pair is unseen does it create
// a new one. Calling it twice for the same target never issues two POSTs.
func (c *Coordinator) StartConversation(ctx context.Context, actor models.User, other models.User) (models.Conversation, error) {
	if existing, ok := c.store.FindConversationWith(actor.ID, other.ID); ok {
		return existing, nil
	}

	conversation := models.Conversation{
		ParticipantIDs:       fmt.Sprintf("%s,%s", actor.ID, other.ID),
		LastMessageTimestamp: c.timestamp(),
	}

	result, err := c.rc.Call(ctx, remote.MethodPost, remote.ResourceConversations, conversation, "")
	if err != nil {
		c.toasts.Error("Failed to start conversation.")
		return models.Conversation{}, err
	}

	conversation.ID = result.ID
	c.store.UpsertConversation(conversation)

	return conversation, nil
}

func (c *Coordinator) otherParticipant(conversation models.Conversation, actorID models.ID) models.ID {
	for _, id := range conversation.Participants() {
		if id != actorID {
			return id
		}
	}
	return ""
}
