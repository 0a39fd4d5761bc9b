package enrich

import (
	"sort"

	"github.com/edge-social/edge-sync/internal/cache"
	"github.com/edge-social/edge-sync/internal/models"
)

// ImagePreview is the fixed last-message placeholder for image messages.
const ImagePreview = "📷 Image"

// Post is the denormalized feed view of a post: author resolved, comments
// joined with their authors, like count and the current user's like flag.
type Post struct {
	models.Post
	User     models.User `json:"user"`
	Comments []Comment   `json:"commentsList"`
	Likes    int         `json:"likes"`
	Liked    bool        `json:"liked"`
}

// Comment is a comment with its author resolved.
type Comment struct {
	models.Comment
	User models.User `json:"user"`
}

// Conversation is the denormalized inbox view: the other participant
// resolved, messages ordered ascending by timestamp, and a preview line.
type Conversation struct {
	models.Conversation
	User        models.User      `json:"user"`
	OtherUserID models.ID        `json:"userId"`
	Messages    []models.Message `json:"messages"`
	LastMessage string           `json:"lastMessage"`
	Unread      int              `json:"unread"`
}

// PlaceholderUser stands in for a dangling user reference. Joins never fail
// on a missing foreign key; the view degrades instead.
func PlaceholderUser() models.User {
	return models.User{Name: "Unknown", Avatar: "👤", Username: "@unknown"}
}

func resolveUser(store *cache.Store, id models.ID) models.User {
	if user, ok := store.FindUser(id); ok {
		return user
	}
	return PlaceholderUser()
}

// Posts builds the enriched feed view from the current cache contents.
func Posts(store *cache.Store, currentUserID models.ID) []Post {
	comments := store.Comments()
	interactions := store.Interactions()

	posts := store.Posts()
	enriched := make([]Post, 0, len(posts))
	for _, post := range posts {
		view := Post{Post: post, User: resolveUser(store, post.UserID), Comments: []Comment{}}

		for _, comment := range comments {
			if comment.PostID != post.ID {
				continue
			}
			view.Comments = append(view.Comments, Comment{
				Comment: comment,
				User:    resolveUser(store, comment.UserID),
			})
		}

		for _, interaction := range interactions {
			if interaction.PostID != post.ID || interaction.InteractionType != models.InteractionLike {
				continue
			}
			view.Likes++
			if interaction.UserID == currentUserID {
				view.Liked = true
			}
		}

		enriched = append(enriched, view)
	}

	return enriched
}

// Conversations builds the enriched inbox view for the current user.
func Conversations(store *cache.Store, currentUserID models.ID) []Conversation {
	messages := store.Messages()

	conversations := store.Conversations()
	enriched := make([]Conversation, 0, len(conversations))
	for _, conversation := range conversations {
		otherID := otherParticipant(conversation, currentUserID)

		view := Conversation{
			Conversation: conversation,
			User:         resolveUser(store, otherID),
			OtherUserID:  otherID,
			Messages:     []models.Message{},
		}

		for _, message := range messages {
			if message.ConversationID == conversation.ID {
				view.Messages = append(view.Messages, message)
			}
		}

		sort.SliceStable(view.Messages, func(i, j int) bool {
			a, _ := models.ParseTimestamp(view.Messages[i].Timestamp)
			b, _ := models.ParseTimestamp(view.Messages[j].Timestamp)
			return a.Before(b)
		})

		if len(view.Messages) > 0 {
			last := view.Messages[len(view.Messages)-1]
			if last.Type == models.MessageTypeImage {
				view.LastMessage = ImagePreview
			} else {
				view.LastMessage = last.Text
			}
		}

		if view.LastMessageTimestamp == "" {
			view.LastMessageTimestamp = conversation.Timestamp
		}

		enriched = append(enriched, view)
	}

	return enriched
}

// otherParticipant resolves the participant that is not the current user.
// A conversation with only one listed participant falls back to that one.
func otherParticipant(conversation models.Conversation, currentUserID models.ID) models.ID {
	participants := conversation.Participants()
	for _, id := range participants {
		if id != currentUserID {
			return id
		}
	}
	if len(participants) > 0 {
		return participants[0]
	}
	return ""
}
