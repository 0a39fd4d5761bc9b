package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/remote"
)

// Store holds the authoritative-for-this-session copy of every backend
// collection. It is the only shared mutable resource in the engine: the
// mutation coordinator and LoadAll write it, everything else reads snapshots.
type Store struct {
	mu      sync.RWMutex
	loadGen uint64

	users         []models.User
	posts         []models.Post
	comments      []models.Comment
	interactions  []models.Interaction
	conversations []models.Conversation
	messages      []models.Message
	notifications []models.Notification
	groupChat     []models.GroupChatMessage
	dailyLogs     []models.DailyLog
	gardens       []models.GardenState

	logger zerolog.Logger
}

// NewStore builds an empty store.
func NewStore(logger zerolog.Logger) *Store {
	return &Store{logger: logger.With().Str("component", "cache").Logger()}
}

// LoadAll replaces every collection with a fresh GET of each resource. Loads
// run concurrently; a load superseded by a newer LoadAll commits nothing, so
// the last load always wins regardless of response arrival order.
func (s *Store) LoadAll(ctx context.Context, rc remote.Caller) error {
	s.mu.Lock()
	s.loadGen++
	gen := s.loadGen
	s.mu.Unlock()

	var (
		users         []models.User
		posts         []models.Post
		comments      []models.Comment
		interactions  []models.Interaction
		conversations []models.Conversation
		messages      []models.Message
		notifications []models.Notification
		groupChat     []models.GroupChatMessage
		dailyLogs     []models.DailyLog
		gardens       []models.GardenState
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(fetchCollection(gctx, rc, remote.ResourceUsers, &users))
	g.Go(fetchCollection(gctx, rc, remote.ResourcePosts, &posts))
	g.Go(fetchCollection(gctx, rc, remote.ResourceComments, &comments))
	g.Go(fetchCollection(gctx, rc, remote.ResourceInteractions, &interactions))
	g.Go(fetchCollection(gctx, rc, remote.ResourceConversations, &conversations))
	g.Go(fetchCollection(gctx, rc, remote.ResourceMessages, &messages))
	g.Go(fetchCollection(gctx, rc, remote.ResourceNotifications, &notifications))
	g.Go(fetchCollection(gctx, rc, remote.ResourceGroupChat, &groupChat))
	g.Go(fetchCollection(gctx, rc, remote.ResourceDailyLogs, &dailyLogs))
	g.Go(fetchCollection(gctx, rc, remote.ResourceGarden, &gardens))

	if err := g.Wait(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loadGen != gen {
		s.logger.Debug().Uint64("generation", gen).Msg("discarding superseded load")
		return nil
	}

	s.users = users
	s.posts = posts
	s.comments = comments
	s.interactions = interactions
	s.conversations = conversations
	s.messages = messages
	s.notifications = notifications
	s.groupChat = groupChat
	s.dailyLogs = dailyLogs
	s.gardens = gardens

	return nil
}

func fetchCollection[T any](ctx context.Context, rc remote.Caller, resource string, out *[]T) func() error {
	return func() error {
		result, err := rc.Call(ctx, remote.MethodGet, resource, nil, "")
		if err != nil {
			return fmt.Errorf("load %s: %w", resource, err)
		}

		var items []T
		if !result.Empty() {
			if err := result.Decode(&items); err != nil {
				return fmt.Errorf("decode %s: %w", resource, err)
			}
		}

		*out = items
		return nil
	}
}

// Users returns a copy of the users collection.
func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User(nil), s.users...)
}

// Posts returns a copy of the posts collection.
func (s *Store) Posts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Post(nil), s.posts...)
}

// Comments returns a copy of the comments collection.
func (s *Store) Comments() []models.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Comment(nil), s.comments...)
}

// Interactions returns a copy of the interactions collection.
func (s *Store) Interactions() []models.Interaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Interaction(nil), s.interactions...)
}

// Conversations returns a copy of the conversations collection.
func (s *Store) Conversations() []models.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Conversation(nil), s.conversations...)
}

// Messages returns a copy of the messages collection.
func (s *Store) Messages() []models.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Message(nil), s.messages...)
}

// Notifications returns a copy of the notifications collection.
func (s *Store) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Notification(nil), s.notifications...)
}

// GroupChat returns a copy of the shared channel messages.
func (s *Store) GroupChat() []models.GroupChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.GroupChatMessage(nil), s.groupChat...)
}

// DailyLogs returns a copy of the daily log collection.
func (s *Store) DailyLogs() []models.DailyLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.DailyLog(nil), s.dailyLogs...)
}

// Gardens returns a copy of the garden state collection.
func (s *Store) Gardens() []models.GardenState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.GardenState(nil), s.gardens...)
}

// FindUser looks up a user by id.
func (s *Store) FindUser(id models.ID) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.ID == id {
			return user, true
		}
	}
	return models.User{}, false
}

// FindUserByUsername looks up a user by the @-prefixed handle.
func (s *Store) FindUserByUsername(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return user, true
		}
	}
	return models.User{}, false
}

// FindPost looks up a post by id.
func (s *Store) FindPost(id models.ID) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, post := range s.posts {
		if post.ID == id {
			return post, true
		}
	}
	return models.Post{}, false
}

// FindLike returns the like interaction for the given post and user, if any.
func (s *Store) FindLike(postID, userID models.ID) (models.Interaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, interaction := range s.interactions {
		if interaction.PostID == postID && interaction.UserID == userID && interaction.InteractionType == models.InteractionLike {
			return interaction, true
		}
	}
	return models.Interaction{}, false
}

// FindConversation looks up a conversation by id.
func (s *Store) FindConversation(id models.ID) (models.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, conversation := range s.conversations {
		if conversation.ID == id {
			return conversation, true
		}
	}
	return models.Conversation{}, false
}

// FindConversationWith returns the conversation containing both users, if any.
// The participant pair is the stable duplicate-check key.
func (s *Store) FindConversationWith(userID, otherID models.ID) (models.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, conversation := range s.conversations {
		if conversation.HasParticipant(userID) && conversation.HasParticipant(otherID) {
			return conversation, true
		}
	}
	return models.Conversation{}, false
}

// FindNotification looks up a notification by id.
func (s *Store) FindNotification(id models.ID) (models.Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, notification := range s.notifications {
		if notification.ID == id {
			return notification, true
		}
	}
	return models.Notification{}, false
}

// FindDailyLog returns the user's log for the given calendar date, if any.
func (s *Store) FindDailyLog(userID models.ID, date string) (models.DailyLog, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.dailyLogs {
		if entry.UserID == userID && entry.Date == date {
			return entry, true
		}
	}
	return models.DailyLog{}, false
}

// FindGarden returns the user's garden state, if any.
func (s *Store) FindGarden(userID models.ID) (models.GardenState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, garden := range s.gardens {
		if garden.UserID == userID {
			return garden, true
		}
	}
	return models.GardenState{}, false
}

// UpsertUser inserts or replaces a user record. Local-only; never touches
// the network.
func (s *Store) UpsertUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = user
			return
		}
	}
	s.users = append(s.users, user)
}

// UpsertPost inserts or replaces a post record.
func (s *Store) UpsertPost(post models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i] = post
			return
		}
	}
	s.posts = append(s.posts, post)
}

// PrependPost puts a freshly created post at the head of the collection.
func (s *Store) PrependPost(post models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append([]models.Post{post}, s.posts...)
}

// RemovePost deletes a post by id.
func (s *Store) RemovePost(id models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			return
		}
	}
}

// UpsertComment inserts or replaces a comment record.
func (s *Store) UpsertComment(comment models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.comments {
		if s.comments[i].ID == comment.ID {
			s.comments[i] = comment
			return
		}
	}
	s.comments = append(s.comments, comment)
}

// ReplaceCommentID swaps a transient comment id for the committed one.
func (s *Store) ReplaceCommentID(oldID, newID models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.comments {
		if s.comments[i].ID == oldID {
			s.comments[i].ID = newID
			return
		}
	}
}

// RemoveComment deletes a comment by id.
func (s *Store) RemoveComment(id models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.comments {
		if s.comments[i].ID == id {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			return
		}
	}
}

// UpsertInteraction inserts or replaces an interaction record.
func (s *Store) UpsertInteraction(interaction models.Interaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.interactions {
		if s.interactions[i].ID == interaction.ID {
			s.interactions[i] = interaction
			return
		}
	}
	s.interactions = append(s.interactions, interaction)
}

// ReplaceInteractionID swaps a transient interaction id for the committed one.
func (s *Store) ReplaceInteractionID(oldID, newID models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.interactions {
		if s.interactions[i].ID == oldID {
			s.interactions[i].ID = newID
			return
		}
	}
}

// RemoveInteraction deletes an interaction by id.
func (s *Store) RemoveInteraction(id models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.interactions {
		if s.interactions[i].ID == id {
			s.interactions = append(s.interactions[:i], s.interactions[i+1:]...)
			return
		}
	}
}

// UpsertConversation inserts or replaces a conversation record.
func (s *Store) UpsertConversation(conversation models.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.conversations {
		if s.conversations[i].ID == conversation.ID {
			s.conversations[i] = conversation
			return
		}
	}
	s.conversations = append(s.conversations, conversation)
}

// UpsertMessage inserts or replaces a message record.
func (s *Store) UpsertMessage(message models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == message.ID {
			s.messages[i] = message
			return
		}
	}
	s.messages = append(s.messages, message)
}

// ReplaceMessageID swaps a transient message id for the committed one.
func (s *Store) ReplaceMessageID(oldID, newID models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == oldID {
			s.messages[i].ID = newID
			return
		}
	}
}

// RemoveMessage deletes a message by id.
func (s *Store) RemoveMessage(id models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			return
		}
	}
}

// UpsertNotification inserts or replaces a notification record.
func (s *Store) UpsertNotification(notification models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == notification.ID {
			s.notifications[i] = notification
			return
		}
	}
	s.notifications = append(s.notifications, notification)
}

// UpsertGroupMessage inserts or replaces a shared channel message.
func (s *Store) UpsertGroupMessage(message models.GroupChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.groupChat {
		if s.groupChat[i].ID == message.ID {
			s.groupChat[i] = message
			return
		}
	}
	s.groupChat = append(s.groupChat, message)
}

// ReplaceGroupMessageID swaps a transient shared channel message id.
func (s *Store) ReplaceGroupMessageID(oldID, newID models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.groupChat {
		if s.groupChat[i].ID == oldID {
			s.groupChat[i].ID = newID
			return
		}
	}
}

// RemoveGroupMessage deletes a shared channel message by id.
func (s *Store) RemoveGroupMessage(id models.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.groupChat {
		if s.groupChat[i].ID == id {
			s.groupChat = append(s.groupChat[:i], s.groupChat[i+1:]...)
			return
		}
	}
}

// UpsertDailyLog inserts or replaces a daily log record.
func (s *Store) UpsertDailyLog(entry models.DailyLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.dailyLogs {
		if s.dailyLogs[i].ID == entry.ID {
			s.dailyLogs[i] = entry
			return
		}
	}
	s.dailyLogs = append(s.dailyLogs, entry)
}

// UpsertGarden inserts or replaces a garden state record, keyed by user.
func (s *Store) UpsertGarden(garden models.GardenState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.gardens {
		if s.gardens[i].UserID == garden.UserID {
			s.gardens[i] = garden
			return
		}
	}
	s.gardens = append(s.gardens, garden)
}
