package models

import "strings"

// Interaction types stored in the interactions collection.
const (
	InteractionLike = "like"
)

// Post type discriminators.
const (
	PostTypePost    = "post"
	PostTypeService = "service"
	PostTypeItem    = "item"
)

// Message type discriminators.
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
)

// Notification types.
const (
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationMessage = "message"
)

// User is a member account. Password holds a bcrypt hash, never plaintext.
type User struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Password     string `json:"password,omitempty"`
	Avatar       string `json:"avatar"`
	Bio          string `json:"bio"`
	Email        string `json:"email"`
	Badges       string `json:"badges"`
	Verified     bool   `json:"verified"`
	ProfileImage string `json:"profileImage,omitempty"`
	CoverImage   string `json:"coverImage,omitempty"`
	DarkMode     bool   `json:"darkMode"`
}

// BadgeList splits the comma-joined badges field into individual tags.
func (u User) BadgeList() []string {
	parts := strings.Split(u.Badges, ",")
	badges := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			badges = append(badges, trimmed)
		}
	}
	return badges
}

// Post is a feed entry. Title, Price and Category only apply to the
// service/item variants.
type Post struct {
	ID        ID        `json:"id"`
	UserID    ID        `json:"userId"`
	Content   string    `json:"content"`
	Images    ImageList `json:"images"`
	Timestamp string    `json:"timestamp"`
	Type      string    `json:"type"`
	Title     string    `json:"title,omitempty"`
	Price     string    `json:"price,omitempty"`
	Category  string    `json:"category,omitempty"`
	Condition string    `json:"condition,omitempty"`
	Location  string    `json:"location,omitempty"`
}

// Comment belongs to exactly one post.
type Comment struct {
	ID        ID     `json:"id"`
	PostID    ID     `json:"postId"`
	UserID    ID     `json:"userId"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Interaction records a like. At most one per (post, user, type); the
// client enforces this, the backend schema does not.
type Interaction struct {
	ID              ID     `json:"id"`
	PostID          ID     `json:"postId"`
	UserID          ID     `json:"userId"`
	InteractionType string `json:"interactionType"`
	Timestamp       string `json:"timestamp"`
}

// Conversation links two participants. ParticipantIDs is the backend's
// comma-joined pair, treated as the stable key for existence checks.
type Conversation struct {
	ID                   ID     `json:"id"`
	ParticipantIDs       string `json:"participantIds"`
	LastMessageTimestamp string `json:"lastMessageTimestamp"`
	Timestamp            string `json:"timestamp,omitempty"`
}

// Participants returns the trimmed, non-empty participant ids.
func (c Conversation) Participants() []ID {
	parts := strings.Split(c.ParticipantIDs, ",")
	ids := make([]ID, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, ID(trimmed))
		}
	}
	return ids
}

// HasParticipant reports whether the given user is part of the conversation.
func (c Conversation) HasParticipant(userID ID) bool {
	for _, id := range c.Participants() {
		if id == userID {
			return true
		}
	}
	return false
}

// Message is a single direct message within a conversation.
type Message struct {
	ID             ID     `json:"id"`
	ConversationID ID     `json:"conversationId"`
	SenderID       ID     `json:"senderId"`
	Text           string `json:"text"`
	ImageURL       string `json:"imageUrl,omitempty"`
	Type           string `json:"type"`
	Timestamp      string `json:"timestamp"`
}

// Notification is delivered to a single recipient.
type Notification struct {
	ID            ID     `json:"id"`
	RecipientID   ID     `json:"recipientId"`
	SenderID      ID     `json:"senderId"`
	Type          string `json:"type"`
	RelatedPostID ID     `json:"relatedPostId,omitempty"`
	Content       string `json:"content"`
	IsRead        bool   `json:"isRead"`
	Timestamp     string `json:"timestamp"`
}

// GroupChatMessage lives in the single shared channel.
type GroupChatMessage struct {
	ID        ID     `json:"id"`
	SenderID  ID     `json:"senderId"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// DailyLog captures one check-in per user per calendar day.
type DailyLog struct {
	ID           ID     `json:"id"`
	UserID       ID     `json:"userId"`
	Date         string `json:"date"`
	Mood         int    `json:"mood"`
	Productivity int    `json:"productivity"`
	Highlight    string `json:"highlight,omitempty"`
	Gratitude    string `json:"gratitude,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Plot is a single garden cell.
type Plot struct {
	PlantType    string `json:"plantType"`
	PlantedAt    string `json:"plantedAt"`
	TimesWatered int    `json:"timesWatered"`
}

// Empty reports whether nothing is planted in the plot.
func (p Plot) Empty() bool {
	return p.PlantType == ""
}

// ShopItem is one entry of the garden shop inventory snapshot.
type ShopItem struct {
	PlantType string `json:"plantType"`
	SeedPrice int    `json:"seedPrice"`
	Stock     int    `json:"stock"`
}

// GardenState is the per-user mini-game state. The plot count is fixed.
type GardenState struct {
	ID              ID         `json:"id"`
	UserID          ID         `json:"userId"`
	Plots           PlotList   `json:"plots"`
	Seeds           SeedCounts `json:"seeds"`
	WaterDrops      int        `json:"waterDrops"`
	Coins           int        `json:"coins"`
	Points          int        `json:"points"`
	Shop            []ShopItem `json:"shop"`
	LastCheckIn     string     `json:"lastCheckIn"`
	LastShopRefresh string     `json:"lastShopRefresh"`
}

// Settings holds per-user display preferences persisted with the session.
type Settings struct {
	DarkMode           bool `json:"darkMode"`
	EmailNotifications bool `json:"emailNotifications"`
	PushNotifications  bool `json:"pushNotifications"`
}

// DefaultSettings returns the preferences applied to a fresh session.
func DefaultSettings() Settings {
	return Settings{DarkMode: false, EmailNotifications: true, PushNotifications: false}
}
