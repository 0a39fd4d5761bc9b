package dto

import "github.com/edge-social/edge-sync/internal/models"

// PostDraft is the user-entered content for a post create or edit. ID is
// set only when editing an existing post.
type PostDraft struct {
	ID        models.ID `json:"id,omitempty"`
	Type      string    `json:"type" validate:"required,oneof=post service item"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content" validate:"required_without=Images"`
	Price     string    `json:"price,omitempty"`
	Category  string    `json:"category,omitempty"`
	Condition string    `json:"condition,omitempty"`
	Location  string    `json:"location,omitempty"`
	Images    []string  `json:"images,omitempty"`
}

// CommentDraft is a new comment on a post.
type CommentDraft struct {
	PostID models.ID `json:"postId" validate:"required"`
	Text   string    `json:"text" validate:"required"`
}

// MessageDraft is a new direct message. Text messages require text; image
// messages carry a data-URI reference instead.
type MessageDraft struct {
	Text     string `json:"text" validate:"required_without=ImageURL"`
	ImageURL string `json:"imageUrl,omitempty"`
	Type     string `json:"type" validate:"required,oneof=text image"`
}

// GroupMessageDraft is a new message for the shared channel.
type GroupMessageDraft struct {
	Text string `json:"text" validate:"required"`
}

// SignupRequest carries the fields collected by the signup form.
type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest carries the fields collected by the login form.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileUpdate is the editable subset of the current user's record.
type ProfileUpdate struct {
	Name   string `json:"name" validate:"required"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
	Email  string `json:"email" validate:"omitempty,email"`
}

// DailyLogDraft is one day's check-in entry.
type DailyLogDraft struct {
	Mood         int    `json:"mood" validate:"min=1,max=5"`
	Productivity int    `json:"productivity" validate:"min=1,max=5"`
	Highlight    string `json:"highlight,omitempty"`
	Gratitude    string `json:"gratitude,omitempty"`
	Notes        string `json:"notes,omitempty"`
}
