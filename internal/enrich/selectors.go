package enrich

import (
	"sort"
	"strings"

	"github.com/edge-social/edge-sync/internal/models"
)

// Feed tabs, mirroring the app's top-level navigation.
const (
	TabForYou      = "foryou"
	TabServices    = "services"
	TabMarketplace = "marketplace"
)

// FilterPosts applies the feed tab filter and search query, then sorts by
// timestamp descending (newest first).
func FilterPosts(posts []Post, tab, query string) []Post {
	query = strings.ToLower(strings.TrimSpace(query))

	filtered := make([]Post, 0, len(posts))
	for _, post := range posts {
		if tab == TabServices && post.Type != models.PostTypeService {
			continue
		}
		if tab == TabMarketplace && post.Type != models.PostTypeItem {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(post.Content), query) &&
			!strings.Contains(strings.ToLower(post.Title), query) {
			continue
		}
		filtered = append(filtered, post)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, _ := models.ParseTimestamp(filtered[i].Timestamp)
		b, _ := models.ParseTimestamp(filtered[j].Timestamp)
		return b.Before(a)
	})

	return filtered
}

// UserPosts returns the subset of posts authored by the given user.
func UserPosts(posts []Post, userID models.ID) []Post {
	owned := make([]Post, 0)
	for _, post := range posts {
		if post.UserID == userID {
			owned = append(owned, post)
		}
	}
	return owned
}

// PostsOfType narrows a post list to one type discriminator.
func PostsOfType(posts []Post, postType string) []Post {
	matched := make([]Post, 0)
	for _, post := range posts {
		if post.Type == postType {
			matched = append(matched, post)
		}
	}
	return matched
}

// UnreadCount returns the number of unread notifications addressed to the user.
func UnreadCount(notifications []models.Notification, userID models.ID) int {
	count := 0
	for _, notification := range notifications {
		if notification.RecipientID == userID && !notification.IsRead {
			count++
		}
	}
	return count
}

// SortConversations orders conversations by last activity, newest first.
func SortConversations(conversations []Conversation) []Conversation {
	sorted := append([]Conversation(nil), conversations...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, _ := models.ParseTimestamp(sorted[i].LastMessageTimestamp)
		b, _ := models.ParseTimestamp(sorted[j].LastMessageTimestamp)
		return b.Before(a)
	})
	return sorted
}
