package cache_test

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/edge-social/edge-sync/internal/cache"
	"github.com/edge-social/edge-sync/internal/models"
	"github.com/edge-social/edge-sync/internal/remote"
)

type fakeCaller struct {
	fn func(method, resource string, payload any, id models.ID) (remote.Result, error)
}

func (f *fakeCaller) Call(_ context.Context, method, resource string, payload any, id models.ID) (remote.Result, error) {
	return f.fn(method, resource, payload, id)
}

func collectionCaller(t *testing.T, collections map[string]any) *fakeCaller {
	t.Helper()
	return &fakeCaller{fn: func(method, resource string, _ any, _ models.ID) (remote.Result, error) {
		require.Equal(t, remote.MethodGet, method)
		payload, ok := collections[resource]
		if !ok {
			return remote.Result{Data: json.RawMessage(`[]`)}, nil
		}
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		return remote.Result{Data: encoded}, nil
	}}
}

func newStore() *cache.Store {
	return cache.NewStore(zerolog.New(io.Discard))
}

func TestLoadAllPopulatesCollections(t *testing.T) {
	store := newStore()
	rc := collectionCaller(t, map[string]any{
		remote.ResourceUsers: []models.User{{ID: "1", Name: "Alice"}},
		remote.ResourcePosts: []models.Post{{ID: "10", UserID: "1", Content: "hello"}},
		remote.ResourceInteractions: []models.Interaction{
			{ID: "100", PostID: "10", UserID: "1", InteractionType: models.InteractionLike},
		},
		remote.ResourceGarden: []models.GardenState{{ID: "g1", UserID: "1", Coins: 20}},
	})

	require.NoError(t, store.LoadAll(context.Background(), rc))

	require.Len(t, store.Users(), 1)
	require.Len(t, store.Posts(), 1)
	require.Len(t, store.Interactions(), 1)
	require.Empty(t, store.Comments())

	user, ok := store.FindUser("1")
	require.True(t, ok)
	require.Equal(t, "Alice", user.Name)

	garden, ok := store.FindGarden("1")
	require.True(t, ok)
	require.Equal(t, 20, garden.Coins)
}

func TestLoadAllIsIdempotent(t *testing.T) {
	store := newStore()
	rc := collectionCaller(t, map[string]any{
		remote.ResourceUsers: []models.User{{ID: "1", Name: "Alice"}},
		remote.ResourcePosts: []models.Post{{ID: "10", UserID: "1", Content: "hi"}},
	})

	require.NoError(t, store.LoadAll(context.Background(), rc))
	firstUsers, firstPosts := store.Users(), store.Posts()

	require.NoError(t, store.LoadAll(context.Background(), rc))
	require.Equal(t, firstUsers, store.Users())
	require.Equal(t, firstPosts, store.Posts())
}

func TestLoadAllReplacesPreviousContents(t *testing.T) {
	store := newStore()

	first := collectionCaller(t, map[string]any{
		remote.ResourcePosts: []models.Post{{ID: "1"}, {ID: "2"}},
	})
	require.NoError(t, store.LoadAll(context.Background(), first))
	require.Len(t, store.Posts(), 2)

	second := collectionCaller(t, map[string]any{
		remote.ResourcePosts: []models.Post{{ID: "3"}},
	})
	require.NoError(t, store.LoadAll(context.Background(), second))

	posts := store.Posts()
	require.Len(t, posts, 1)
	require.Equal(t, models.ID("3"), posts[0].ID)
}

func TestLoadAllDiscardsSupersededLoad(t *testing.T) {
	store := newStore()

	started := make(chan struct{})
	release := make(chan struct{})

	slow := &fakeCaller{fn: func(_, resource string, _ any, _ models.ID) (remote.Result, error) {
		if resource == remote.ResourceUsers {
			close(started)
			<-release
			return remote.Result{Data: json.RawMessage(`[{"id":"1","name":"Stale"}]`)}, nil
		}
		return remote.Result{Data: json.RawMessage(`[]`)}, nil
	}}

	done := make(chan error, 1)
	go func() {
		done <- store.LoadAll(context.Background(), slow)
	}()
	<-started

	fresh := collectionCaller(t, map[string]any{
		remote.ResourceUsers: []models.User{{ID: "1", Name: "Fresh"}},
	})
	require.NoError(t, store.LoadAll(context.Background(), fresh))

	close(release)
	require.NoError(t, <-done)

	user, ok := store.FindUser("1")
	require.True(t, ok)
	require.Equal(t, "Fresh", user.Name)
}

func TestLoadAllPropagatesFailure(t *testing.T) {
	store := newStore()
	failing := &fakeCaller{fn: func(_, resource string, _ any, _ models.ID) (remote.Result, error) {
		if resource == remote.ResourceComments {
			return remote.Result{}, &remote.RemoteError{Message: "sheet missing"}
		}
		return remote.Result{Data: json.RawMessage(`[]`)}, nil
	}}

	err := store.LoadAll(context.Background(), failing)
	require.Error(t, err)
	require.Contains(t, err.Error(), "comments")
}

func TestAccessorsReturnCopies(t *testing.T) {
	store := newStore()
	store.UpsertPost(models.Post{ID: "1", Content: "original"})

	posts := store.Posts()
	posts[0].Content = "mutated"

	reread, ok := store.FindPost("1")
	require.True(t, ok)
	require.Equal(t, "original", reread.Content)
}

func TestFindLike(t *testing.T) {
	store := newStore()
	store.UpsertInteraction(models.Interaction{ID: "1", PostID: "p1", UserID: "u1", InteractionType: models.InteractionLike})
	store.UpsertInteraction(models.Interaction{ID: "2", PostID: "p1", UserID: "u2", InteractionType: "bookmark"})

	_, ok := store.FindLike("p1", "u1")
	require.True(t, ok)

	_, ok = store.FindLike("p1", "u2")
	require.False(t, ok, "non-like interactions must not count")

	_, ok = store.FindLike("p2", "u1")
	require.False(t, ok)
}

func TestFindConversationWithIgnoresOrder(t *testing.T) {
	store := newStore()
	store.UpsertConversation(models.Conversation{ID: "c1", ParticipantIDs: "a,b"})

	_, ok := store.FindConversationWith("a", "b")
	require.True(t, ok)

	_, ok = store.FindConversationWith("b", "a")
	require.True(t, ok)

	_, ok = store.FindConversationWith("a", "c")
	require.False(t, ok)
}

func TestReplaceInteractionID(t *testing.T) {
	store := newStore()
	store.UpsertInteraction(models.Interaction{ID: "pending-1", PostID: "p1", UserID: "u1", InteractionType: models.InteractionLike})

	store.ReplaceInteractionID("pending-1", "77")

	like, ok := store.FindLike("p1", "u1")
	require.True(t, ok)
	require.Equal(t, models.ID("77"), like.ID)
}

func TestPrependPost(t *testing.T) {
	store := newStore()
	store.UpsertPost(models.Post{ID: "1"})
	store.PrependPost(models.Post{ID: "2"})

	posts := store.Posts()
	require.Equal(t, models.ID("2"), posts[0].ID)
	require.Equal(t, models.ID("1"), posts[1].ID)
}

func TestUpsertGardenKeyedByUser(t *testing.T) {
	store := newStore()
	store.UpsertGarden(models.GardenState{UserID: "u1", Coins: 10})
	store.UpsertGarden(models.GardenState{UserID: "u1", Coins: 25})

	require.Len(t, store.Gardens(), 1)
	garden, ok := store.FindGarden("u1")
	require.True(t, ok)
	require.Equal(t, 25, garden.Coins)
}

func TestFindDailyLogByDate(t *testing.T) {
	store := newStore()
	store.UpsertDailyLog(models.DailyLog{ID: "1", UserID: "u1", Date: "2026-03-01"})

	_, ok := store.FindDailyLog("u1", "2026-03-01")
	require.True(t, ok)

	_, ok = store.FindDailyLog("u1", "2026-03-02")
	require.False(t, ok)
}
