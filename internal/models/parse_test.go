package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edge-social/edge-sync/internal/models"
)

func TestIDUnmarshal(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected models.ID
	}{
		{name: "string", input: `"abc-123"`, expected: "abc-123"},
		{name: "integer", input: `42`, expected: "42"},
		{name: "large integer stays exact", input: `1758912345678`, expected: "1758912345678"},
		{name: "null", input: `null`, expected: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var id models.ID
			require.NoError(t, json.Unmarshal([]byte(tc.input), &id))
			require.Equal(t, tc.expected, id)
		})
	}
}

func TestIDUnmarshalInsideRecord(t *testing.T) {
	var post models.Post
	require.NoError(t, json.Unmarshal([]byte(`{"id":99,"userId":"7","content":"hi"}`), &post))
	require.Equal(t, models.ID("99"), post.ID)
	require.Equal(t, models.ID("7"), post.UserID)
}

func TestImageListUnmarshal(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected models.ImageList
	}{
		{name: "native array", input: `["a.png","b.png"]`, expected: models.ImageList{"a.png", "b.png"}},
		{name: "json encoded string", input: `"[\"a.png\"]"`, expected: models.ImageList{"a.png"}},
		{name: "empty string", input: `""`, expected: models.ImageList{}},
		{name: "malformed degrades to empty", input: `"not json"`, expected: models.ImageList{}},
		{name: "number degrades to empty", input: `17`, expected: models.ImageList{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var list models.ImageList
			require.NoError(t, json.Unmarshal([]byte(tc.input), &list))
			require.Equal(t, tc.expected, list)
		})
	}
}

func TestPlotListUnmarshalEncodedString(t *testing.T) {
	input := `"[{\"plantType\":\"rose\",\"plantedAt\":\"2026-01-02T10:00:00Z\",\"timesWatered\":2}]"`

	var plots models.PlotList
	require.NoError(t, json.Unmarshal([]byte(input), &plots))
	require.Len(t, plots, 1)
	require.Equal(t, "rose", plots[0].PlantType)
	require.Equal(t, 2, plots[0].TimesWatered)
}

func TestSeedCountsUnmarshal(t *testing.T) {
	var native models.SeedCounts
	require.NoError(t, json.Unmarshal([]byte(`{"rose":3}`), &native))
	require.Equal(t, 3, native["rose"])

	var encoded models.SeedCounts
	require.NoError(t, json.Unmarshal([]byte(`"{\"tomato\":1}"`), &encoded))
	require.Equal(t, 1, encoded["tomato"])

	var malformed models.SeedCounts
	require.NoError(t, json.Unmarshal([]byte(`"oops"`), &malformed))
	require.Empty(t, malformed)
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
	}{
		{name: "rfc3339", input: "2026-03-01T12:30:00Z", ok: true},
		{name: "rfc3339 nano", input: "2026-03-01T12:30:00.123456789Z", ok: true},
		{name: "spreadsheet datetime", input: "2026-03-01 12:30:00", ok: true},
		{name: "bare date", input: "2026-03-01", ok: true},
		{name: "empty", input: "", ok: false},
		{name: "garbage", input: "yesterday-ish", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts, ok := models.ParseTimestamp(tc.input)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				require.Equal(t, 2026, ts.Year())
			}
		})
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	original := time.Date(2026, 3, 1, 9, 15, 0, 0, time.FixedZone("WIB", 7*3600))

	formatted := models.FormatTimestamp(original)
	require.Equal(t, "2026-03-01T02:15:00Z", formatted)

	parsed, ok := models.ParseTimestamp(formatted)
	require.True(t, ok)
	require.True(t, parsed.Equal(original))
}

func TestUserBadgeList(t *testing.T) {
	user := models.User{Badges: "Warehouse Associate, Top Seller ,"}
	require.Equal(t, []string{"Warehouse Associate", "Top Seller"}, user.BadgeList())

	require.Empty(t, models.User{}.BadgeList())
}

func TestConversationParticipants(t *testing.T) {
	conversation := models.Conversation{ParticipantIDs: "1, 2"}
	require.Equal(t, []models.ID{"1", "2"}, conversation.Participants())
	require.True(t, conversation.HasParticipant("2"))
	require.False(t, conversation.HasParticipant("3"))
}
