package handler

import (
	"strings"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viennagloria/boss-task-tracker/internal/models"
)

func TestTruncateText(t *testing.T) {
	long := strings.Repeat("x", 250)
	got := truncateText(long, previewMaxLen)
	assert.Len(t, []rune(got), previewMaxLen+3)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("x", 200), strings.TrimSuffix(got, "..."))

	short := strings.Repeat("x", 150)
	assert.Equal(t, short, truncateText(short, previewMaxLen))

	exact := strings.Repeat("x", 200)
	assert.Equal(t, exact, truncateText(exact, previewMaxLen))

	// Truncation counts runes, not bytes.
	wide := strings.Repeat("日", 250)
	got = truncateText(wide, previewMaxLen)
	assert.Equal(t, strings.Repeat("日", 200)+"...", got)
}

func TestRelativeDate(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-2 * time.Hour), "Today"},
		{now.AddDate(0, 0, -1), "Yesterday"},
		{now.AddDate(0, 0, -3), "3 days ago"},
		{now.AddDate(0, 0, -6), "6 days ago"},
		{now.AddDate(0, 0, -7), "Aug 22"},
		{now.AddDate(0, 0, -40), "Jul 20"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, relativeDate(tc.t, now), "time %v", tc.t)
	}
}

func TestFormatPinBlock(t *testing.T) {
	pin := &models.PinnedMessage{
		ID:                7,
		MessageText:       "Ship it",
		MessageAuthorID:   "UAUTHOR",
		MessageAuthorName: "alice",
		ChannelName:       "general",
		Permalink:         "https://example.slack.com/archives/C1/p100",
		Status:            models.StatusPending,
		PinnedAt:          time.Now(),
	}

	text := sectionText(t, formatPinBlock(pin))
	assert.Contains(t, text, "`#7`")
	assert.Contains(t, text, ":pushpin:")
	assert.Contains(t, text, "From @alice in #general")
	assert.Contains(t, text, "> Ship it")
	assert.Contains(t, text, "<https://example.slack.com/archives/C1/p100|View in Slack>")
	assert.Contains(t, text, "Pinned Today")

	pin.Status = models.StatusDone
	text = sectionText(t, formatPinBlock(pin))
	assert.Contains(t, text, ":white_check_mark:")
	assert.NotContains(t, text, ":pushpin:")
}

func TestFormatPinBlockFallbacks(t *testing.T) {
	pin := &models.PinnedMessage{
		ID:              1,
		MessageText:     "note",
		MessageAuthorID: "UAUTHOR",
		Status:          models.StatusPending,
		PinnedAt:        time.Now(),
	}

	text := sectionText(t, formatPinBlock(pin))
	assert.Contains(t, text, "From <@UAUTHOR> in a channel")
	assert.NotContains(t, text, "View in Slack")
}

func TestFormatPinsList(t *testing.T) {
	pins := []models.PinnedMessage{
		{ID: 1, MessageText: "a", MessageAuthorID: "U1", Status: models.StatusPending, PinnedAt: time.Now()},
		{ID: 2, MessageText: "b", MessageAuthorID: "U1", Status: models.StatusPending, PinnedAt: time.Now()},
	}

	blocks := formatPinsList(pins, 5, "*Your Pending Pins*", "empty", "footer text")
	require.Len(t, blocks, 5) // header, divider, two pins, footer

	assert.Contains(t, sectionText(t, blocks[0]), "*Your Pending Pins* (showing 2 of 5)")
	_, isDivider := blocks[1].(*slack.DividerBlock)
	assert.True(t, isDivider)
	_, isContext := blocks[4].(*slack.ContextBlock)
	assert.True(t, isContext)

	blocks = formatPinsList(nil, 0, "header", "*Nothing here.*", "")
	require.Len(t, blocks, 1)
	assert.Equal(t, "*Nothing here.*", sectionText(t, blocks[0]))
}

func TestFormatChannels(t *testing.T) {
	text := sectionText(t, formatChannels([]string{"general", "random"})[0])
	assert.Contains(t, text, "*Channels you have pins in* (2)")
	assert.Contains(t, text, "• #general")
	assert.Contains(t, text, "• #random")

	text = sectionText(t, formatChannels(nil)[0])
	assert.Contains(t, text, "don't have pins in any channel")
}

func sectionText(t *testing.T, block slack.Block) string {
	t.Helper()
	section, ok := block.(*slack.SectionBlock)
	require.True(t, ok, "block is not a section")
	return section.Text.Text
}
