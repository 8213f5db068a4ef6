package handler

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"

	"github.com/viennagloria/boss-task-tracker/internal/models"
	"github.com/viennagloria/boss-task-tracker/internal/notion"
	"github.com/viennagloria/boss-task-tracker/internal/storage"
)

// fakeGateway serves canned Slack lookups and records added reactions.
type fakeGateway struct {
	messageText string
	authorID    string
	fetchErr    error
	permalink   string
	authorName  string
	channelName string

	reactions []string
}

func (g *fakeGateway) FetchMessage(ctx context.Context, channelID, messageTS string) (string, string, error) {
	return g.messageText, g.authorID, g.fetchErr
}

func (g *fakeGateway) GetPermalink(ctx context.Context, channelID, messageTS string) string {
	return g.permalink
}

func (g *fakeGateway) GetUserDisplayName(ctx context.Context, userID string) string {
	return g.authorName
}

func (g *fakeGateway) GetChannelName(ctx context.Context, channelID string) string {
	return g.channelName
}

func (g *fakeGateway) AddReaction(ctx context.Context, channelID, messageTS, emoji string) {
	g.reactions = append(g.reactions, emoji)
}

// fakeSyncer succeeds with a synthetic page id unless a pin id is listed
// in failures.
type fakeSyncer struct {
	failures map[uint]string
	calls    int
}

func (s *fakeSyncer) Enabled() bool { return true }

func (s *fakeSyncer) SyncPin(ctx context.Context, pin *models.PinnedMessage) notion.TaskResult {
	s.calls++
	if pin.Synced() {
		return notion.TaskResult{Success: true, PageID: pin.NotionPageID}
	}
	if msg, ok := s.failures[pin.ID]; ok {
		return notion.TaskResult{Err: msg}
	}
	return notion.TaskResult{Success: true, PageID: fmt.Sprintf("page-%d", pin.ID)}
}

func newTestRepo(t *testing.T) *storage.PinRepository {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "pins.db"), "ERROR")
	require.NoError(t, err)
	return storage.NewPinRepository(db)
}

func seedPin(t *testing.T, repo *storage.PinRepository, ts, channel, user string) *models.PinnedMessage {
	t.Helper()
	pin, err := repo.Insert(storage.InsertPin{
		MessageTS:         ts,
		ChannelID:         channel,
		MessageText:       "message " + ts,
		MessageAuthorID:   "UAUTHOR",
		MessageAuthorName: "alice",
		PinnedByUserID:    user,
		ChannelName:       "general",
		Permalink:         "https://example.slack.com/archives/" + channel + "/p" + ts,
	})
	require.NoError(t, err)
	require.NotNil(t, pin)
	return pin
}

// firstBlockText pulls the markdown text out of the first section block of
// a webhook message.
func firstBlockText(t *testing.T, msg *slack.WebhookMessage) string {
	t.Helper()
	require.NotNil(t, msg.Blocks)
	require.NotEmpty(t, msg.Blocks.BlockSet)
	section, ok := msg.Blocks.BlockSet[0].(*slack.SectionBlock)
	require.True(t, ok, "first block is not a section")
	return section.Text.Text
}
