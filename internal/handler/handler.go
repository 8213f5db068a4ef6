package handler

import (
	"context"

	"github.com/viennagloria/boss-task-tracker/internal/models"
	"github.com/viennagloria/boss-task-tracker/internal/notion"
	"github.com/viennagloria/boss-task-tracker/internal/storage"
)

// SlackGateway is the slice of the Slack Web API the handlers need.
// Implemented by bot.Gateway; faked in tests.
type SlackGateway interface {
	FetchMessage(ctx context.Context, channelID, messageTS string) (text, authorID string, err error)
	GetPermalink(ctx context.Context, channelID, messageTS string) string
	GetUserDisplayName(ctx context.Context, userID string) string
	GetChannelName(ctx context.Context, channelID string) string
	AddReaction(ctx context.Context, channelID, messageTS, emoji string)
}

// TaskSyncer pushes pins to the external note service. Implemented by
// notion.Service, whose nil value reports Enabled() == false.
type TaskSyncer interface {
	Enabled() bool
	SyncPin(ctx context.Context, pin *models.PinnedMessage) notion.TaskResult
}

// Handler processes reaction events and slash commands against the pin store.
type Handler struct {
	pins    *storage.PinRepository
	gateway SlackGateway
	syncer  TaskSyncer
}

// New creates a Handler. syncer may be a nil *notion.Service when the
// integration is not configured.
func New(pins *storage.PinRepository, gateway SlackGateway, syncer TaskSyncer) *Handler {
	return &Handler{
		pins:    pins,
		gateway: gateway,
		syncer:  syncer,
	}
}

func (h *Handler) syncEnabled() bool {
	return h.syncer != nil && h.syncer.Enabled()
}
