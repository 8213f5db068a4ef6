package handler

import (
	"context"
	"sync"

	"github.com/slack-go/slack/slackevents"

	"github.com/viennagloria/boss-task-tracker/internal/logger"
	"github.com/viennagloria/boss-task-tracker/internal/storage"
)

var pushpinReactions = map[string]bool{
	"pushpin":       true,
	"round_pushpin": true,
}

// HandleReactionAdded saves a message as a pin when someone reacts with a
// pushpin. Everything here is best-effort toward the platform: failures
// are logged, never returned to Slack.
func (h *Handler) HandleReactionAdded(ctx context.Context, ev *slackevents.ReactionAddedEvent) {
	if !pushpinReactions[ev.Reaction] {
		return
	}
	if ev.Item.Type != "message" {
		return
	}

	channelID := ev.Item.Channel
	messageTS := ev.Item.Timestamp
	pinnedByUserID := ev.User

	logger.Infof("Pushpin reaction from %s on message %s in %s", pinnedByUserID, messageTS, channelID)

	text, authorID, err := h.gateway.FetchMessage(ctx, channelID, messageTS)
	if err != nil || text == "" {
		logger.Errorf("Could not fetch message content for %s in %s", messageTS, channelID)
		return
	}

	// Permalink, author name and channel name are independent read-only
	// lookups; fetch them concurrently, then insert.
	var permalink, authorName, channelName string
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		permalink = h.gateway.GetPermalink(ctx, channelID, messageTS)
	}()
	go func() {
		defer wg.Done()
		authorName = h.gateway.GetUserDisplayName(ctx, authorID)
	}()
	go func() {
		defer wg.Done()
		channelName = h.gateway.GetChannelName(ctx, channelID)
	}()
	wg.Wait()

	pin, err := h.pins.Insert(storage.InsertPin{
		MessageTS:         messageTS,
		ChannelID:         channelID,
		MessageText:       text,
		MessageAuthorID:   authorID,
		MessageAuthorName: authorName,
		PinnedByUserID:    pinnedByUserID,
		ChannelName:       channelName,
		Permalink:         permalink,
	})
	if err != nil {
		logger.Errorf("Error saving pin: %v", err)
		return
	}
	if pin == nil {
		logger.Infof("Message %s already pinned by %s", messageTS, pinnedByUserID)
		return
	}

	logger.Infof("Pinned message saved with id %d", pin.ID)
	h.gateway.AddReaction(ctx, channelID, messageTS, "white_check_mark")

	if !h.syncEnabled() {
		return
	}

	result := h.syncer.SyncPin(ctx, pin)
	if !result.Success {
		logger.Warningf("Notion sync failed for pin %d: %s", pin.ID, result.Err)
		return
	}
	if err := h.pins.UpdateNotionSync(pin.ID, result.PageID); err != nil {
		logger.Errorf("Error recording Notion page for pin %d: %v", pin.ID, err)
		return
	}
	h.gateway.AddReaction(ctx, channelID, messageTS, "memo")
}
