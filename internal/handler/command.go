package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/slack-go/slack"

	"github.com/viennagloria/boss-task-tracker/internal/logger"
	"github.com/viennagloria/boss-task-tracker/internal/models"
	"github.com/viennagloria/boss-task-tracker/internal/storage"
)

const (
	defaultPageSize = 10
	fullPageSize    = 50
)

type commandKind int

const (
	cmdDefault commandKind = iota
	cmdAll
	cmdDone
	cmdSearch
	cmdComplete
	cmdDelete
	cmdChannel
	cmdChannels
	cmdSync
	cmdHelp
)

type command struct {
	kind commandKind
	arg  string
}

// parseCommand tokenizes a /pins command line. The first token selects the
// subcommand; anything unrecognized falls through to the default view.
func parseCommand(text string) command {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return command{kind: cmdDefault}
	}

	arg := strings.Join(fields[1:], " ")

	switch strings.ToLower(fields[0]) {
	case "all":
		return command{kind: cmdAll}
	case "done":
		return command{kind: cmdDone}
	case "search":
		if arg == "" {
			return command{kind: cmdDefault}
		}
		return command{kind: cmdSearch, arg: arg}
	case "complete":
		return command{kind: cmdComplete, arg: arg}
	case "delete":
		return command{kind: cmdDelete, arg: arg}
	case "channel":
		return command{kind: cmdChannel, arg: arg}
	case "channels":
		return command{kind: cmdChannels}
	case "sync":
		return command{kind: cmdSync}
	case "help":
		return command{kind: cmdHelp}
	default:
		return command{kind: cmdDefault}
	}
}

// HandleCommand executes one /pins command line for a user and renders the
// ephemeral response. Repository failures never escape: they are logged
// and turned into a generic apology so the bot keeps serving commands.
func (h *Handler) HandleCommand(ctx context.Context, userID, text string) *slack.WebhookMessage {
	msg, err := h.runCommand(ctx, userID, parseCommand(text))
	if err != nil {
		logger.Errorf("Error handling /pins command %q from %s: %v", text, userID, err)
		return ephemeralText("Something went wrong. Please try again.")
	}
	return msg
}

func (h *Handler) runCommand(ctx context.Context, userID string, cmd command) (*slack.WebhookMessage, error) {
	switch cmd.kind {
	case cmdAll:
		return h.listPins(userID, fullPageSize, storage.Filter{},
			"*All Your Pins*", "*You don't have any pinned messages yet.*\n\nReact to a message with :pushpin: to save it!", "")
	case cmdDone:
		return h.listPins(userID, fullPageSize, storage.Filter{Status: models.StatusDone},
			"*Your Completed Pins*", "*No completed pins yet.*\n\nUse `/pins complete <id>` to mark one done.", "")
	case cmdSearch:
		return h.searchPins(userID, cmd.arg)
	case cmdComplete:
		return h.completePin(userID, cmd.arg)
	case cmdDelete:
		return h.deletePin(userID, cmd.arg)
	case cmdChannel:
		if cmd.arg == "" {
			return ephemeralText("Usage: `/pins channel <name>`"), nil
		}
		name := strings.TrimPrefix(cmd.arg, "#")
		return h.listPins(userID, fullPageSize, storage.Filter{ChannelName: name},
			fmt.Sprintf("*Pins from #%s*", name), fmt.Sprintf("*No pins from #%s.*", name), "")
	case cmdChannels:
		return h.listChannels(userID)
	case cmdSync:
		return h.syncAll(ctx, userID)
	case cmdHelp:
		return ephemeralBlocks(helpBlocks()), nil
	default:
		return h.listPins(userID, defaultPageSize, storage.Filter{Status: models.StatusPending},
			"*Your Pending Pins*", "*You don't have any pending pins.*\n\nReact to a message with :pushpin: to save it!",
			"Use `/pins all`, `/pins done`, `/pins search <query>`, `/pins channels` or `/pins help`.")
	}
}

func (h *Handler) listPins(userID string, pageSize int, f storage.Filter, header, emptyText, footer string) (*slack.WebhookMessage, error) {
	pins, err := h.pins.ListByUser(userID, pageSize, 0, f)
	if err != nil {
		return nil, err
	}
	total, err := h.pins.CountByUser(userID, f)
	if err != nil {
		return nil, err
	}
	return ephemeralBlocks(formatPinsList(pins, total, header, emptyText, footer)), nil
}

func (h *Handler) searchPins(userID, query string) (*slack.WebhookMessage, error) {
	pins, err := h.pins.Search(userID, query)
	if err != nil {
		return nil, err
	}
	return ephemeralBlocks(formatSearchResults(pins, query)), nil
}

func (h *Handler) completePin(userID, arg string) (*slack.WebhookMessage, error) {
	id, ok := parsePinID(arg)
	if !ok {
		return ephemeralText(fmt.Sprintf("`%s` is not a pin id. Usage: `/pins complete <id>`", arg)), nil
	}

	updated, err := h.pins.UpdateStatus(userID, id, models.StatusDone)
	if err != nil {
		return nil, err
	}
	if !updated {
		return ephemeralText(fmt.Sprintf("Pin %d not found.", id)), nil
	}
	return ephemeralText(fmt.Sprintf(":white_check_mark: Pin %d marked as done.", id)), nil
}

func (h *Handler) deletePin(userID, arg string) (*slack.WebhookMessage, error) {
	id, ok := parsePinID(arg)
	if !ok {
		return ephemeralText(fmt.Sprintf("`%s` is not a pin id. Usage: `/pins delete <id>`", arg)), nil
	}

	deleted, err := h.pins.Delete(userID, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return ephemeralText(fmt.Sprintf("Pin %d not found.", id)), nil
	}
	return ephemeralText(fmt.Sprintf("Pin %d deleted.", id)), nil
}

func (h *Handler) listChannels(userID string) (*slack.WebhookMessage, error) {
	channels, err := h.pins.DistinctChannels(userID)
	if err != nil {
		return nil, err
	}
	return ephemeralBlocks(formatChannels(channels)), nil
}

// syncAll pushes every unsynced pin to Notion, one at a time. A failed pin
// does not abort the run; it stays unsynced and counts toward the tally.
func (h *Handler) syncAll(ctx context.Context, userID string) (*slack.WebhookMessage, error) {
	if !h.syncEnabled() {
		return ephemeralText("Notion sync is not configured."), nil
	}

	pins, err := h.pins.ListUnsynced(userID)
	if err != nil {
		return nil, err
	}
	if len(pins) == 0 {
		return ephemeralText("All your pins are already synced."), nil
	}

	synced, failed := 0, 0
	for i := range pins {
		pin := &pins[i]
		result := h.syncer.SyncPin(ctx, pin)
		if !result.Success {
			logger.Warningf("Notion sync failed for pin %d: %s", pin.ID, result.Err)
			failed++
			continue
		}
		if err := h.pins.UpdateNotionSync(pin.ID, result.PageID); err != nil {
			logger.Errorf("Error recording Notion page for pin %d: %v", pin.ID, err)
			failed++
			continue
		}
		h.gateway.AddReaction(ctx, pin.ChannelID, pin.MessageTS, "memo")
		synced++
	}

	return ephemeralText(fmt.Sprintf("Synced %d pin(s) to Notion, %d failed.", synced, failed)), nil
}

func parsePinID(arg string) (uint, bool) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func ephemeralText(text string) *slack.WebhookMessage {
	return &slack.WebhookMessage{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         text,
	}
}

func ephemeralBlocks(blocks []slack.Block) *slack.WebhookMessage {
	return &slack.WebhookMessage{
		ResponseType: slack.ResponseTypeEphemeral,
		Blocks:       &slack.Blocks{BlockSet: blocks},
	}
}
