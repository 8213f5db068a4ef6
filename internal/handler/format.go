package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/viennagloria/boss-task-tracker/internal/models"
)

// previewMaxLen caps the message preview in a formatted pin entry.
const previewMaxLen = 200

func formatPinsList(pins []models.PinnedMessage, total int64, header, emptyText, footer string) []slack.Block {
	if len(pins) == 0 {
		return []slack.Block{markdownSection(emptyText)}
	}

	blocks := []slack.Block{
		markdownSection(fmt.Sprintf("%s (showing %d of %d)", header, len(pins), total)),
		slack.NewDividerBlock(),
	}
	for i := range pins {
		blocks = append(blocks, formatPinBlock(&pins[i]))
	}

	if footer != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, footer, false, false)))
	}

	return blocks
}

func formatSearchResults(pins []models.PinnedMessage, query string) []slack.Block {
	if len(pins) == 0 {
		return []slack.Block{markdownSection(fmt.Sprintf("*No pins found matching \"%s\"*", query))}
	}

	blocks := []slack.Block{
		markdownSection(fmt.Sprintf("*Search Results for \"%s\"* (%d found)", query, len(pins))),
		slack.NewDividerBlock(),
	}
	for i := range pins {
		blocks = append(blocks, formatPinBlock(&pins[i]))
	}

	return blocks
}

func formatChannels(channels []string) []slack.Block {
	if len(channels) == 0 {
		return []slack.Block{markdownSection("*You don't have pins in any channel yet.*")}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Channels you have pins in* (%d)\n", len(channels)))
	for _, name := range channels {
		sb.WriteString(fmt.Sprintf("• #%s\n", name))
	}
	sb.WriteString("\nUse `/pins channel <name>` to list pins from one channel.")

	return []slack.Block{markdownSection(sb.String())}
}

func helpBlocks() []slack.Block {
	help := strings.Join([]string{
		"*Boss Task Tracker* — react to any message with :pushpin: to save it as a task.",
		"`/pins` — your pending pins",
		"`/pins all` — all your pins",
		"`/pins done` — completed pins",
		"`/pins search <query>` — search your pins",
		"`/pins complete <id>` — mark a pin done",
		"`/pins delete <id>` — delete a pin",
		"`/pins channel <name>` — pins from one channel",
		"`/pins channels` — channels you have pins in",
		"`/pins sync` — push unsynced pins to Notion",
	}, "\n")

	return []slack.Block{markdownSection(help)}
}

// formatPinBlock renders one pin as a section block: id, status icon,
// author, channel, a truncated preview, the permalink and a relative date.
func formatPinBlock(pin *models.PinnedMessage) slack.Block {
	authorDisplay := fmt.Sprintf("<@%s>", pin.MessageAuthorID)
	if pin.MessageAuthorName != "" {
		authorDisplay = "@" + pin.MessageAuthorName
	}

	channelDisplay := "a channel"
	if pin.ChannelName != "" {
		channelDisplay = "#" + pin.ChannelName
	}

	statusIcon := ":pushpin:"
	if pin.Status == models.StatusDone {
		statusIcon = ":white_check_mark:"
	}

	preview := truncateText(pin.MessageText, previewMaxLen)

	meta := fmt.Sprintf("Pinned %s", relativeDate(pin.PinnedAt, time.Now()))
	if pin.Permalink != "" {
		meta = fmt.Sprintf("<%s|View in Slack> • %s", pin.Permalink, meta)
	}

	text := fmt.Sprintf("`#%d` %s *From %s in %s*\n> %s\n%s",
		pin.ID, statusIcon, authorDisplay, channelDisplay, preview, meta)

	return markdownSection(text)
}

func markdownSection(text string) slack.Block {
	return slack.NewSectionBlock(
		slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil)
}

// truncateText cuts s to max runes and appends an ellipsis when it was longer.
func truncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// relativeDate renders a pin date relative to now: Today, Yesterday,
// "N days ago" within a week, otherwise "Jan 2".
func relativeDate(t, now time.Time) string {
	ty, tm, td := t.Date()
	ny, nm, nd := now.Date()
	day := time.Date(ty, tm, td, 0, 0, 0, 0, t.Location())
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, now.Location())

	switch days := int(today.Sub(day).Hours() / 24); {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("Jan 2")
	}
}
