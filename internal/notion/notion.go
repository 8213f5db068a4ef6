package notion

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/viennagloria/boss-task-tracker/internal/config"
	"github.com/viennagloria/boss-task-tracker/internal/logger"
	"github.com/viennagloria/boss-task-tracker/internal/models"
)

// Notion caps titles at 2000 chars; keep them far shorter for readability.
const maxTitleLen = 100

// TaskResult is the outcome of one sync attempt. Failures are carried as a
// value, never raised past the sync boundary.
type TaskResult struct {
	Success bool
	PageID  string
	Err     string
}

// Service pushes pins into a Notion database. A nil *Service means the
// integration is not configured; all methods are nil-safe.
type Service struct {
	client     *notionapi.Client
	databaseID string
}

// NewService builds the sync bridge, or nil when Notion credentials are absent.
func NewService(cfg *config.Config) *Service {
	if !cfg.NotionEnabled() {
		return nil
	}
	return &Service{
		client:     notionapi.NewClient(notionapi.Token(cfg.Notion.Token)),
		databaseID: cfg.Notion.DatabaseID,
	}
}

// Enabled reports whether sync is configured.
func (s *Service) Enabled() bool {
	return s != nil
}

// SyncPin creates a Notion task for the pin unless one already exists.
// Syncing an already-synced pin is a no-op success carrying the original
// page id; no second external call is made.
func (s *Service) SyncPin(ctx context.Context, pin *models.PinnedMessage) TaskResult {
	if pin.Synced() {
		return TaskResult{Success: true, PageID: pin.NotionPageID}
	}
	return s.CreateTask(ctx, pin)
}

// CreateTask creates the Notion page for a pin: truncated title, author,
// channel and pin date properties, plus the full message text and a source
// link as page content.
func (s *Service) CreateTask(ctx context.Context, pin *models.PinnedMessage) TaskResult {
	if !s.Enabled() {
		return TaskResult{Err: "Notion not configured"}
	}

	title := pin.MessageText
	if runes := []rune(title); len(runes) > maxTitleLen {
		title = string(runes[:maxTitleLen-3]) + "..."
	}

	authorDisplay := pin.MessageAuthorName
	if authorDisplay == "" {
		authorDisplay = fmt.Sprintf("User %s", pin.MessageAuthorID)
	}
	channelDisplay := pin.ChannelName
	if channelDisplay == "" {
		channelDisplay = fmt.Sprintf("Channel %s", pin.ChannelID)
	}
	pinnedDate := notionapi.Date(pin.PinnedAt)

	properties := notionapi.Properties{
		"Name": notionapi.TitleProperty{
			Title: []notionapi.RichText{{Text: &notionapi.Text{Content: title}}},
		},
		"Author": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: authorDisplay}}},
		},
		"Channel": notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: channelDisplay}}},
		},
		"Pinned Date": notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &pinnedDate},
		},
	}
	if pin.Permalink != "" {
		properties["Source"] = notionapi.URLProperty{URL: pin.Permalink}
	}

	children := []notionapi.Block{
		notionapi.ParagraphBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeParagraph,
			},
			Paragraph: notionapi.Paragraph{
				RichText: []notionapi.RichText{{Text: &notionapi.Text{Content: pin.MessageText}}},
			},
		},
	}
	if pin.Permalink != "" {
		children = append(children, notionapi.ParagraphBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeParagraph,
			},
			Paragraph: notionapi.Paragraph{
				RichText: []notionapi.RichText{{
					Text: &notionapi.Text{
						Content: "View in Slack",
						Link:    &notionapi.Link{Url: pin.Permalink},
					},
				}},
			},
		})
	}

	page, err := s.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(s.databaseID),
		},
		Properties: properties,
		Children:   children,
	})
	if err != nil {
		logger.Errorf("Error creating Notion task for pin %d: %v", pin.ID, err)
		return TaskResult{Err: err.Error()}
	}

	return TaskResult{Success: true, PageID: string(page.ID)}
}
