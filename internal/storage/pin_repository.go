package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/viennagloria/boss-task-tracker/internal/models"
)

// searchLimit caps substring search results; search is not paginated.
const searchLimit = 20

// InsertPin carries the message snapshot captured at pin time.
type InsertPin struct {
	MessageTS         string
	ChannelID         string
	MessageText       string
	MessageAuthorID   string
	MessageAuthorName string
	PinnedByUserID    string
	ChannelName       string
	Permalink         string
}

// Filter narrows list and count queries. Zero values mean "no filter".
type Filter struct {
	Status      string
	ChannelName string
}

// PinRepository handles database operations for PinnedMessage. Every read,
// update and delete is scoped to the owning user; one user can never
// observe or mutate another user's pins.
type PinRepository struct {
	db *gorm.DB
}

// NewPinRepository creates a new PinRepository
func NewPinRepository(db *gorm.DB) *PinRepository {
	return &PinRepository{db: db}
}

// Insert stores a new pin with status pending. When the same user already
// pinned the same message (message_ts, channel_id, pinned_by_user_id), it
// returns (nil, nil): "already pinned" is informational, not an error.
func (r *PinRepository) Insert(data InsertPin) (*models.PinnedMessage, error) {
	var existing models.PinnedMessage
	err := r.db.
		Where("message_ts = ? AND channel_id = ? AND pinned_by_user_id = ?",
			data.MessageTS, data.ChannelID, data.PinnedByUserID).
		First(&existing).Error
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing pin: %w", err)
	}

	pin := models.PinnedMessage{
		MessageTS:         data.MessageTS,
		ChannelID:         data.ChannelID,
		MessageText:       data.MessageText,
		MessageAuthorID:   data.MessageAuthorID,
		MessageAuthorName: data.MessageAuthorName,
		PinnedByUserID:    data.PinnedByUserID,
		ChannelName:       data.ChannelName,
		Permalink:         data.Permalink,
		PinnedAt:          time.Now(),
		Status:            models.StatusPending,
	}
	if err := r.db.Create(&pin).Error; err != nil {
		return nil, fmt.Errorf("failed to insert pin: %w", err)
	}

	return &pin, nil
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ChannelName != "" {
		q = q.Where("channel_name = ?", f.ChannelName)
	}
	return q
}

// ListByUser returns the user's pins, most recently pinned first,
// optionally filtered by status and/or exact channel name.
func (r *PinRepository) ListByUser(userID string, limit, offset int, f Filter) ([]models.PinnedMessage, error) {
	var pins []models.PinnedMessage
	q := applyFilter(r.db.Where("pinned_by_user_id = ?", userID), f)
	result := q.Order("pinned_at DESC").Limit(limit).Offset(offset).Find(&pins)
	return pins, result.Error
}

// Search does a case-insensitive substring match over message text,
// channel name and author name, capped at 20 results.
func (r *PinRepository) Search(userID, query string) ([]models.PinnedMessage, error) {
	var pins []models.PinnedMessage
	pattern := "%" + strings.ToLower(query) + "%"
	result := r.db.
		Where("pinned_by_user_id = ?", userID).
		Where("LOWER(message_text) LIKE ? OR LOWER(channel_name) LIKE ? OR LOWER(message_author_name) LIKE ?",
			pattern, pattern, pattern).
		Order("pinned_at DESC").
		Limit(searchLimit).
		Find(&pins)
	return pins, result.Error
}

// CountByUser counts the user's pins under the same filter semantics as ListByUser.
func (r *PinRepository) CountByUser(userID string, f Filter) (int64, error) {
	var count int64
	q := applyFilter(r.db.Model(&models.PinnedMessage{}).Where("pinned_by_user_id = ?", userID), f)
	result := q.Count(&count)
	return count, result.Error
}

// GetByID returns the pin with the given id if it is owned by the user,
// nil otherwise.
func (r *PinRepository) GetByID(userID string, id uint) (*models.PinnedMessage, error) {
	var pin models.PinnedMessage
	err := r.db.Where("id = ? AND pinned_by_user_id = ?", id, userID).First(&pin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pin, nil
}

// UpdateStatus sets the pin's status. Returns false when the pin does not
// exist or belongs to another user.
func (r *PinRepository) UpdateStatus(userID string, id uint, status string) (bool, error) {
	pin, err := r.GetByID(userID, id)
	if err != nil {
		return false, err
	}
	if pin == nil {
		return false, nil
	}

	err = r.db.Model(pin).Update("status", status).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// Delete hard-deletes the pin. Returns false when the pin does not exist
// or belongs to another user.
func (r *PinRepository) Delete(userID string, id uint) (bool, error) {
	pin, err := r.GetByID(userID, id)
	if err != nil {
		return false, err
	}
	if pin == nil {
		return false, nil
	}

	err = r.db.Delete(pin).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

// DistinctChannels lists the channel names the user has pins in.
func (r *PinRepository) DistinctChannels(userID string) ([]string, error) {
	var channels []string
	result := r.db.Model(&models.PinnedMessage{}).
		Where("pinned_by_user_id = ? AND channel_name <> ''", userID).
		Distinct().
		Order("channel_name").
		Pluck("channel_name", &channels)
	return channels, result.Error
}

// ListUnsynced returns the user's pins that have no Notion page yet,
// oldest first so bulk sync replays them in pin order.
func (r *PinRepository) ListUnsynced(userID string) ([]models.PinnedMessage, error) {
	var pins []models.PinnedMessage
	result := r.db.
		Where("pinned_by_user_id = ?", userID).
		Where("notion_page_id IS NULL OR notion_page_id = ''").
		Order("pinned_at ASC").
		Find(&pins)
	return pins, result.Error
}

// UpdateNotionSync records the Notion page created for a pin. A page id,
// once set, is never overwritten by a later sync.
func (r *PinRepository) UpdateNotionSync(id uint, pageID string) error {
	now := time.Now()
	return r.db.Model(&models.PinnedMessage{}).
		Where("id = ?", id).
		Where("notion_page_id IS NULL OR notion_page_id = ''").
		Updates(map[string]interface{}{
			"notion_page_id":   pageID,
			"notion_synced_at": &now,
		}).Error
}
