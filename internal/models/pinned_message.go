package models

import "time"

// Pin status values
const (
	StatusPending = "pending"
	StatusDone    = "done"
)

// PinnedMessage is a chat message a user bookmarked as a personal task.
// The message snapshot fields are immutable after insert; only Status and
// the Notion sync fields change afterwards.
type PinnedMessage struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	MessageTS         string `gorm:"column:message_ts;uniqueIndex:idx_pin_identity;not null"`
	ChannelID         string `gorm:"uniqueIndex:idx_pin_identity;not null"`
	MessageText       string `gorm:"type:text;not null"`
	MessageAuthorID   string `gorm:"not null"`
	MessageAuthorName string
	PinnedByUserID    string `gorm:"uniqueIndex:idx_pin_identity;index;not null"`
	ChannelName       string
	Permalink         string
	PinnedAt          time.Time `gorm:"not null"`
	Status            string    `gorm:"index;not null;default:pending"`
	NotionPageID      string
	NotionSyncedAt    *time.Time
}

// TableName returns the table name for GORM
func (PinnedMessage) TableName() string {
	return "pinned_messages"
}

// Synced reports whether the pin already has a Notion page.
func (p *PinnedMessage) Synced() bool {
	return p.NotionPageID != ""
}
