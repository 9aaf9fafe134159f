package database

import (
	"time"
)

// ArchivedMessage represents one archived group-chat message. The sender name
// is a snapshot taken at save time; later nickname changes do not update past
// records. Content may carry embedded image markup whose source has been
// rewritten to a local path by the image localizer.
type ArchivedMessage struct {
	ID        uint64    `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	Tag        string    `db:"tag"`
	GroupID    string    `db:"group_id"`
	SenderID   string    `db:"sender_id"`
	SenderName string    `db:"sender_name"`
	Content    string    `db:"content"`
	Timestamp  time.Time `db:"timestamp"`
}
