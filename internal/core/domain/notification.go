package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

// NotificationLogEntry is the append-only record of a notification
// that was actually dispatched. It is the sole source of truth for
// "has this already fired recently" (the water interval check).
type NotificationLogEntry struct {
	ID        string            `json:"id" db:"id"`
	UserID    string            `json:"user_id" db:"user_id"`
	Category  ReminderCategory  `json:"category" db:"category"`
	Title     string            `json:"title" db:"title"`
	Message   string            `json:"message" db:"message"`
	SentAt    time.Time         `json:"sent_at" db:"sent_at"`
	Delivered bool              `json:"delivered" db:"delivered"`
	IsRead    bool              `json:"is_read" db:"is_read"`
	ReadAt    *time.Time        `json:"read_at,omitempty" db:"read_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func NewNotificationLogEntry(userID string, category ReminderCategory, title, message string, sentAt time.Time, delivered bool) *NotificationLogEntry {
	return &NotificationLogEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Category:  category,
		Title:     title,
		Message:   message,
		SentAt:    sentAt.UTC(),
		Delivered: delivered,
	}
}

func (n *NotificationLogEntry) MarkRead(at time.Time) {
	if n.IsRead {
		return
	}
	n.IsRead = true
	t := at.UTC()
	n.ReadAt = &t
}

// DueReminder is one scheduler decision: a category whose trigger
// condition is satisfied right now.
type DueReminder struct {
	Category ReminderCategory `json:"category"`
	Title    string           `json:"title"`
	Message  string           `json:"message"`
}

// NotificationStats is the per-user delivery rollup for a recent window.
type NotificationStats struct {
	TotalSent    int                      `json:"total_sent"`
	Delivered    int                      `json:"delivered"`
	DeliveryRate float64                  `json:"delivery_rate"`
	ByCategory   map[ReminderCategory]int `json:"by_category"`
	ByDay        map[string]int           `json:"by_day"`
}
