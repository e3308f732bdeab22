package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
}

type FoodEntryRepository interface {
	Create(ctx context.Context, entry *FoodEntry) error
	GetByID(ctx context.Context, id string) (*FoodEntry, error)

	// ListByUserID returns entries whose logged timestamp falls inside
	// [from, to], newest first.
	ListByUserID(ctx context.Context, userID string, from, to time.Time, limit int) ([]*FoodEntry, error)

	Update(ctx context.Context, entry *FoodEntry) error
	Delete(ctx context.Context, id string, userID string) error
}

type WaterEntryRepository interface {
	Create(ctx context.Context, entry *WaterEntry) error
	GetByID(ctx context.Context, id string) (*WaterEntry, error)
	ListByUserID(ctx context.Context, userID string, from, to time.Time, limit int) ([]*WaterEntry, error)
	Update(ctx context.Context, entry *WaterEntry) error
	Delete(ctx context.Context, id string, userID string) error
}

type DailyRecordRepository interface {
	// Upsert persists the record, replacing any existing row for the
	// same (user, date). Implementations must be atomic per (user, date).
	Upsert(ctx context.Context, record *DailyRecord) error

	GetByID(ctx context.Context, id string) (*DailyRecord, error)
	GetByDate(ctx context.Context, userID string, date time.Time) (*DailyRecord, error)

	// ListByDateRange returns records with date in [from, to].
	// Ascending date order when asc is true, otherwise descending.
	ListByDateRange(ctx context.Context, userID string, from, to time.Time, limit int, asc bool) ([]*DailyRecord, error)

	Delete(ctx context.Context, id string, userID string) error
}

type ReminderConfigRepository interface {
	Create(ctx context.Context, config *ReminderConfig) error
	GetByUserID(ctx context.Context, userID string) (*ReminderConfig, error)
	Update(ctx context.Context, config *ReminderConfig) error
}

type NotificationRepository interface {
	// Append persists a new log entry. Entries are immutable except
	// for the read state.
	Append(ctx context.Context, entry *NotificationLogEntry) error

	// LastByCategory returns the most recently sent entry for the
	// category, or ErrNotificationNotFound when none exists.
	LastByCategory(ctx context.Context, userID string, category ReminderCategory) (*NotificationLogEntry, error)

	// ListByUserID returns recent entries newest first, optionally
	// filtered by category ("" means all).
	ListByUserID(ctx context.Context, userID string, category ReminderCategory, limit int) ([]*NotificationLogEntry, error)

	ListSince(ctx context.Context, userID string, since time.Time) ([]*NotificationLogEntry, error)
	MarkRead(ctx context.Context, userID string, ids []string, at time.Time) (int, error)
	DeleteByUserID(ctx context.Context, userID string) (int, error)
}

// Delivery pushes a notification to the user through whatever
// transport is wired in. A false return means the transport failed;
// the scheduling decision stands either way.
type Delivery interface {
	Send(ctx context.Context, userID, title, message string, metadata map[string]string) bool
}

// Clock abstracts wall-clock reads so scheduler and advice tests can
// pin "now".
type Clock interface {
	Now() time.Time
}

// RandomSource abstracts the advice engine's message selection so
// tests can make it deterministic.
type RandomSource interface {
	// Choice returns an index in [0, n). n is always >= 1.
	Choice(n int) int
}
