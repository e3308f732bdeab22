package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nutrack/nutrack-engine/internal/core/domain"
)

// In-memory repositories backing unit tests and the zero-dependency
// dev mode. All of them guard their maps with a RWMutex; none of them
// copy stored values, matching the postgres implementations' pointer
// semantics closely enough for the services layer.

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	r.store[user.ID] = user
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[user.ID]; !ok {
		return domain.ErrUserNotFound
	}

	r.store[user.ID] = user
	return nil
}

type InMemoryFoodEntryRepository struct {
	store map[string]*domain.FoodEntry

	mu sync.RWMutex
}

func NewInMemoryFoodEntryRepository() *InMemoryFoodEntryRepository {
	return &InMemoryFoodEntryRepository{
		store: make(map[string]*domain.FoodEntry),
	}
}

func (r *InMemoryFoodEntryRepository) Create(ctx context.Context, entry *domain.FoodEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[entry.ID] = entry
	return nil
}

func (r *InMemoryFoodEntryRepository) GetByID(ctx context.Context, id string) (*domain.FoodEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.store[id]
	if !ok {
		return nil, domain.ErrFoodEntryNotFound
	}
	return entry, nil
}

func (r *InMemoryFoodEntryRepository) ListByUserID(ctx context.Context, userID string, from, to time.Time, limit int) ([]*domain.FoodEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*domain.FoodEntry
	for _, e := range r.store {
		if e.UserID == userID && !e.LoggedAt.Before(from) && !e.LoggedAt.After(to) {
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LoggedAt.After(entries[j].LoggedAt)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *InMemoryFoodEntryRepository) Update(ctx context.Context, entry *domain.FoodEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[entry.ID]; !ok {
		return domain.ErrFoodEntryNotFound
	}

	r.store[entry.ID] = entry
	return nil
}

func (r *InMemoryFoodEntryRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.store[id]
	if !ok || entry.UserID != userID {
		return domain.ErrFoodEntryNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryWaterEntryRepository struct {
	store map[string]*domain.WaterEntry

	mu sync.RWMutex
}

func NewInMemoryWaterEntryRepository() *InMemoryWaterEntryRepository {
	return &InMemoryWaterEntryRepository{
		store: make(map[string]*domain.WaterEntry),
	}
}

func (r *InMemoryWaterEntryRepository) Create(ctx context.Context, entry *domain.WaterEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[entry.ID] = entry
	return nil
}

func (r *InMemoryWaterEntryRepository) GetByID(ctx context.Context, id string) (*domain.WaterEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.store[id]
	if !ok {
		return nil, domain.ErrWaterEntryNotFound
	}
	return entry, nil
}

func (r *InMemoryWaterEntryRepository) ListByUserID(ctx context.Context, userID string, from, to time.Time, limit int) ([]*domain.WaterEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*domain.WaterEntry
	for _, e := range r.store {
		if e.UserID == userID && !e.LoggedAt.Before(from) && !e.LoggedAt.After(to) {
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LoggedAt.After(entries[j].LoggedAt)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *InMemoryWaterEntryRepository) Update(ctx context.Context, entry *domain.WaterEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[entry.ID]; !ok {
		return domain.ErrWaterEntryNotFound
	}

	r.store[entry.ID] = entry
	return nil
}

func (r *InMemoryWaterEntryRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.store[id]
	if !ok || entry.UserID != userID {
		return domain.ErrWaterEntryNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryDailyRecordRepository struct {
	store map[string]*domain.DailyRecord

	mu sync.RWMutex
}

func NewInMemoryDailyRecordRepository() *InMemoryDailyRecordRepository {
	return &InMemoryDailyRecordRepository{
		store: make(map[string]*domain.DailyRecord),
	}
}

func (r *InMemoryDailyRecordRepository) Upsert(ctx context.Context, record *domain.DailyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := domain.DayStart(record.Date)
	for _, existing := range r.store {
		if existing.UserID == record.UserID && domain.DayStart(existing.Date).Equal(day) {
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			r.store[existing.ID] = record
			return nil
		}
	}

	r.store[record.ID] = record
	return nil
}

func (r *InMemoryDailyRecordRepository) GetByID(ctx context.Context, id string) (*domain.DailyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.store[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return record, nil
}

func (r *InMemoryDailyRecordRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	day := domain.DayStart(date)
	for _, record := range r.store {
		if record.UserID == userID && domain.DayStart(record.Date).Equal(day) {
			return record, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *InMemoryDailyRecordRepository) ListByDateRange(ctx context.Context, userID string, from, to time.Time, limit int, asc bool) ([]*domain.DailyRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*domain.DailyRecord
	for _, record := range r.store {
		day := domain.DayStart(record.Date)
		if record.UserID == userID && !day.Before(from) && !day.After(to) {
			records = append(records, record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if asc {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].Date.After(records[j].Date)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (r *InMemoryDailyRecordRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.store[id]
	if !ok || record.UserID != userID {
		return domain.ErrRecordNotFound
	}

	delete(r.store, id)
	return nil
}

type InMemoryReminderConfigRepository struct {
	store map[string]*domain.ReminderConfig

	mu sync.RWMutex
}

func NewInMemoryReminderConfigRepository() *InMemoryReminderConfigRepository {
	return &InMemoryReminderConfigRepository{
		store: make(map[string]*domain.ReminderConfig),
	}
}

func (r *InMemoryReminderConfigRepository) Create(ctx context.Context, config *domain.ReminderConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[config.UserID] = config
	return nil
}

func (r *InMemoryReminderConfigRepository) GetByUserID(ctx context.Context, userID string) (*domain.ReminderConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	config, ok := r.store[userID]
	if !ok {
		return nil, domain.ErrConfigNotFound
	}
	return config, nil
}

func (r *InMemoryReminderConfigRepository) Update(ctx context.Context, config *domain.ReminderConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[config.UserID]; !ok {
		return domain.ErrConfigNotFound
	}

	r.store[config.UserID] = config
	return nil
}

type InMemoryNotificationRepository struct {
	entries []*domain.NotificationLogEntry

	mu sync.RWMutex
}

func NewInMemoryNotificationRepository() *InMemoryNotificationRepository {
	return &InMemoryNotificationRepository{}
}

func (r *InMemoryNotificationRepository) Append(ctx context.Context, entry *domain.NotificationLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	return nil
}

func (r *InMemoryNotificationRepository) LastByCategory(ctx context.Context, userID string, category domain.ReminderCategory) (*domain.NotificationLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last *domain.NotificationLogEntry
	for _, e := range r.entries {
		if e.UserID == userID && e.Category == category {
			if last == nil || e.SentAt.After(last.SentAt) {
				last = e
			}
		}
	}

	if last == nil {
		return nil, domain.ErrNotificationNotFound
	}
	return last, nil
}

func (r *InMemoryNotificationRepository) ListByUserID(ctx context.Context, userID string, category domain.ReminderCategory, limit int) ([]*domain.NotificationLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*domain.NotificationLogEntry
	for _, e := range r.entries {
		if e.UserID != userID {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SentAt.After(entries[j].SentAt)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (r *InMemoryNotificationRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*domain.NotificationLogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*domain.NotificationLogEntry
	for _, e := range r.entries {
		if e.UserID == userID && !e.SentAt.Before(since) {
			entries = append(entries, e)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SentAt.After(entries[j].SentAt)
	})

	return entries, nil
}

func (r *InMemoryNotificationRepository) MarkRead(ctx context.Context, userID string, ids []string, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	marked := 0
	for _, e := range r.entries {
		if e.UserID == userID && wanted[e.ID] && !e.IsRead {
			e.MarkRead(at)
			marked++
		}
	}
	return marked, nil
}

func (r *InMemoryNotificationRepository) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var kept []*domain.NotificationLogEntry
	deleted := 0
	for _, e := range r.entries {
		if e.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, e)
	}

	r.entries = kept
	return deleted, nil
}
