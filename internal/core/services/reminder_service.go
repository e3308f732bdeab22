package services

import (
	"context"
	"errors"
	"time"

	"github.com/nutrack/nutrack-engine/internal/core/domain"
)

// A fixed-time slot fires when "now" is within this many minutes of
// the configured time, either side.
const fixedSlotToleranceMinutes = 15

// ReminderService decides which reminders are due for a user and
// dispatches them through the configured delivery transport, logging
// every attempt.
type ReminderService struct {
	configRepo domain.ReminderConfigRepository
	notifRepo  domain.NotificationRepository
	delivery   domain.Delivery
	clock      domain.Clock
}

func NewReminderService(configRepo domain.ReminderConfigRepository, notifRepo domain.NotificationRepository, delivery domain.Delivery, clock domain.Clock) *ReminderService {
	return &ReminderService{
		configRepo: configRepo,
		notifRepo:  notifRepo,
		delivery:   delivery,
		clock:      clock,
	}
}

// GetConfig returns the user's reminder configuration, creating and
// persisting the defaults on first access.
func (s *ReminderService) GetConfig(ctx context.Context, userID string) (*domain.ReminderConfig, error) {
	config, err := s.configRepo.GetByUserID(ctx, userID)
	if err == nil {
		return config, nil
	}
	if !errors.Is(err, domain.ErrConfigNotFound) {
		return nil, err
	}

	config = domain.DefaultReminderConfig(userID)
	if err := s.configRepo.Create(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

type UpdateConfigInput struct {
	UserID          string
	Enabled         *bool
	Slots           map[domain.ReminderCategory]domain.ReminderSlot
	QuietHoursStart *string
	QuietHoursEnd   *string
}

// UpdateConfig patches the stored configuration. Slots present in the
// input replace the stored slot for that category; absent slots are
// left untouched.
func (s *ReminderService) UpdateConfig(ctx context.Context, input UpdateConfigInput) (*domain.ReminderConfig, error) {
	config, err := s.GetConfig(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Enabled != nil {
		config.Enabled = *input.Enabled
	}
	if input.QuietHoursStart != nil {
		config.QuietHoursStart = *input.QuietHoursStart
	}
	if input.QuietHoursEnd != nil {
		config.QuietHoursEnd = *input.QuietHoursEnd
	}
	for cat, slot := range input.Slots {
		if err := config.SetSlot(cat, slot); err != nil {
			return nil, err
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	config.UpdatedAt = s.clock.Now().UTC()

	if err := s.configRepo.Update(ctx, config); err != nil {
		return nil, err
	}
	return config, nil
}

// EvaluateDue returns the reminders that should fire right now, in
// category order. Quiet hours suppress fixed-time slots only; the
// water interval keeps running through them.
func (s *ReminderService) EvaluateDue(ctx context.Context, userID string) ([]domain.DueReminder, error) {
	config, err := s.GetConfig(ctx, userID)
	if err != nil {
		return nil, err
	}

	due := []domain.DueReminder{}
	if !config.Enabled {
		return due, nil
	}

	now := s.clock.Now()
	nowMin := now.Hour()*60 + now.Minute()
	weekday := domain.SchedulerWeekday(now)
	quiet := config.InQuietHours(now)

	for _, cat := range config.Categories() {
		slot := config.Slots[cat]
		if !slot.Enabled {
			continue
		}

		if cat == domain.ReminderWater {
			ok, err := s.waterDue(ctx, userID, slot, now)
			if err != nil {
				return nil, err
			}
			if ok {
				due = append(due, buildReminder(cat, slot))
			}
			continue
		}

		if quiet || slot.Time == "" {
			continue
		}
		delta := nowMin - slot.MinutesOfDay()
		if delta < 0 {
			delta = -delta
		}
		if delta <= fixedSlotToleranceMinutes && slot.MatchesWeekday(weekday) {
			due = append(due, buildReminder(cat, slot))
		}
	}

	return due, nil
}

func (s *ReminderService) waterDue(ctx context.Context, userID string, slot domain.ReminderSlot, now time.Time) (bool, error) {
	if slot.IntervalMinutes <= 0 {
		return false, nil
	}

	last, err := s.notifRepo.LastByCategory(ctx, userID, domain.ReminderWater)
	if err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			return true, nil
		}
		return false, err
	}

	return now.Sub(last.SentAt) >= time.Duration(slot.IntervalMinutes)*time.Minute, nil
}

func buildReminder(cat domain.ReminderCategory, slot domain.ReminderSlot) domain.DueReminder {
	title, _ := cat.Title()
	message := slot.Message
	if message == "" {
		message, _ = cat.DefaultMessage()
	}
	return domain.DueReminder{Category: cat, Title: title, Message: message}
}

// Dispatch evaluates and sends everything that is due. A transport
// failure does not abort the batch; the entry is logged with
// Delivered=false and the next reminder still goes out.
func (s *ReminderService) Dispatch(ctx context.Context, userID string) ([]*domain.NotificationLogEntry, error) {
	due, err := s.EvaluateDue(ctx, userID)
	if err != nil {
		return nil, err
	}

	sent := make([]*domain.NotificationLogEntry, 0, len(due))
	for _, reminder := range due {
		metadata := map[string]string{"category": string(reminder.Category)}
		delivered := s.delivery.Send(ctx, userID, reminder.Title, reminder.Message, metadata)

		entry := domain.NewNotificationLogEntry(userID, reminder.Category, reminder.Title, reminder.Message, s.clock.Now(), delivered)
		entry.Metadata = metadata
		if err := s.notifRepo.Append(ctx, entry); err != nil {
			return sent, err
		}
		sent = append(sent, entry)
	}

	return sent, nil
}

func (s *ReminderService) History(ctx context.Context, userID string, category domain.ReminderCategory, limit int) ([]*domain.NotificationLogEntry, error) {
	if category != "" {
		if _, err := category.Title(); err != nil {
			return nil, err
		}
	}
	return s.notifRepo.ListByUserID(ctx, userID, category, limit)
}

func (s *ReminderService) MarkRead(ctx context.Context, userID string, ids []string) (int, error) {
	return s.notifRepo.MarkRead(ctx, userID, ids, s.clock.Now().UTC())
}

func (s *ReminderService) ClearHistory(ctx context.Context, userID string) (int, error) {
	return s.notifRepo.DeleteByUserID(ctx, userID)
}

// Stats summarizes the last 7 days of dispatch attempts.
func (s *ReminderService) Stats(ctx context.Context, userID string) (*domain.NotificationStats, error) {
	since := s.clock.Now().AddDate(0, 0, -7)
	entries, err := s.notifRepo.ListSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	stats := &domain.NotificationStats{
		ByCategory: make(map[domain.ReminderCategory]int),
		ByDay:      make(map[string]int),
	}

	for _, e := range entries {
		stats.TotalSent++
		if e.Delivered {
			stats.Delivered++
		}
		stats.ByCategory[e.Category]++
		stats.ByDay[e.SentAt.Format("2006-01-02")]++
	}

	if stats.TotalSent > 0 {
		stats.DeliveryRate = round1(float64(stats.Delivered) / float64(stats.TotalSent) * 100)
	}

	return stats, nil
}
