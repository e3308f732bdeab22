package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutrack/nutrack-engine/internal/core/domain"
)

func TestPostgresNotificationRepository_AppendAndQuery(t *testing.T) {
	requireDB(t)
	t.Parallel()

	repo := NewPostgresNotificationRepository(testDB)
	ctx := context.Background()

	t.Run("Should return the newest entry per category", func(t *testing.T) {
		t.Parallel()

		userID := uuid.NewString()
		base := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

		older := domain.NewNotificationLogEntry(userID, domain.ReminderWater, "Hydration", "drink", base, true)
		newer := domain.NewNotificationLogEntry(userID, domain.ReminderWater, "Hydration", "drink again", base.Add(2*time.Hour), true)
		if err := repo.Append(ctx, older); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if err := repo.Append(ctx, newer); err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		last, err := repo.LastByCategory(ctx, userID, domain.ReminderWater)
		if err != nil {
			t.Fatalf("LastByCategory failed: %v", err)
		}
		if last.ID != newer.ID {
			t.Errorf("Expected newest entry %s, got %s", newer.ID, last.ID)
		}
	})

	t.Run("Should return ErrNotificationNotFound with no history", func(t *testing.T) {
		t.Parallel()

		if _, err := repo.LastByCategory(ctx, uuid.NewString(), domain.ReminderWater); err != domain.ErrNotificationNotFound {
			t.Errorf("Expected ErrNotificationNotFound, got %v", err)
		}
	})

	t.Run("Should filter the list by category", func(t *testing.T) {
		t.Parallel()

		userID := uuid.NewString()
		now := time.Date(2026, 4, 11, 9, 0, 0, 0, time.UTC)

		_ = repo.Append(ctx, domain.NewNotificationLogEntry(userID, domain.ReminderWater, "Hydration", "m", now, true))
		_ = repo.Append(ctx, domain.NewNotificationLogEntry(userID, domain.ReminderBreakfast, "Meal", "m", now.Add(time.Minute), true))

		entries, err := repo.ListByUserID(ctx, userID, domain.ReminderBreakfast, 10)
		if err != nil {
			t.Fatalf("ListByUserID failed: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("Expected 1 entry, got %d", len(entries))
		}
		if entries[0].Category != domain.ReminderBreakfast {
			t.Errorf("Expected breakfast category, got %s", entries[0].Category)
		}
	})
}

func TestPostgresNotificationRepository_MarkReadAndClear(t *testing.T) {
	requireDB(t)
	t.Parallel()

	repo := NewPostgresNotificationRepository(testDB)
	ctx := context.Background()

	t.Run("Should only count unread matches", func(t *testing.T) {
		t.Parallel()

		userID := uuid.NewString()
		now := time.Date(2026, 4, 12, 9, 0, 0, 0, time.UTC)

		first := domain.NewNotificationLogEntry(userID, domain.ReminderWater, "Hydration", "m", now, true)
		second := domain.NewNotificationLogEntry(userID, domain.ReminderLunch, "Meal", "m", now.Add(time.Minute), true)
		if err := repo.Append(ctx, first); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
		if err := repo.Append(ctx, second); err != nil {
			t.Fatalf("Append failed: %v", err)
		}

		marked, err := repo.MarkRead(ctx, userID, []string{first.ID, second.ID, "ghost"}, now.Add(time.Hour))
		if err != nil {
			t.Fatalf("MarkRead failed: %v", err)
		}
		if marked != 2 {
			t.Errorf("Expected 2 marked, got %d", marked)
		}

		// A second pass finds nothing unread.
		marked, err = repo.MarkRead(ctx, userID, []string{first.ID, second.ID}, now.Add(2*time.Hour))
		if err != nil {
			t.Fatalf("MarkRead failed: %v", err)
		}
		if marked != 0 {
			t.Errorf("Expected 0 marked on second pass, got %d", marked)
		}
	})

	t.Run("Should delete only the user's log", func(t *testing.T) {
		t.Parallel()

		userID := uuid.NewString()
		otherID := uuid.NewString()
		now := time.Date(2026, 4, 13, 9, 0, 0, 0, time.UTC)

		_ = repo.Append(ctx, domain.NewNotificationLogEntry(userID, domain.ReminderWater, "Hydration", "m", now, true))
		_ = repo.Append(ctx, domain.NewNotificationLogEntry(otherID, domain.ReminderWater, "Hydration", "m", now, true))

		deleted, err := repo.DeleteByUserID(ctx, userID)
		if err != nil {
			t.Fatalf("DeleteByUserID failed: %v", err)
		}
		if deleted != 1 {
			t.Errorf("Expected 1 deleted, got %d", deleted)
		}

		remaining, err := repo.ListByUserID(ctx, otherID, "", 10)
		if err != nil {
			t.Fatalf("ListByUserID failed: %v", err)
		}
		if len(remaining) != 1 {
			t.Errorf("Other user's log should be untouched, got %d entries", len(remaining))
		}
	})
}
