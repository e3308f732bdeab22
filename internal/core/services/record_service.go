package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nutrack/nutrack-engine/internal/core/domain"
)

// RecordService reconciles daily records: get-or-create per
// (user, date), wholesale health replacement, additive activity merge
// and a full nutrition recompute on every write.
type RecordService struct {
	repo       domain.DailyRecordRepository
	aggregator *Aggregator

	// Serializes concurrent upserts for the same (user, date) so the
	// one-record-per-day invariant holds even before the storage
	// layer's own upsert kicks in.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewRecordService(repo domain.DailyRecordRepository, aggregator *Aggregator) *RecordService {
	return &RecordService{
		repo:       repo,
		aggregator: aggregator,
		locks:      make(map[string]*sync.Mutex),
	}
}

type UpsertRecordInput struct {
	UserID   string
	Date     time.Time
	Health   *domain.HealthSnapshot
	Activity *domain.ActivityTotals
	Notes    *string
}

func (s *RecordService) dayLock(userID string, date time.Time) *sync.Mutex {
	key := userID + "|" + domain.DayStart(date).Format("2006-01-02")

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// Upsert creates or merges the record for the input's calendar day.
// Nutrition totals are always recomputed from the raw entries,
// discarding whatever was stored before.
func (s *RecordService) Upsert(ctx context.Context, input UpsertRecordInput) (*domain.DailyRecord, error) {
	lock := s.dayLock(input.UserID, input.Date)
	lock.Lock()
	defer lock.Unlock()

	record, err := s.repo.GetByDate(ctx, input.UserID, input.Date)
	if err != nil {
		if err != domain.ErrRecordNotFound {
			return nil, err
		}
		record = domain.NewDailyRecord(input.UserID, input.Date)
	}

	if err := record.Apply(input.Health, input.Activity, input.Notes); err != nil {
		return nil, err
	}

	totals, err := s.aggregator.TotalsForDate(ctx, input.UserID, input.Date)
	if err != nil {
		return nil, fmt.Errorf("record service: recompute nutrition: %w", err)
	}
	record.Nutrition = totals

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// GetByDate returns the record for the day, creating an empty one
// (with freshly aggregated nutrition) when none exists yet.
func (s *RecordService) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyRecord, error) {
	record, err := s.repo.GetByDate(ctx, userID, date)
	if err == nil {
		return record, nil
	}
	if err != domain.ErrRecordNotFound {
		return nil, err
	}

	return s.Upsert(ctx, UpsertRecordInput{UserID: userID, Date: date})
}

func (s *RecordService) ListByDateRange(ctx context.Context, userID string, from, to time.Time, limit int) ([]*domain.DailyRecord, error) {
	return s.repo.ListByDateRange(ctx, userID, from, to, limit, false)
}

type UpdateRecordInput struct {
	ID       string
	UserID   string
	Health   *domain.HealthSnapshot
	Activity *domain.ActivityTotals
	Notes    *string
}

// UpdateByID patches an existing record addressed by id. A record
// that does not exist or belongs to someone else reads as not found.
func (s *RecordService) UpdateByID(ctx context.Context, input UpdateRecordInput) (*domain.DailyRecord, error) {
	record, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if record.UserID != input.UserID {
		return nil, domain.ErrRecordNotFound
	}

	lock := s.dayLock(record.UserID, record.Date)
	lock.Lock()
	defer lock.Unlock()

	if err := record.Apply(input.Health, input.Activity, input.Notes); err != nil {
		return nil, err
	}

	totals, err := s.aggregator.TotalsForDate(ctx, record.UserID, record.Date)
	if err != nil {
		return nil, fmt.Errorf("record service: recompute nutrition: %w", err)
	}
	record.Nutrition = totals

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// Sync recomputes and persists the day's record without changing
// health, activity or notes. The sync worker calls this after entry
// mutations.
func (s *RecordService) Sync(ctx context.Context, userID string, date time.Time) error {
	_, err := s.Upsert(ctx, UpsertRecordInput{UserID: userID, Date: date})
	return err
}

func (s *RecordService) Delete(ctx context.Context, id string, userID string) error {
	return s.repo.Delete(ctx, id, userID)
}
