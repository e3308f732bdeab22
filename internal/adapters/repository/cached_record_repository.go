package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nutrack/nutrack-engine/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.DailyRecordRepository = (*CachedDailyRecordRepository)(nil)

// CachedDailyRecordRepository caches the by-date read, the hot path
// for dashboard polling. Every write for the day invalidates it. Range
// queries go straight through.
type CachedDailyRecordRepository struct {
	next  domain.DailyRecordRepository
	cache *redis.Client
}

func NewCachedDailyRecordRepository(next domain.DailyRecordRepository, cache *redis.Client) *CachedDailyRecordRepository {
	return &CachedDailyRecordRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedDailyRecordRepository) cacheKey(userID string, date time.Time) string {
	return fmt.Sprintf("record:%s:%s", userID, domain.DayStart(date).Format("2006-01-02"))
}

func (r *CachedDailyRecordRepository) invalidate(ctx context.Context, userID string, date time.Time) {
	if err := r.cache.Del(ctx, r.cacheKey(userID, date)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate for user %s: %v", userID, err)
	}
}

func (r *CachedDailyRecordRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyRecord, error) {
	key := r.cacheKey(userID, date)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var record domain.DailyRecord
		if err := json.Unmarshal([]byte(val), &record); err == nil {
			return &record, nil
		}

		log.Printf("[CACHE] Corrupted data for user %s, cleaning up key", userID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	record, err := r.next.GetByDate(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(record); err == nil {
		if setErr := r.cache.Set(ctx, key, data, 30*time.Minute).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return record, nil
}

func (r *CachedDailyRecordRepository) Upsert(ctx context.Context, record *domain.DailyRecord) error {
	if err := r.next.Upsert(ctx, record); err != nil {
		return err
	}
	r.invalidate(ctx, record.UserID, record.Date)
	return nil
}

func (r *CachedDailyRecordRepository) GetByID(ctx context.Context, id string) (*domain.DailyRecord, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedDailyRecordRepository) ListByDateRange(ctx context.Context, userID string, from, to time.Time, limit int, asc bool) ([]*domain.DailyRecord, error) {
	return r.next.ListByDateRange(ctx, userID, from, to, limit, asc)
}

func (r *CachedDailyRecordRepository) Delete(ctx context.Context, id string, userID string) error {
	record, err := r.next.GetByID(ctx, id)
	if err == nil && record != nil {
		defer r.invalidate(ctx, userID, record.Date)
	}

	return r.next.Delete(ctx, id, userID)
}
