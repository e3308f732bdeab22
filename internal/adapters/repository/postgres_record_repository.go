package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/nutrack/nutrack-engine/internal/core/domain"
)

type PostgresDailyRecordRepository struct {
	db *sqlx.DB
}

func NewPostgresDailyRecordRepository(db *sqlx.DB) *PostgresDailyRecordRepository {
	return &PostgresDailyRecordRepository{db: db}
}

func (r *PostgresDailyRecordRepository) scanRow(row scannable) (*domain.DailyRecord, error) {
	var rec domain.DailyRecord
	var healthJSON, nutritionJSON, activityJSON []byte

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Date,
		&healthJSON, &nutritionJSON, &activityJSON,
		&rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(healthJSON) > 0 {
		if err := json.Unmarshal(healthJSON, &rec.Health); err != nil {
			return nil, fmt.Errorf("failed to unmarshal health: %w", err)
		}
	}
	if len(nutritionJSON) > 0 {
		if err := json.Unmarshal(nutritionJSON, &rec.Nutrition); err != nil {
			return nil, fmt.Errorf("failed to unmarshal nutrition: %w", err)
		}
	}
	if len(activityJSON) > 0 {
		if err := json.Unmarshal(activityJSON, &rec.Activity); err != nil {
			return nil, fmt.Errorf("failed to unmarshal activity: %w", err)
		}
	}

	return &rec, nil
}

// Upsert inserts the record or replaces the existing row for the same
// (user_id, date). The unique index on (user_id, date) makes the
// one-record-per-day invariant hold under concurrent writers; on
// conflict the stored row keeps its identity and the caller's record
// is updated to match.
func (r *PostgresDailyRecordRepository) Upsert(ctx context.Context, rec *domain.DailyRecord) error {
	healthJSON, err := json.Marshal(rec.Health)
	if err != nil {
		return fmt.Errorf("failed to marshal health: %w", err)
	}
	nutritionJSON, err := json.Marshal(rec.Nutrition)
	if err != nil {
		return fmt.Errorf("failed to marshal nutrition: %w", err)
	}
	activityJSON, err := json.Marshal(rec.Activity)
	if err != nil {
		return fmt.Errorf("failed to marshal activity: %w", err)
	}

	query := `
        INSERT INTO daily_records (
            id, user_id, date, health, nutrition, activity, notes,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (user_id, date) DO UPDATE SET
            health = EXCLUDED.health,
            nutrition = EXCLUDED.nutrition,
            activity = EXCLUDED.activity,
            notes = EXCLUDED.notes,
            updated_at = EXCLUDED.updated_at
        RETURNING id, created_at`

	row := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.UserID, domain.DayStart(rec.Date), healthJSON, nutritionJSON, activityJSON, rec.Notes,
		rec.CreatedAt, rec.UpdatedAt,
	)

	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return fmt.Errorf("upsert query failed: %w", err)
	}

	return nil
}

func (r *PostgresDailyRecordRepository) GetByID(ctx context.Context, id string) (*domain.DailyRecord, error) {
	query := `SELECT * FROM daily_records WHERE id = $1`

	rec, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return rec, nil
}

func (r *PostgresDailyRecordRepository) GetByDate(ctx context.Context, userID string, date time.Time) (*domain.DailyRecord, error) {
	query := `SELECT * FROM daily_records WHERE user_id = $1 AND date = $2`

	rec, err := r.scanRow(r.db.QueryRowContext(ctx, query, userID, domain.DayStart(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return rec, nil
}

func (r *PostgresDailyRecordRepository) ListByDateRange(ctx context.Context, userID string, from, to time.Time, limit int, asc bool) ([]*domain.DailyRecord, error) {
	query := `
        SELECT * FROM daily_records
        WHERE user_id = $1 AND date >= $2 AND date <= $3`
	if asc {
		query += ` ORDER BY date ASC`
	} else {
		query += ` ORDER BY date DESC`
	}

	args := []interface{}{userID, from, to}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var records []*domain.DailyRecord
	for rows.Next() {
		rec, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func (r *PostgresDailyRecordRepository) Delete(ctx context.Context, id string, userID string) error {
	query := `DELETE FROM daily_records WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
