package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/nutrack/nutrack-engine/internal/core/domain"
)

type PostgresReminderConfigRepository struct {
	db *sqlx.DB
}

func NewPostgresReminderConfigRepository(db *sqlx.DB) *PostgresReminderConfigRepository {
	return &PostgresReminderConfigRepository{db: db}
}

func (r *PostgresReminderConfigRepository) Create(ctx context.Context, config *domain.ReminderConfig) error {
	slotsJSON, err := json.Marshal(config.Slots)
	if err != nil {
		return fmt.Errorf("failed to marshal slots: %w", err)
	}

	query := `
        INSERT INTO reminder_configs (
            id, user_id, enabled, slots, quiet_hours_start, quiet_hours_end,
            created_at, updated_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		config.ID, config.UserID, config.Enabled, slotsJSON,
		config.QuietHoursStart, config.QuietHoursEnd,
		config.CreatedAt, config.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			// Concurrent first access already created the defaults.
			return nil
		}
		return fmt.Errorf("failed to insert reminder config: %w", err)
	}

	return nil
}

func (r *PostgresReminderConfigRepository) GetByUserID(ctx context.Context, userID string) (*domain.ReminderConfig, error) {
	query := `
        SELECT id, user_id, enabled, slots, quiet_hours_start, quiet_hours_end,
               created_at, updated_at
        FROM reminder_configs WHERE user_id = $1`

	var config domain.ReminderConfig
	var slotsJSON []byte

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&config.ID, &config.UserID, &config.Enabled, &slotsJSON,
		&config.QuietHoursStart, &config.QuietHoursEnd,
		&config.CreatedAt, &config.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	if len(slotsJSON) > 0 {
		if err := json.Unmarshal(slotsJSON, &config.Slots); err != nil {
			return nil, fmt.Errorf("failed to unmarshal slots: %w", err)
		}
	}

	return &config, nil
}

func (r *PostgresReminderConfigRepository) Update(ctx context.Context, config *domain.ReminderConfig) error {
	slotsJSON, err := json.Marshal(config.Slots)
	if err != nil {
		return fmt.Errorf("failed to marshal slots: %w", err)
	}

	query := `
        UPDATE reminder_configs SET
            enabled=$1, slots=$2, quiet_hours_start=$3, quiet_hours_end=$4,
            updated_at=$5
        WHERE user_id=$6`

	res, err := r.db.ExecContext(ctx, query,
		config.Enabled, slotsJSON, config.QuietHoursStart, config.QuietHoursEnd,
		config.UpdatedAt, config.UserID,
	)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrConfigNotFound
	}

	return nil
}
