package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/nutrack/nutrack-engine/internal/core/domain"
)

type PostgresNotificationRepository struct {
	db *sqlx.DB
}

func NewPostgresNotificationRepository(db *sqlx.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) scanRow(row scannable) (*domain.NotificationLogEntry, error) {
	var e domain.NotificationLogEntry
	var metadataJSON []byte

	err := row.Scan(
		&e.ID, &e.UserID, &e.Category, &e.Title, &e.Message,
		&e.SentAt, &e.Delivered, &e.IsRead, &e.ReadAt, &metadataJSON,
	)
	if err != nil {
		return nil, err
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &e.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	return &e, nil
}

func (r *PostgresNotificationRepository) Append(ctx context.Context, e *domain.NotificationLogEntry) error {
	metadataJSON, err := json.Marshal(e.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
        INSERT INTO notification_log (
            id, user_id, category, title, message,
            sent_at, delivered, is_read, read_at, metadata
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Category, e.Title, e.Message,
		e.SentAt, e.Delivered, e.IsRead, e.ReadAt, metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

func (r *PostgresNotificationRepository) LastByCategory(ctx context.Context, userID string, category domain.ReminderCategory) (*domain.NotificationLogEntry, error) {
	query := `
        SELECT id, user_id, category, title, message,
               sent_at, delivered, is_read, read_at, metadata
        FROM notification_log
        WHERE user_id = $1 AND category = $2
        ORDER BY sent_at DESC
        LIMIT 1`

	e, err := r.scanRow(r.db.QueryRowContext(ctx, query, userID, category))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return e, nil
}

func (r *PostgresNotificationRepository) ListByUserID(ctx context.Context, userID string, category domain.ReminderCategory, limit int) ([]*domain.NotificationLogEntry, error) {
	query := `
        SELECT id, user_id, category, title, message,
               sent_at, delivered, is_read, read_at, metadata
        FROM notification_log
        WHERE user_id = $1`
	args := []interface{}{userID}

	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY sent_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var entries []*domain.NotificationLogEntry
	for rows.Next() {
		e, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *PostgresNotificationRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]*domain.NotificationLogEntry, error) {
	query := `
        SELECT id, user_id, category, title, message,
               sent_at, delivered, is_read, read_at, metadata
        FROM notification_log
        WHERE user_id = $1 AND sent_at >= $2
        ORDER BY sent_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var entries []*domain.NotificationLogEntry
	for rows.Next() {
		e, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, userID string, ids []string, at time.Time) (int, error) {
	query := `
        UPDATE notification_log
        SET is_read = TRUE, read_at = $1
        WHERE user_id = $2 AND id = ANY($3) AND is_read = FALSE`

	res, err := r.db.ExecContext(ctx, query, at, userID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("mark read query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rows), nil
}

func (r *PostgresNotificationRepository) DeleteByUserID(ctx context.Context, userID string) (int, error) {
	query := `DELETE FROM notification_log WHERE user_id = $1`

	res, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rows), nil
}
