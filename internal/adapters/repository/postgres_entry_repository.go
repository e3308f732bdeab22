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

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresFoodEntryRepository struct {
	db *sqlx.DB
}

func NewPostgresFoodEntryRepository(db *sqlx.DB) *PostgresFoodEntryRepository {
	return &PostgresFoodEntryRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresFoodEntryRepository) scanRow(row scannable) (*domain.FoodEntry, error) {
	var e domain.FoodEntry
	var nutritionJSON []byte

	err := row.Scan(
		&e.ID, &e.UserID, &e.FoodName, &e.Quantity, &e.Unit,
		&e.MealSlot, &e.Category, &nutritionJSON, &e.Notes,
		&e.LoggedAt, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(nutritionJSON) > 0 {
		if err := json.Unmarshal(nutritionJSON, &e.Nutrition); err != nil {
			return nil, fmt.Errorf("failed to unmarshal nutrition: %w", err)
		}
	}

	return &e, nil
}

func (r *PostgresFoodEntryRepository) Create(ctx context.Context, e *domain.FoodEntry) error {
	nutritionJSON, err := json.Marshal(e.Nutrition)
	if err != nil {
		return fmt.Errorf("failed to marshal nutrition: %w", err)
	}

	query := `
        INSERT INTO food_entries (
            id, user_id, food_name, quantity, unit,
            meal_slot, category, nutrition, notes,
            logged_at, created_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.FoodName, e.Quantity, e.Unit,
		e.MealSlot, e.Category, nutritionJSON, e.Notes,
		e.LoggedAt, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert food entry: %w", err)
	}

	return nil
}

func (r *PostgresFoodEntryRepository) GetByID(ctx context.Context, id string) (*domain.FoodEntry, error) {
	query := `SELECT * FROM food_entries WHERE id = $1`

	e, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrFoodEntryNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return e, nil
}

func (r *PostgresFoodEntryRepository) ListByUserID(ctx context.Context, userID string, from, to time.Time, limit int) ([]*domain.FoodEntry, error) {
	query := `
        SELECT * FROM food_entries
        WHERE user_id = $1 AND logged_at >= $2 AND logged_at <= $3
        ORDER BY logged_at DESC`
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

	var entries []*domain.FoodEntry
	for rows.Next() {
		e, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *PostgresFoodEntryRepository) Update(ctx context.Context, e *domain.FoodEntry) error {
	nutritionJSON, err := json.Marshal(e.Nutrition)
	if err != nil {
		return fmt.Errorf("failed to marshal nutrition: %w", err)
	}

	query := `
        UPDATE food_entries SET
            food_name=$1, quantity=$2, unit=$3, meal_slot=$4,
            category=$5, nutrition=$6, notes=$7
        WHERE id=$8 AND user_id=$9`

	res, err := r.db.ExecContext(ctx, query,
		e.FoodName, e.Quantity, e.Unit, e.MealSlot,
		e.Category, nutritionJSON, e.Notes,
		e.ID, e.UserID,
	)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrFoodEntryNotFound
	}

	return nil
}

func (r *PostgresFoodEntryRepository) Delete(ctx context.Context, id string, userID string) error {
	query := `DELETE FROM food_entries WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrFoodEntryNotFound
	}

	return nil
}

type PostgresWaterEntryRepository struct {
	db *sqlx.DB
}

func NewPostgresWaterEntryRepository(db *sqlx.DB) *PostgresWaterEntryRepository {
	return &PostgresWaterEntryRepository{db: db}
}

func (r *PostgresWaterEntryRepository) Create(ctx context.Context, e *domain.WaterEntry) error {
	query := `
        INSERT INTO water_entries (id, user_id, amount, logged_at, created_at)
        VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, e.ID, e.UserID, e.Amount, e.LoggedAt, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert water entry: %w", err)
	}

	return nil
}

func (r *PostgresWaterEntryRepository) GetByID(ctx context.Context, id string) (*domain.WaterEntry, error) {
	query := `SELECT * FROM water_entries WHERE id = $1`

	var e domain.WaterEntry
	if err := r.db.GetContext(ctx, &e, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrWaterEntryNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return &e, nil
}

func (r *PostgresWaterEntryRepository) ListByUserID(ctx context.Context, userID string, from, to time.Time, limit int) ([]*domain.WaterEntry, error) {
	query := `
        SELECT * FROM water_entries
        WHERE user_id = $1 AND logged_at >= $2 AND logged_at <= $3
        ORDER BY logged_at DESC`
	args := []interface{}{userID, from, to}

	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}

	var entries []*domain.WaterEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	return entries, nil
}

func (r *PostgresWaterEntryRepository) Update(ctx context.Context, e *domain.WaterEntry) error {
	query := `UPDATE water_entries SET amount=$1 WHERE id=$2 AND user_id=$3`

	res, err := r.db.ExecContext(ctx, query, e.Amount, e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrWaterEntryNotFound
	}

	return nil
}

func (r *PostgresWaterEntryRepository) Delete(ctx context.Context, id string, userID string) error {
	query := `DELETE FROM water_entries WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrWaterEntryNotFound
	}

	return nil
}
