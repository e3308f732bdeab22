package services

import (
	"context"
	"time"

	"github.com/nutrack/nutrack-engine/internal/core/domain"
	"github.com/nutrack/nutrack-engine/internal/core/workers"
)

// EntryService owns the food and water entry CRUD. Every mutation
// enqueues a record sync so the stored daily totals catch up with the
// raw entries.
type EntryService struct {
	foodRepo  domain.FoodEntryRepository
	waterRepo domain.WaterEntryRepository
	worker    *workers.SyncWorker
}

func NewEntryService(foodRepo domain.FoodEntryRepository, waterRepo domain.WaterEntryRepository, worker *workers.SyncWorker) *EntryService {
	return &EntryService{
		foodRepo:  foodRepo,
		waterRepo: waterRepo,
		worker:    worker,
	}
}

type CreateFoodEntryInput struct {
	UserID    string
	FoodName  string
	Quantity  float64
	Unit      string
	MealSlot  string
	Category  string
	Nutrition domain.NutritionInfo
	Notes     string
	LoggedAt  time.Time
}

func (s *EntryService) CreateFood(ctx context.Context, input CreateFoodEntryInput) (*domain.FoodEntry, error) {
	entry, err := domain.NewFoodEntry(input.UserID, input.FoodName, input.Unit, input.MealSlot, input.Category, input.Quantity, input.Nutrition, input.LoggedAt)
	if err != nil {
		return nil, err
	}
	entry.Notes = input.Notes

	if err := s.foodRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.worker.Enqueue(entry.UserID, entry.LoggedAt)

	return entry, nil
}

type UpdateFoodEntryInput struct {
	ID        string
	UserID    string
	FoodName  string
	Quantity  float64
	Unit      string
	MealSlot  string
	Category  string
	Nutrition domain.NutritionInfo
	Notes     string
}

func (s *EntryService) UpdateFood(ctx context.Context, input UpdateFoodEntryInput) (*domain.FoodEntry, error) {
	entry, err := s.GetFoodByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := entry.Update(input.FoodName, input.Unit, input.MealSlot, input.Category, input.Quantity, input.Nutrition, input.Notes); err != nil {
		return nil, err
	}

	if err := s.foodRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.worker.Enqueue(entry.UserID, entry.LoggedAt)

	return entry, nil
}

// GetFoodByID hides entries owned by other users behind not-found.
func (s *EntryService) GetFoodByID(ctx context.Context, id string, userID string) (*domain.FoodEntry, error) {
	entry, err := s.foodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, domain.ErrFoodEntryNotFound
	}
	return entry, nil
}

func (s *EntryService) ListFood(ctx context.Context, userID string, from, to time.Time, limit int) ([]*domain.FoodEntry, error) {
	return s.foodRepo.ListByUserID(ctx, userID, from, to, limit)
}

func (s *EntryService) DeleteFood(ctx context.Context, id string, userID string) error {
	entry, err := s.GetFoodByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.foodRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(userID, entry.LoggedAt)

	return nil
}

type CreateWaterEntryInput struct {
	UserID   string
	Amount   float64
	LoggedAt time.Time
}

func (s *EntryService) CreateWater(ctx context.Context, input CreateWaterEntryInput) (*domain.WaterEntry, error) {
	entry, err := domain.NewWaterEntry(input.UserID, input.Amount, input.LoggedAt)
	if err != nil {
		return nil, err
	}

	if err := s.waterRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.worker.Enqueue(entry.UserID, entry.LoggedAt)

	return entry, nil
}

func (s *EntryService) UpdateWater(ctx context.Context, id string, userID string, amount float64) (*domain.WaterEntry, error) {
	entry, err := s.GetWaterByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := entry.SetAmount(amount); err != nil {
		return nil, err
	}

	if err := s.waterRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.worker.Enqueue(entry.UserID, entry.LoggedAt)

	return entry, nil
}

func (s *EntryService) GetWaterByID(ctx context.Context, id string, userID string) (*domain.WaterEntry, error) {
	entry, err := s.waterRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, domain.ErrWaterEntryNotFound
	}
	return entry, nil
}

func (s *EntryService) ListWater(ctx context.Context, userID string, from, to time.Time, limit int) ([]*domain.WaterEntry, error) {
	return s.waterRepo.ListByUserID(ctx, userID, from, to, limit)
}

func (s *EntryService) DeleteWater(ctx context.Context, id string, userID string) error {
	entry, err := s.GetWaterByID(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.waterRepo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(userID, entry.LoggedAt)

	return nil
}
