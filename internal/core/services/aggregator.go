package services

import (
	"context"
	"time"

	"github.com/nutrack/nutrack-engine/internal/core/domain"
)

// Aggregator folds the raw food/water entries of one user-day into
// nutrition totals. It is a pure read-and-fold: calling it twice for
// the same day yields the same totals.
type Aggregator struct {
	foodRepo  domain.FoodEntryRepository
	waterRepo domain.WaterEntryRepository
}

func NewAggregator(foodRepo domain.FoodEntryRepository, waterRepo domain.WaterEntryRepository) *Aggregator {
	return &Aggregator{
		foodRepo:  foodRepo,
		waterRepo: waterRepo,
	}
}

// TotalsForDate sums all entries logged on the calendar day of date.
func (a *Aggregator) TotalsForDate(ctx context.Context, userID string, date time.Time) (domain.NutritionTotals, error) {
	from := domain.DayStart(date)
	to := domain.DayEnd(date)

	foods, err := a.foodRepo.ListByUserID(ctx, userID, from, to, 0)
	if err != nil {
		return domain.NutritionTotals{}, err
	}

	waters, err := a.waterRepo.ListByUserID(ctx, userID, from, to, 0)
	if err != nil {
		return domain.NutritionTotals{}, err
	}

	var totals domain.NutritionTotals
	for _, f := range foods {
		totals.CaloriesConsumed += f.Nutrition.Calories
		totals.ProteinConsumed += f.Nutrition.Protein
		totals.CarbsConsumed += f.Nutrition.Carbs
		totals.FatsConsumed += f.Nutrition.Fats
		if f.Category == domain.CategoryAlcohol {
			totals.AlcoholUnits += f.Quantity
		}
	}
	totals.MealsLogged = len(foods)

	for _, w := range waters {
		totals.WaterConsumed += w.Amount
	}

	return totals, nil
}

// DaySummary builds the single-day rollup with entries grouped by
// meal slot, the shape the advice engine consumes.
func (a *Aggregator) DaySummary(ctx context.Context, userID string, date time.Time) (*domain.DaySummary, error) {
	from := domain.DayStart(date)
	to := domain.DayEnd(date)

	foods, err := a.foodRepo.ListByUserID(ctx, userID, from, to, 0)
	if err != nil {
		return nil, err
	}

	waters, err := a.waterRepo.ListByUserID(ctx, userID, from, to, 0)
	if err != nil {
		return nil, err
	}

	summary := &domain.DaySummary{
		Date:         from,
		MealsBySlot:  make(map[string][]*domain.FoodEntry),
		WaterEntries: waters,
	}

	for _, f := range foods {
		summary.TotalCalories += f.Nutrition.Calories
		summary.TotalProtein += f.Nutrition.Protein
		summary.TotalCarbs += f.Nutrition.Carbs
		summary.TotalFats += f.Nutrition.Fats
		summary.TotalFiber += f.Nutrition.Fiber
		summary.MealsBySlot[f.MealSlot] = append(summary.MealsBySlot[f.MealSlot], f)
	}

	for _, w := range waters {
		summary.TotalWater += w.Amount
	}

	return summary, nil
}
