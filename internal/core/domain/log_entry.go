package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrFoodEntryNotFound  = errors.New("food entry not found")
	ErrWaterEntryNotFound = errors.New("water entry not found")
	ErrFoodNameEmpty      = errors.New("food name cannot be empty")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidAmount      = errors.New("water amount must be positive")
	ErrInvalidMealSlot    = errors.New("invalid meal slot")
	ErrInvalidCategory    = errors.New("invalid food category")
)

const (
	MealBreakfast      = "breakfast"
	MealSnackMorning   = "snack_morning"
	MealLunch          = "lunch"
	MealSnackAfternoon = "snack_afternoon"
	MealDinner         = "dinner"
	MealSnackEvening   = "snack_evening"
	MealOther          = "other"

	CategoryProtein     = "protein"
	CategoryCarbs       = "carbs"
	CategoryFats        = "fats"
	CategoryVegetables  = "vegetables"
	CategoryFruits      = "fruits"
	CategoryDairy       = "dairy"
	CategoryBeverages   = "beverages"
	CategoryAlcohol     = "alcohol"
	CategoryProcessed   = "processed"
	CategorySupplements = "supplements"
)

// NutritionInfo is the per-entry nutrition breakdown. All fields are
// optional on input and treated as zero when absent.
type NutritionInfo struct {
	Calories float64 `json:"calories" db:"calories"`
	Protein  float64 `json:"protein" db:"protein"`
	Carbs    float64 `json:"carbs" db:"carbs"`
	Fats     float64 `json:"fats" db:"fats"`
	Fiber    float64 `json:"fiber" db:"fiber"`
	Sugar    float64 `json:"sugar" db:"sugar"`
	Sodium   float64 `json:"sodium" db:"sodium"`
}

type FoodEntry struct {
	ID        string        `json:"id" db:"id"`
	UserID    string        `json:"user_id" db:"user_id"`
	FoodName  string        `json:"food_name" db:"food_name"`
	Quantity  float64       `json:"quantity" db:"quantity"`
	Unit      string        `json:"unit" db:"unit"`
	MealSlot  string        `json:"meal_slot" db:"meal_slot"`
	Category  string        `json:"category" db:"category"`
	Nutrition NutritionInfo `json:"nutrition"`
	Notes     string        `json:"notes" db:"notes"`
	LoggedAt  time.Time     `json:"logged_at" db:"logged_at"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

type WaterEntry struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Amount    float64   `json:"amount" db:"amount"`
	LoggedAt  time.Time `json:"logged_at" db:"logged_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewFoodEntry(userID, name, unit, mealSlot, category string, quantity float64, nutrition NutritionInfo, loggedAt time.Time) (*FoodEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFoodNameEmpty
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !validMealSlot(mealSlot) {
		return nil, ErrInvalidMealSlot
	}
	if !validCategory(category) {
		return nil, ErrInvalidCategory
	}
	if unit == "" {
		unit = "grams"
	}

	now := time.Now().UTC()
	if loggedAt.IsZero() {
		loggedAt = now
	}

	return &FoodEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		FoodName:  name,
		Quantity:  quantity,
		Unit:      unit,
		MealSlot:  mealSlot,
		Category:  category,
		Nutrition: nutrition,
		LoggedAt:  loggedAt.UTC(),
		CreatedAt: now,
	}, nil
}

// Update replaces the editable fields of an entry. Ownership is
// checked by the caller; the entry keeps its identity and timestamps.
func (e *FoodEntry) Update(name, unit, mealSlot, category string, quantity float64, nutrition NutritionInfo, notes string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrFoodNameEmpty
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if !validMealSlot(mealSlot) {
		return ErrInvalidMealSlot
	}
	if !validCategory(category) {
		return ErrInvalidCategory
	}
	if unit == "" {
		unit = "grams"
	}

	e.FoodName = name
	e.Quantity = quantity
	e.Unit = unit
	e.MealSlot = mealSlot
	e.Category = category
	e.Nutrition = nutrition
	e.Notes = notes
	return nil
}

func NewWaterEntry(userID string, amount float64, loggedAt time.Time) (*WaterEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	now := time.Now().UTC()
	if loggedAt.IsZero() {
		loggedAt = now
	}

	return &WaterEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Amount:    amount,
		LoggedAt:  loggedAt.UTC(),
		CreatedAt: now,
	}, nil
}

func (e *WaterEntry) SetAmount(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	e.Amount = amount
	return nil
}

func validMealSlot(slot string) bool {
	switch slot {
	case MealBreakfast, MealSnackMorning, MealLunch, MealSnackAfternoon,
		MealDinner, MealSnackEvening, MealOther:
		return true
	}
	return false
}

func validCategory(cat string) bool {
	switch cat {
	case CategoryProtein, CategoryCarbs, CategoryFats, CategoryVegetables,
		CategoryFruits, CategoryDairy, CategoryBeverages, CategoryAlcohol,
		CategoryProcessed, CategorySupplements:
		return true
	}
	return false
}

// DaySummary is the single-day nutrition rollup consumed by the
// advice engine and the daily summary endpoint.
type DaySummary struct {
	Date          time.Time               `json:"date"`
	TotalCalories float64                 `json:"total_calories"`
	TotalProtein  float64                 `json:"total_protein"`
	TotalCarbs    float64                 `json:"total_carbs"`
	TotalFats     float64                 `json:"total_fats"`
	TotalFiber    float64                 `json:"total_fiber"`
	TotalWater    float64                 `json:"total_water"`
	MealsBySlot   map[string][]*FoodEntry `json:"meals_by_slot"`
	WaterEntries  []*WaterEntry           `json:"water_entries"`
}
