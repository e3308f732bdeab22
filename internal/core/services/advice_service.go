package services

import (
	"context"
	"time"

	"github.com/nutrack/nutrack-engine/internal/core/domain"
)

const maxAdvicePerDay = 3

type adviceCategory int

const (
	adviceHighProteinBreakfast adviceCategory = iota
	adviceLowProteinBreakfast
	adviceAlcoholConsumed
	adviceLowWater
	adviceHighProcessedFood
	adviceGoodBalance
	adviceLowCalories
	adviceHighCalories
	advicePreWorkout
	advicePostWorkout
	adviceEvening
)

// AdviceService produces up to three short nutrition tips for the
// current day, driven by the day's entry summary and the user profile.
// Rules run in a fixed order; each one that fires contributes a single
// message picked from its pool by the injected RandomSource.
type AdviceService struct {
	aggregator *Aggregator
	userRepo   domain.UserRepository
	clock      domain.Clock
	random     domain.RandomSource
}

func NewAdviceService(aggregator *Aggregator, userRepo domain.UserRepository, clock domain.Clock, random domain.RandomSource) *AdviceService {
	return &AdviceService{
		aggregator: aggregator,
		userRepo:   userRepo,
		clock:      clock,
		random:     random,
	}
}

// DailyAdvice evaluates the advice rules for the given calendar day.
func (s *AdviceService) DailyAdvice(ctx context.Context, userID string, date time.Time) ([]string, error) {
	summary, err := s.aggregator.DaySummary(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	advice := []string{}

	advice = append(advice, s.breakfastAdvice(summary)...)
	advice = append(advice, s.alcoholAdvice(summary)...)
	advice = append(advice, s.hydrationAdvice(summary, user.Profile)...)
	advice = append(advice, s.processedFoodAdvice(summary)...)
	advice = append(advice, s.calorieAdvice(summary, user.Profile)...)
	advice = append(advice, s.exerciseAdvice(user.Profile)...)
	advice = append(advice, s.timingAdvice()...)

	if len(advice) == 0 {
		advice = s.pick(adviceGoodBalance)
	}

	if len(advice) > maxAdvicePerDay {
		advice = advice[:maxAdvicePerDay]
	}
	return advice, nil
}

func (s *AdviceService) breakfastAdvice(summary *domain.DaySummary) []string {
	breakfast := summary.MealsBySlot[domain.MealBreakfast]
	if len(breakfast) == 0 {
		return []string{"You haven't logged breakfast today. It's the most important meal of the day."}
	}

	protein := 0.0
	for _, entry := range breakfast {
		protein += entry.Nutrition.Protein
	}

	switch {
	case protein >= 20:
		return s.pick(adviceHighProteinBreakfast)
	case protein < 10:
		return s.pick(adviceLowProteinBreakfast)
	}
	return nil
}

func (s *AdviceService) alcoholAdvice(summary *domain.DaySummary) []string {
	for _, entries := range summary.MealsBySlot {
		for _, entry := range entries {
			if entry.Category == domain.CategoryAlcohol {
				return s.pick(adviceAlcoholConsumed)
			}
		}
	}
	return nil
}

func (s *AdviceService) hydrationAdvice(summary *domain.DaySummary, profile domain.Profile) []string {
	target := 2000.0
	if profile.Weight != nil {
		target = *profile.Weight * 35
	}

	if summary.TotalWater < target*0.7 {
		return s.pick(adviceLowWater)
	}
	return nil
}

func (s *AdviceService) processedFoodAdvice(summary *domain.DaySummary) []string {
	processed := 0
	total := 0
	for _, entries := range summary.MealsBySlot {
		for _, entry := range entries {
			total++
			if entry.Category == domain.CategoryProcessed {
				processed++
			}
		}
	}

	if total > 0 && float64(processed)/float64(total) > 0.4 {
		return s.pick(adviceHighProcessedFood)
	}
	return nil
}

func (s *AdviceService) calorieAdvice(summary *domain.DaySummary, profile domain.Profile) []string {
	target := 2000.0
	if profile.Age != nil && profile.Weight != nil && profile.Height != nil {
		target = EstimateCalorieTarget(profile)
	}

	switch {
	case summary.TotalCalories < target*0.8:
		return s.pick(adviceLowCalories)
	case summary.TotalCalories > target*1.2:
		return s.pick(adviceHighCalories)
	}
	return nil
}

func (s *AdviceService) exerciseAdvice(profile domain.Profile) []string {
	hour := s.clock.Now().Hour()

	if hour >= 15 && hour <= 18 && profile.GymDaysPerWeek >= 3 {
		return s.pick(advicePreWorkout)
	}
	if hour >= 19 && hour <= 21 {
		return s.pick(advicePostWorkout)
	}
	return nil
}

func (s *AdviceService) timingAdvice() []string {
	hour := s.clock.Now().Hour()
	if hour >= 18 && hour <= 20 {
		return s.pick(adviceEvening)
	}
	return nil
}

func (s *AdviceService) pick(category adviceCategory) []string {
	pool := advicePool(category)
	return []string{pool[s.random.Choice(len(pool))]}
}

func advicePool(category adviceCategory) []string {
	switch category {
	case adviceHighProteinBreakfast:
		return []string{
			"Excellent! A protein-rich breakfast will keep you satiated through the morning.",
			"Great protein breakfast. It will kick your metabolism into gear for the day.",
			"Good call on breakfast protein. Your body will thank you.",
		}
	case adviceLowProteinBreakfast:
		return []string{
			"Consider adding more protein to your breakfast: eggs, greek yogurt or oats with nuts.",
			"Your breakfast could use more protein for better satiety.",
			"Try to include a protein source in your next breakfast.",
		}
	case adviceAlcoholConsumed:
		return []string{
			"You had alcohol today. Remember to hydrate extra and consider an antioxidant-rich meal.",
			"Alcohol can affect your recovery. Make sure to drink plenty of water and rest well.",
			"After alcohol your body needs B vitamins. Consider foods like avocado or banana.",
		}
	case adviceLowWater:
		return []string{
			"Your hydration is below target. Drink more water throughout the day!",
			"Remember: hydration is key to your metabolism and recovery.",
			"Your body needs more water. Try carrying a bottle with you.",
		}
	case adviceHighProcessedFood:
		return []string{
			"You've had quite a lot of processed food today. Try to include more whole foods.",
			"Processed foods can affect your energy. Consider more natural options.",
			"Your body would benefit from more fresh food and less processed food.",
		}
	case adviceGoodBalance:
		return []string{
			"Excellent nutritional balance today! Keep it up.",
			"Your eating today is very well balanced. Congratulations!",
			"Perfect balance of protein, carbs and healthy fats.",
		}
	case adviceLowCalories:
		return []string{
			"Your calories are below target. Make sure you eat enough for your metabolism.",
			"Consider adding healthy snacks to reach your calorie goals.",
			"Your body needs enough energy. Don't be afraid to eat more nutritious food.",
		}
	case adviceHighCalories:
		return []string{
			"You've gone past your calorie goal. Consider smaller portions or more activity.",
			"Your calories are high today. Try balancing with exercise or adjusting upcoming meals.",
			"Remember that the quality of calories matters as much as the quantity.",
		}
	case advicePreWorkout:
		return []string{
			"If you're hitting the gym today, consider a carb snack 30-60 minutes before.",
			"For your workout, a banana or some oats will give you quick energy.",
			"A bit of natural caffeine (green tea) can boost your training.",
		}
	case advicePostWorkout:
		return []string{
			"After the gym your body needs protein for muscle recovery.",
			"Consider a meal with protein and carbs within 2 hours post-workout.",
			"Your anabolic window is open. Make the most of it with good protein!",
		}
	case adviceEvening:
		return []string{
			"For dinner, go for lean protein and vegetables. Skip the heavy carbs.",
			"Dinner should be the lightest meal of your day for better rest.",
			"Consider a calming herbal tea after dinner for better digestion.",
		}
	default:
		return []string{"Keep logging your meals to get personalized advice."}
	}
}
