package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/nutrack/nutrack-engine/internal/core/domain"
)

const (
	minRecordsForTrends  = 14
	minRecordsPerMonth   = 5
	wellHydratedMl       = 2000
	lowHydrationAvgMl    = 1500
	proteinPerKgTarget   = 1.5
	sparseLoggingDays    = 20
	trendDeadZonePercent = 1.0
)

// AnalyticsService turns persisted daily records into trends,
// consistency scores, goal progress and period recommendations.
type AnalyticsService struct {
	recordRepo domain.DailyRecordRepository
	userRepo   domain.UserRepository
	clock      domain.Clock
}

func NewAnalyticsService(recordRepo domain.DailyRecordRepository, userRepo domain.UserRepository, clock domain.Clock) *AnalyticsService {
	return &AnalyticsService{
		recordRepo: recordRepo,
		userRepo:   userRepo,
		clock:      clock,
	}
}

// Summary computes the full analytics rollup for [start, end]. The
// aggregation stage (record fetch) completes before any derived stage
// consumes it; the derived stages themselves are pure.
func (s *AnalyticsService) Summary(ctx context.Context, userID string, start, end time.Time) (*domain.AnalyticsSummary, error) {
	records, err := s.recordRepo.ListByDateRange(ctx, userID, domain.DayStart(start), domain.DayEnd(end), 0, true)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.AnalyticsSummary{
		UserID:          userID,
		PeriodStart:     domain.DayStart(start),
		PeriodEnd:       domain.DayStart(end),
		WeeklyTrends:    WeeklyTrends(records),
		MonthlyProgress: MonthlyRollup(records),
		Achievements:    Achievements(records),
		Recommendations: Recommendations(records, user.Profile),
		Consistency:     ConsistencyScore(records, start, end),
	}, nil
}

// WeeklyTrends compares the earlier and later half of a date-ascending
// window. Fewer than 14 records yields no trends at all; a metric with
// an empty half, or a zero earlier average, is skipped.
func WeeklyTrends(records []*domain.DailyRecord) []domain.WeeklyTrend {
	trends := []domain.WeeklyTrend{}
	if len(records) < minRecordsForTrends {
		return trends
	}

	mid := len(records) / 2
	earlier := records[:mid]
	later := records[mid:]

	type metric struct {
		name   string
		sample func(*domain.DailyRecord) (float64, bool)
	}

	metrics := []metric{
		{"weight", func(r *domain.DailyRecord) (float64, bool) {
			if r.Health.Weight == nil {
				return 0, false
			}
			return *r.Health.Weight, true
		}},
		{"calories", func(r *domain.DailyRecord) (float64, bool) {
			return r.Nutrition.CaloriesConsumed, true
		}},
		{"water", func(r *domain.DailyRecord) (float64, bool) {
			return r.Nutrition.WaterConsumed, true
		}},
	}

	for _, m := range metrics {
		earlierSamples := collect(earlier, m.sample)
		laterSamples := collect(later, m.sample)
		if len(earlierSamples) == 0 || len(laterSamples) == 0 {
			continue
		}

		avgEarlier := mean(earlierSamples)
		avgLater := mean(laterSamples)
		if avgEarlier == 0 {
			continue
		}

		change := (avgLater - avgEarlier) / avgEarlier * 100

		direction := domain.TrendStable
		if change > trendDeadZonePercent {
			direction = domain.TrendUp
		} else if change < -trendDeadZonePercent {
			direction = domain.TrendDown
		}

		trends = append(trends, domain.WeeklyTrend{
			MetricName:       m.name,
			CurrentValue:     avgLater,
			PreviousValue:    avgEarlier,
			ChangePercentage: round1(change),
			Direction:        direction,
		})
	}

	return trends
}

// MonthlyRollup groups records by calendar month and summarizes each
// month that has at least 5 records. The consistency score divides by
// a flat 30 regardless of the month's real length.
func MonthlyRollup(records []*domain.DailyRecord) []domain.MonthlyProgress {
	byMonth := make(map[string][]*domain.DailyRecord)
	var months []string
	for _, r := range records {
		key := r.Date.Format("2006-01")
		if _, seen := byMonth[key]; !seen {
			months = append(months, key)
		}
		byMonth[key] = append(byMonth[key], r)
	}
	sort.Strings(months)

	progress := []domain.MonthlyProgress{}
	for _, month := range months {
		group := byMonth[month]
		if len(group) < minRecordsPerMonth {
			continue
		}

		var weights, calories, proteins []float64
		gymSessions := 0
		for _, r := range group {
			if r.Health.Weight != nil {
				weights = append(weights, *r.Health.Weight)
			}
			calories = append(calories, r.Nutrition.CaloriesConsumed)
			proteins = append(proteins, r.Nutrition.ProteinConsumed)
			gymSessions += r.Activity.GymSessions
		}

		row := domain.MonthlyProgress{
			Month:            month,
			GymSessions:      gymSessions,
			ConsistencyScore: round1(float64(len(group)) / 30 * 100),
		}

		if len(weights) >= 2 {
			change := weights[len(weights)-1] - weights[0]
			row.WeightChange = &change
		}
		if avg := round1(mean(calories)); avg != 0 {
			row.AvgCalories = &avg
		}
		if avg := round1(mean(proteins)); avg != 0 {
			row.AvgProtein = &avg
		}

		progress = append(progress, row)
	}

	return progress
}

// ConsistencyScore reports logging adherence over the inclusive
// period. Percentages are rounded to one decimal and not clamped.
func ConsistencyScore(records []*domain.DailyRecord, start, end time.Time) domain.ConsistencyReport {
	totalDays := domain.DaysBetween(start, end)
	if totalDays < 1 {
		totalDays = 1
	}

	daysWithMeals := 0
	daysWithWater := 0
	daysWithHealth := 0
	for _, r := range records {
		if r.Nutrition.MealsLogged > 0 {
			daysWithMeals++
		}
		if r.Nutrition.WaterConsumed > 0 {
			daysWithWater++
		}
		if r.Health.HasAny() {
			daysWithHealth++
		}
	}

	pctOf := func(n int) float64 {
		return round1(float64(n) / float64(totalDays) * 100)
	}

	return domain.ConsistencyReport{
		Overall:       pctOf(len(records)),
		MealLogging:   pctOf(daysWithMeals),
		WaterLogging:  pctOf(daysWithWater),
		HealthMetrics: pctOf(daysWithHealth),
		TotalDays:     totalDays,
		DaysWithData:  len(records),
	}
}

// GoalsProgress emits at most one row per goal type. The weight goal
// needs a profile baseline, a target and a weight sample from the
// last 7 days; target == baseline is skipped entirely.
func (s *AnalyticsService) GoalsProgress(ctx context.Context, userID string) ([]domain.GoalProgress, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress := []domain.GoalProgress{}
	if user.Profile.TargetWeight == nil || user.Profile.Weight == nil {
		return progress, nil
	}

	now := s.clock.Now()
	records, err := s.recordRepo.ListByDateRange(ctx, userID, domain.DayStart(now.AddDate(0, 0, -7)), domain.DayEnd(now), 7, false)
	if err != nil {
		return nil, err
	}

	var latest *float64
	for _, r := range records {
		if r.Health.Weight != nil {
			latest = r.Health.Weight
			break
		}
	}
	if latest == nil {
		return progress, nil
	}

	baseline := *user.Profile.Weight
	target := *user.Profile.TargetWeight
	if target == baseline {
		return progress, nil
	}

	pct := math.Abs(baseline-*latest) / math.Abs(baseline-target) * 100
	pct = math.Min(100, math.Max(0, pct))

	progress = append(progress, domain.GoalProgress{
		GoalType:           "weight",
		TargetValue:        target,
		CurrentValue:       *latest,
		ProgressPercentage: round1(pct),
		IsOnTrack:          pct > 0,
	})

	return progress, nil
}

// Achievements fires threshold rules over the period's records.
// Deterministic: same input, same output.
func Achievements(records []*domain.DailyRecord) []string {
	achievements := []string{}

	if len(records) >= 7 {
		achievements = append(achievements, "7 days of logging in a row!")
	}
	if len(records) >= 30 {
		achievements = append(achievements, "A full month of tracking!")
	}

	if len(records) > 0 {
		wellHydrated := 0
		for _, r := range records {
			if r.Nutrition.WaterConsumed >= wellHydratedMl {
				wellHydrated++
			}
		}
		if float64(wellHydrated) >= float64(len(records))*0.8 {
			achievements = append(achievements, "Excellent hydration this period!")
		}
	}

	return achievements
}

// Recommendations runs the period rules in fixed order: hydration,
// protein, consistency.
func Recommendations(records []*domain.DailyRecord, profile domain.Profile) []string {
	if len(records) == 0 {
		return []string{"Start by logging your meals and daily stats."}
	}

	recs := []string{}

	var waterSum, proteinSum float64
	for _, r := range records {
		waterSum += r.Nutrition.WaterConsumed
		proteinSum += r.Nutrition.ProteinConsumed
	}

	if waterSum/float64(len(records)) < lowHydrationAvgMl {
		recs = append(recs, "Try to drink more water every day. Your average is below the recommended amount.")
	}

	if profile.Weight != nil && proteinSum/float64(len(records)) < *profile.Weight*proteinPerKgTarget {
		recs = append(recs, "Consider increasing your protein intake for better muscle recovery.")
	}

	if len(records) < sparseLoggingDays {
		recs = append(recs, "Try to log your meals and stats more consistently.")
	}

	return recs
}

// Goals derives daily nutrition targets from the profile using
// Harris-Benedict with an activity multiplier, falling back to stock
// defaults when the profile is incomplete.
func (s *AnalyticsService) Goals(ctx context.Context, userID string) (*domain.NutritionGoals, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	goals := &domain.NutritionGoals{
		DailyCalories: 2000,
		DailyProtein:  150,
		DailyCarbs:    250,
		DailyFats:     65,
		DailyWater:    2000,
	}

	p := user.Profile
	if p.Age == nil || p.Weight == nil || p.Height == nil {
		return goals, nil
	}

	calories := EstimateCalorieTarget(p)

	goals.DailyCalories = math.Round(calories)
	goals.DailyProtein = math.Round(*p.Weight * 2.2)
	goals.DailyCarbs = math.Round(calories * 0.45 / 4)
	goals.DailyFats = math.Round(calories * 0.25 / 9)
	goals.DailyWater = math.Round(*p.Weight * 35)

	return goals, nil
}

// EstimateCalorieTarget computes the Harris-Benedict BMR scaled by
// activity level and shifted 500 kcal for loss/gain goals. Requires
// age, weight and height; callers check presence.
func EstimateCalorieTarget(p domain.Profile) float64 {
	bmr := 88.362 + 13.397**p.Weight + 4.799**p.Height - 5.677*float64(*p.Age)

	multiplier := 1.55
	switch p.ActivityLevel {
	case domain.ActivitySedentary:
		multiplier = 1.2
	case domain.ActivityLight:
		multiplier = 1.375
	case domain.ActivityModerate:
		multiplier = 1.55
	case domain.ActivityActive:
		multiplier = 1.725
	case domain.ActivityVeryActive:
		multiplier = 1.9
	}

	target := bmr * multiplier
	switch p.Goal {
	case domain.GoalWeightLoss:
		target -= 500
	case domain.GoalWeightGain:
		target += 500
	}

	return target
}

func collect(records []*domain.DailyRecord, sample func(*domain.DailyRecord) (float64, bool)) []float64 {
	var out []float64
	for _, r := range records {
		if v, ok := sample(r); ok {
			out = append(out, v)
		}
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
