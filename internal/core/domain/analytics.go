package domain

import "time"

type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

type WeeklyTrend struct {
	MetricName       string         `json:"metric_name"`
	CurrentValue     float64        `json:"current_value"`
	PreviousValue    float64        `json:"previous_value"`
	ChangePercentage float64        `json:"change_percentage"`
	Direction        TrendDirection `json:"direction"`
}

type MonthlyProgress struct {
	Month            string   `json:"month"`
	WeightChange     *float64 `json:"weight_change,omitempty"`
	AvgCalories      *float64 `json:"avg_calories,omitempty"`
	AvgProtein       *float64 `json:"avg_protein,omitempty"`
	GymSessions      int      `json:"gym_sessions"`
	ConsistencyScore float64  `json:"consistency_score"`
}

type GoalProgress struct {
	GoalType           string  `json:"goal_type"`
	TargetValue        float64 `json:"target_value"`
	CurrentValue       float64 `json:"current_value"`
	ProgressPercentage float64 `json:"progress_percentage"`
	IsOnTrack          bool    `json:"is_on_track"`
}

// ConsistencyReport carries the logging-adherence percentages for a
// period. Values are not clamped, so a record count above the period
// length would read over 100.
type ConsistencyReport struct {
	Overall       float64 `json:"overall_consistency"`
	MealLogging   float64 `json:"meal_logging_consistency"`
	WaterLogging  float64 `json:"water_logging_consistency"`
	HealthMetrics float64 `json:"health_metrics_consistency"`
	TotalDays     int     `json:"total_days_in_period"`
	DaysWithData  int     `json:"days_with_data"`
}

// AnalyticsSummary is derived per request and never stored.
type AnalyticsSummary struct {
	UserID          string            `json:"user_id"`
	PeriodStart     time.Time         `json:"period_start"`
	PeriodEnd       time.Time         `json:"period_end"`
	WeeklyTrends    []WeeklyTrend     `json:"weekly_trends"`
	MonthlyProgress []MonthlyProgress `json:"monthly_progress"`
	Achievements    []string          `json:"achievements"`
	Recommendations []string          `json:"recommendations"`
	Consistency     ConsistencyReport `json:"consistency_metrics"`
}

// NutritionGoals are the per-user daily targets derived from the
// profile (Harris-Benedict with activity multiplier).
type NutritionGoals struct {
	DailyCalories float64 `json:"daily_calories"`
	DailyProtein  float64 `json:"daily_protein"`
	DailyCarbs    float64 `json:"daily_carbs"`
	DailyFats     float64 `json:"daily_fats"`
	DailyWater    float64 `json:"daily_water"`
}
