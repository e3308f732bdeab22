package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRecordNotFound = errors.New("daily record not found")
	ErrInvalidScale   = errors.New("scale values must be between 1 and 10")
	ErrInvalidMetric  = errors.New("metric values cannot be negative")
)

// HealthSnapshot holds the self-reported health metrics for one day.
// Every field is optional; 1-10 scales are validated on write.
type HealthSnapshot struct {
	Weight      *float64 `json:"weight,omitempty" db:"weight"`
	BodyFat     *float64 `json:"body_fat,omitempty" db:"body_fat"`
	EnergyLevel *int     `json:"energy_level,omitempty" db:"energy_level"`
	Mood        *int     `json:"mood,omitempty" db:"mood"`
	StressLevel *int     `json:"stress_level,omitempty" db:"stress_level"`
	SleepHours  *float64 `json:"sleep_hours,omitempty" db:"sleep_hours"`
}

func (h HealthSnapshot) Validate() error {
	for _, v := range []*int{h.EnergyLevel, h.Mood, h.StressLevel} {
		if v != nil && (*v < 1 || *v > 10) {
			return ErrInvalidScale
		}
	}
	if h.Weight != nil && *h.Weight <= 0 {
		return ErrInvalidMetric
	}
	if h.BodyFat != nil && (*h.BodyFat < 0 || *h.BodyFat > 100) {
		return ErrInvalidMetric
	}
	if h.SleepHours != nil && (*h.SleepHours < 0 || *h.SleepHours > 24) {
		return ErrInvalidMetric
	}
	return nil
}

// HasAny reports whether at least one of the metrics the consistency
// scorer cares about is present.
func (h HealthSnapshot) HasAny() bool {
	return h.Weight != nil || h.EnergyLevel != nil || h.Mood != nil
}

// NutritionTotals is derived from the raw food/water entries of the
// day. It is recomputed on every record write and never accepted from
// the client.
type NutritionTotals struct {
	CaloriesConsumed float64 `json:"calories_consumed" db:"calories_consumed"`
	ProteinConsumed  float64 `json:"protein_consumed" db:"protein_consumed"`
	CarbsConsumed    float64 `json:"carbs_consumed" db:"carbs_consumed"`
	FatsConsumed     float64 `json:"fats_consumed" db:"fats_consumed"`
	WaterConsumed    float64 `json:"water_consumed" db:"water_consumed"`
	MealsLogged      int     `json:"meals_logged" db:"meals_logged"`
	AlcoholUnits     float64 `json:"alcohol_units" db:"alcohol_units"`
}

// ActivityTotals accumulate across repeated submissions for the same
// day. Steps is a snapshot from a tracker, not an increment, so the
// latest non-nil value wins instead of being summed.
type ActivityTotals struct {
	GymSessions      int      `json:"gym_sessions" db:"gym_sessions"`
	CardioMinutes    int      `json:"cardio_minutes" db:"cardio_minutes"`
	StrengthMinutes  int      `json:"strength_minutes" db:"strength_minutes"`
	WorkMinutes      int      `json:"work_minutes" db:"work_minutes"`
	LeisureMinutes   int      `json:"leisure_minutes" db:"leisure_minutes"`
	RestMinutes      int      `json:"rest_minutes" db:"rest_minutes"`
	StudyMinutes     int      `json:"study_minutes" db:"study_minutes"`
	SocialMinutes    int      `json:"social_minutes" db:"social_minutes"`
	Steps            *int     `json:"steps,omitempty" db:"steps"`
	CaloriesBurned   *float64 `json:"calories_burned,omitempty" db:"calories_burned"`
}

func (a ActivityTotals) Validate() error {
	for _, v := range []int{
		a.GymSessions, a.CardioMinutes, a.StrengthMinutes, a.WorkMinutes,
		a.LeisureMinutes, a.RestMinutes, a.StudyMinutes, a.SocialMinutes,
	} {
		if v < 0 {
			return ErrInvalidMetric
		}
	}
	if a.Steps != nil && *a.Steps < 0 {
		return ErrInvalidMetric
	}
	if a.CaloriesBurned != nil && *a.CaloriesBurned < 0 {
		return ErrInvalidMetric
	}
	return nil
}

// Merge adds patch counters onto the receiver and returns the result.
func (a ActivityTotals) Merge(patch ActivityTotals) ActivityTotals {
	merged := ActivityTotals{
		GymSessions:     a.GymSessions + patch.GymSessions,
		CardioMinutes:   a.CardioMinutes + patch.CardioMinutes,
		StrengthMinutes: a.StrengthMinutes + patch.StrengthMinutes,
		WorkMinutes:     a.WorkMinutes + patch.WorkMinutes,
		LeisureMinutes:  a.LeisureMinutes + patch.LeisureMinutes,
		RestMinutes:     a.RestMinutes + patch.RestMinutes,
		StudyMinutes:    a.StudyMinutes + patch.StudyMinutes,
		SocialMinutes:   a.SocialMinutes + patch.SocialMinutes,
		Steps:           a.Steps,
	}

	if patch.Steps != nil {
		merged.Steps = patch.Steps
	}

	if a.CaloriesBurned != nil || patch.CaloriesBurned != nil {
		sum := 0.0
		if a.CaloriesBurned != nil {
			sum += *a.CaloriesBurned
		}
		if patch.CaloriesBurned != nil {
			sum += *patch.CaloriesBurned
		}
		merged.CaloriesBurned = &sum
	}

	return merged
}

// DailyRecord is the one-per-(user, date) aggregate. Uniqueness is a
// hard invariant enforced by the reconciler together with the storage
// layer's upsert.
type DailyRecord struct {
	ID        string          `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	Date      time.Time       `json:"date" db:"date"`
	Health    HealthSnapshot  `json:"health_metrics"`
	Nutrition NutritionTotals `json:"nutrition_metrics"`
	Activity  ActivityTotals  `json:"activity_metrics"`
	Notes     string          `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

func NewDailyRecord(userID string, date time.Time) *DailyRecord {
	now := time.Now().UTC()
	return &DailyRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Date:      DayStart(date),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply folds one submission into the record: health replaced
// wholesale when supplied, activity merged additively, notes replaced
// when supplied. Nutrition totals are set separately by the
// reconciler since they come from the aggregator, not the client.
func (r *DailyRecord) Apply(health *HealthSnapshot, activity *ActivityTotals, notes *string) error {
	if health != nil {
		if err := health.Validate(); err != nil {
			return err
		}
		r.Health = *health
	}
	if activity != nil {
		if err := activity.Validate(); err != nil {
			return err
		}
		r.Activity = r.Activity.Merge(*activity)
	}
	if notes != nil {
		r.Notes = *notes
	}
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// DayStart truncates a timestamp to local midnight of its calendar day.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayEnd returns the last representable instant of the calendar day.
func DayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// DaysBetween counts inclusive calendar days from start to end.
// The dates are normalized to UTC so DST transitions in the inputs'
// locations cannot shorten a day below 24h and skew the count.
func DaysBetween(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}
