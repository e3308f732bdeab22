package domain

import (
	"errors"
	"regexp"
	"sort"
	"time"

	"github.com/google/uuid"
)

var (
	ErrConfigNotFound     = errors.New("reminder config not found")
	ErrInvalidTime        = errors.New("invalid reminder time (must be HH:MM 24h)")
	ErrInvalidFrequency   = errors.New("invalid reminder frequency")
	ErrInvalidWeekdays    = errors.New("invalid weekdays (must be 0-6, 0 = Monday)")
	ErrInvalidInterval    = errors.New("interval must be positive")
	ErrInvalidQuietHours  = errors.New("quiet hours must both be set or both empty")
	ErrUnknownCategory    = errors.New("unknown reminder category")
)

var clockRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

// ReminderCategory is a closed set; adding a category without giving
// it a title and a message pool fails the exhaustiveness switch in
// Title/MessagePool rather than silently doing nothing.
type ReminderCategory string

const (
	ReminderBreakfast   ReminderCategory = "breakfast_reminder"
	ReminderLunch       ReminderCategory = "lunch_reminder"
	ReminderDinner      ReminderCategory = "dinner_reminder"
	ReminderWater       ReminderCategory = "water_reminder"
	ReminderExercise    ReminderCategory = "exercise_reminder"
	ReminderWeightCheck ReminderCategory = "weight_check"
	ReminderMoodCheck   ReminderCategory = "mood_check"
)

const (
	FrequencyOnce   = "once"
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
	FrequencyCustom = "custom"
)

// Title returns the notification title for a category.
func (c ReminderCategory) Title() (string, error) {
	switch c {
	case ReminderBreakfast, ReminderLunch, ReminderDinner:
		return "Meal Reminder", nil
	case ReminderWater:
		return "Hydration Reminder", nil
	case ReminderExercise:
		return "Exercise Reminder", nil
	case ReminderWeightCheck:
		return "Weight Check", nil
	case ReminderMoodCheck:
		return "Mood Check", nil
	}
	return "", ErrUnknownCategory
}

// DefaultMessage returns the fallback message used when a slot has no
// custom message configured.
func (c ReminderCategory) DefaultMessage() (string, error) {
	switch c {
	case ReminderBreakfast:
		return "Time for breakfast! Remember to include some protein.", nil
	case ReminderLunch:
		return "Lunchtime! Keep your meals balanced.", nil
	case ReminderDinner:
		return "Dinner time. Go for something light and nutritious.", nil
	case ReminderWater:
		return "Time to drink some water. Stay hydrated!", nil
	case ReminderExercise:
		return "Time to move! Your body will thank you.", nil
	case ReminderWeightCheck:
		return "Log today's weight to keep tracking your progress.", nil
	case ReminderMoodCheck:
		return "How are you feeling today? Log your mood.", nil
	}
	return "", ErrUnknownCategory
}

// ReminderSlot is one configured recurring notification. Fixed-time
// slots carry a Time; the water slot carries IntervalMinutes instead.
type ReminderSlot struct {
	Enabled         bool   `json:"enabled"`
	Time            string `json:"time,omitempty"`
	IntervalMinutes int    `json:"interval_minutes,omitempty"`
	Frequency       string `json:"frequency"`
	CustomDays      []int  `json:"custom_days,omitempty"`
	Message         string `json:"message,omitempty"`
}

func (s ReminderSlot) Validate() error {
	if s.Time != "" && !clockRegex.MatchString(s.Time) {
		return ErrInvalidTime
	}
	if s.IntervalMinutes < 0 {
		return ErrInvalidInterval
	}
	switch s.Frequency {
	case FrequencyOnce, FrequencyDaily, FrequencyWeekly, FrequencyCustom:
	default:
		return ErrInvalidFrequency
	}
	for _, d := range s.CustomDays {
		if d < 0 || d > 6 {
			return ErrInvalidWeekdays
		}
	}
	return nil
}

// MinutesOfDay parses the slot time into minutes since midnight.
// The slot must have been validated first.
func (s ReminderSlot) MinutesOfDay() int {
	if len(s.Time) != 5 {
		return -1
	}
	h := int(s.Time[0]-'0')*10 + int(s.Time[1]-'0')
	m := int(s.Time[3]-'0')*10 + int(s.Time[4]-'0')
	return h*60 + m
}

// MatchesWeekday reports whether the slot fires on the given weekday,
// with 0 = Monday through 6 = Sunday.
func (s ReminderSlot) MatchesWeekday(day int) bool {
	switch s.Frequency {
	case FrequencyDaily, FrequencyOnce:
		return true
	case FrequencyWeekly, FrequencyCustom:
		for _, d := range s.CustomDays {
			if d == day {
				return true
			}
		}
		return false
	}
	return false
}

// ReminderConfig is the per-user notification configuration: one slot
// per category plus the global enable flag and quiet hours.
type ReminderConfig struct {
	ID              string                            `json:"id" db:"id"`
	UserID          string                            `json:"user_id" db:"user_id"`
	Enabled         bool                              `json:"enabled" db:"enabled"`
	Slots           map[ReminderCategory]ReminderSlot `json:"slots"`
	QuietHoursStart string                            `json:"quiet_hours_start,omitempty" db:"quiet_hours_start"`
	QuietHoursEnd   string                            `json:"quiet_hours_end,omitempty" db:"quiet_hours_end"`
	CreatedAt       time.Time                         `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time                         `json:"updated_at" db:"updated_at"`
}

// DefaultReminderConfig mirrors the defaults users get on first use:
// three meals, a two-hour water interval, exercise Mon/Wed/Fri,
// a weekly Monday weigh-in and a nightly mood check.
func DefaultReminderConfig(userID string) *ReminderConfig {
	now := time.Now().UTC()
	return &ReminderConfig{
		ID:      uuid.NewString(),
		UserID:  userID,
		Enabled: true,
		Slots: map[ReminderCategory]ReminderSlot{
			ReminderBreakfast:   {Enabled: true, Time: "08:00", Frequency: FrequencyDaily},
			ReminderLunch:       {Enabled: true, Time: "13:00", Frequency: FrequencyDaily},
			ReminderDinner:      {Enabled: true, Time: "19:00", Frequency: FrequencyDaily},
			ReminderWater:       {Enabled: true, IntervalMinutes: 120, Frequency: FrequencyDaily},
			ReminderExercise:    {Enabled: true, Time: "17:00", Frequency: FrequencyCustom, CustomDays: []int{0, 2, 4}},
			ReminderWeightCheck: {Enabled: true, Time: "07:00", Frequency: FrequencyWeekly, CustomDays: []int{0}},
			ReminderMoodCheck:   {Enabled: true, Time: "21:00", Frequency: FrequencyDaily},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *ReminderConfig) Validate() error {
	if (c.QuietHoursStart == "") != (c.QuietHoursEnd == "") {
		return ErrInvalidQuietHours
	}
	if c.QuietHoursStart != "" && !clockRegex.MatchString(c.QuietHoursStart) {
		return ErrInvalidTime
	}
	if c.QuietHoursEnd != "" && !clockRegex.MatchString(c.QuietHoursEnd) {
		return ErrInvalidTime
	}
	for cat, slot := range c.Slots {
		if _, err := cat.Title(); err != nil {
			return err
		}
		if err := slot.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// SetSlot replaces one slot after validation.
func (c *ReminderConfig) SetSlot(cat ReminderCategory, slot ReminderSlot) error {
	if _, err := cat.Title(); err != nil {
		return err
	}
	if err := slot.Validate(); err != nil {
		return err
	}
	if c.Slots == nil {
		c.Slots = make(map[ReminderCategory]ReminderSlot)
	}
	c.Slots[cat] = slot
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// InQuietHours reports whether t falls inside the configured quiet
// window. The comparison assumes start <= end.
// TODO: a window crossing midnight (e.g. 22:00-06:00) never matches.
func (c *ReminderConfig) InQuietHours(t time.Time) bool {
	if c.QuietHoursStart == "" || c.QuietHoursEnd == "" {
		return false
	}
	now := t.Hour()*60 + t.Minute()
	start := parseClockMinutes(c.QuietHoursStart)
	end := parseClockMinutes(c.QuietHoursEnd)
	return start <= now && now <= end
}

// Categories returns the configured categories in a stable order so
// scheduler output is deterministic.
func (c *ReminderConfig) Categories() []ReminderCategory {
	cats := make([]ReminderCategory, 0, len(c.Slots))
	for cat := range c.Slots {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool { return categoryRank(cats[i]) < categoryRank(cats[j]) })
	return cats
}

func categoryRank(c ReminderCategory) int {
	switch c {
	case ReminderBreakfast:
		return 0
	case ReminderLunch:
		return 1
	case ReminderDinner:
		return 2
	case ReminderWater:
		return 3
	case ReminderExercise:
		return 4
	case ReminderWeightCheck:
		return 5
	case ReminderMoodCheck:
		return 6
	}
	return 7
}

func parseClockMinutes(s string) int {
	if len(s) != 5 {
		return -1
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	return h*60 + m
}

// SchedulerWeekday converts Go's Sunday-based weekday to the 0=Monday
// convention used by reminder slots.
func SchedulerWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
