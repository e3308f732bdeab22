package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int             { return &v }
func floatPtr(v float64) *float64   { return &v }
func strPtr(v string) *string       { return &v }

func TestNewDailyRecord(t *testing.T) {
	loc, _ := time.LoadLocation("Europe/Rome")
	if loc == nil {
		loc = time.UTC
	}

	input := time.Date(2026, 3, 14, 17, 42, 8, 0, loc)
	record := NewDailyRecord("user-1", input)

	assert.Equal(t, "user-1", record.UserID)
	assert.NotEmpty(t, record.ID)
	assert.False(t, record.CreatedAt.IsZero())

	t.Run("Should truncate date to midnight", func(t *testing.T) {
		assert.Equal(t, 0, record.Date.Hour())
		assert.Equal(t, 0, record.Date.Minute())
		assert.Equal(t, input.Day(), record.Date.Day())
	})
}

func TestHealthSnapshot_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		snapshot HealthSnapshot
		wantErr  error
	}{
		{"valid full snapshot", HealthSnapshot{Weight: floatPtr(80.5), EnergyLevel: intPtr(7), Mood: intPtr(10), SleepHours: floatPtr(7.5)}, nil},
		{"empty snapshot is valid", HealthSnapshot{}, nil},
		{"mood above scale", HealthSnapshot{Mood: intPtr(11)}, ErrInvalidScale},
		{"energy below scale", HealthSnapshot{EnergyLevel: intPtr(0)}, ErrInvalidScale},
		{"stress below scale", HealthSnapshot{StressLevel: intPtr(-3)}, ErrInvalidScale},
		{"negative weight", HealthSnapshot{Weight: floatPtr(-1)}, ErrInvalidMetric},
		{"sleep beyond a day", HealthSnapshot{SleepHours: floatPtr(25)}, ErrInvalidMetric},
		{"body fat over 100", HealthSnapshot{BodyFat: floatPtr(101)}, ErrInvalidMetric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.snapshot.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestActivityTotals_Merge(t *testing.T) {
	t.Parallel()

	t.Run("Counters are added", func(t *testing.T) {
		base := ActivityTotals{GymSessions: 1, CardioMinutes: 30, StudyMinutes: 60}
		patch := ActivityTotals{GymSessions: 1, CardioMinutes: 15}

		merged := base.Merge(patch)

		assert.Equal(t, 2, merged.GymSessions)
		assert.Equal(t, 45, merged.CardioMinutes)
		assert.Equal(t, 60, merged.StudyMinutes)
	})

	t.Run("Steps: latest non-nil wins", func(t *testing.T) {
		base := ActivityTotals{Steps: intPtr(4000)}

		merged := base.Merge(ActivityTotals{Steps: intPtr(9500)})
		require.NotNil(t, merged.Steps)
		assert.Equal(t, 9500, *merged.Steps)

		unchanged := base.Merge(ActivityTotals{})
		require.NotNil(t, unchanged.Steps)
		assert.Equal(t, 4000, *unchanged.Steps)
	})

	t.Run("CaloriesBurned is summed", func(t *testing.T) {
		base := ActivityTotals{CaloriesBurned: floatPtr(200)}

		merged := base.Merge(ActivityTotals{CaloriesBurned: floatPtr(150)})
		require.NotNil(t, merged.CaloriesBurned)
		assert.Equal(t, 350.0, *merged.CaloriesBurned)

		fromNil := ActivityTotals{}.Merge(ActivityTotals{CaloriesBurned: floatPtr(99)})
		require.NotNil(t, fromNil.CaloriesBurned)
		assert.Equal(t, 99.0, *fromNil.CaloriesBurned)
	})
}

func TestDailyRecord_Apply(t *testing.T) {
	t.Parallel()

	t.Run("Health is replaced wholesale", func(t *testing.T) {
		record := NewDailyRecord("user-1", time.Now())
		require.NoError(t, record.Apply(&HealthSnapshot{Weight: floatPtr(82), Mood: intPtr(6)}, nil, nil))

		// A second submission without mood must drop the old mood.
		require.NoError(t, record.Apply(&HealthSnapshot{Weight: floatPtr(81.5)}, nil, nil))

		require.NotNil(t, record.Health.Weight)
		assert.Equal(t, 81.5, *record.Health.Weight)
		assert.Nil(t, record.Health.Mood)
	})

	t.Run("Nil sections leave the record untouched", func(t *testing.T) {
		record := NewDailyRecord("user-1", time.Now())
		require.NoError(t, record.Apply(&HealthSnapshot{Mood: intPtr(8)}, nil, strPtr("good day")))

		require.NoError(t, record.Apply(nil, nil, nil))

		require.NotNil(t, record.Health.Mood)
		assert.Equal(t, 8, *record.Health.Mood)
		assert.Equal(t, "good day", record.Notes)
	})

	t.Run("Activity accumulates across submissions", func(t *testing.T) {
		record := NewDailyRecord("user-1", time.Now())
		require.NoError(t, record.Apply(nil, &ActivityTotals{GymSessions: 1}, nil))
		require.NoError(t, record.Apply(nil, &ActivityTotals{GymSessions: 1, CardioMinutes: 20}, nil))

		assert.Equal(t, 2, record.Activity.GymSessions)
		assert.Equal(t, 20, record.Activity.CardioMinutes)
	})

	t.Run("Invalid health rejects the whole submission", func(t *testing.T) {
		record := NewDailyRecord("user-1", time.Now())

		err := record.Apply(&HealthSnapshot{Mood: intPtr(15)}, &ActivityTotals{GymSessions: 1}, nil)

		assert.ErrorIs(t, err, ErrInvalidScale)
		assert.Equal(t, 0, record.Activity.GymSessions)
	})
}

func TestDayBounds(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 7, 9, 13, 30, 45, 123, time.UTC)

	start := DayStart(ts)
	end := DayEnd(ts)

	assert.Equal(t, time.Date(2026, 7, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Minute())
	assert.True(t, end.Before(time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)))
}

func TestDaysBetween(t *testing.T) {
	t.Parallel()

	t.Run("Counts inclusive calendar days", func(t *testing.T) {
		t.Parallel()
		start := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 7, 10, 23, 0, 0, 0, time.UTC)

		assert.Equal(t, 10, DaysBetween(start, end))
		assert.Equal(t, 1, DaysBetween(start, start))
	})

	t.Run("Unaffected by a DST transition", func(t *testing.T) {
		t.Parallel()
		loc, err := time.LoadLocation("America/New_York")
		if err != nil {
			t.Skipf("Skipping, tzdata not available: %v", err)
		}

		// 2026-03-08 springs forward in this location, so the span
		// contains a 23h day.
		start := time.Date(2026, 3, 7, 12, 0, 0, 0, loc)
		end := time.Date(2026, 3, 9, 12, 0, 0, 0, loc)

		assert.Equal(t, 3, DaysBetween(start, end))
	})
}
