package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrInvalidProfile     = errors.New("invalid profile data")
)

const (
	ActivitySedentary  = "sedentary"
	ActivityLight      = "light"
	ActivityModerate   = "moderate"
	ActivityActive     = "active"
	ActivityVeryActive = "very_active"

	GoalWeightLoss = "weight_loss"
	GoalWeightGain = "weight_gain"
	GoalMaintain   = "maintain"
	GoalMuscleGain = "muscle_gain"
	GoalHealth     = "health"
)

// Profile carries the physical data the analytics and advice engines
// key off: calorie targets, hydration targets and goal progress all
// derive from weight/height/age.
type Profile struct {
	Age            *int     `json:"age,omitempty" db:"age"`
	Weight         *float64 `json:"weight,omitempty" db:"weight"`
	Height         *float64 `json:"height,omitempty" db:"height"`
	ActivityLevel  string   `json:"activity_level" db:"activity_level"`
	Goal           string   `json:"goal" db:"goal"`
	TargetWeight   *float64 `json:"target_weight,omitempty" db:"target_weight"`
	GymDaysPerWeek int      `json:"gym_days_per_week" db:"gym_days_per_week"`
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

func NewUser(id, email string) (*User, error) {
	email = strings.TrimSpace(email)

	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	now := time.Now().UTC()
	return &User{
		ID:    id,
		Email: strings.ToLower(email),
		Profile: Profile{
			ActivityLevel:  ActivityModerate,
			Goal:           GoalHealth,
			GymDaysPerWeek: 3,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (u *User) SetPassword(plainPassword string) error {
	if utf8.RuneCountInString(plainPassword) < 8 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plainPassword), 12)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) CheckPassword(plainPassword string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plainPassword))
}

// UpdateProfile replaces the profile wholesale after validating ranges.
func (u *User) UpdateProfile(p Profile) error {
	if p.Age != nil && (*p.Age < 1 || *p.Age > 130) {
		return ErrInvalidProfile
	}
	if p.Weight != nil && *p.Weight <= 0 {
		return ErrInvalidProfile
	}
	if p.Height != nil && *p.Height <= 0 {
		return ErrInvalidProfile
	}
	if p.TargetWeight != nil && *p.TargetWeight <= 0 {
		return ErrInvalidProfile
	}
	if p.GymDaysPerWeek < 0 || p.GymDaysPerWeek > 7 {
		return ErrInvalidProfile
	}

	switch p.ActivityLevel {
	case "", ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive:
	default:
		return ErrInvalidProfile
	}
	if p.ActivityLevel == "" {
		p.ActivityLevel = ActivityModerate
	}

	switch p.Goal {
	case "", GoalWeightLoss, GoalWeightGain, GoalMaintain, GoalMuscleGain, GoalHealth:
	default:
		return ErrInvalidProfile
	}
	if p.Goal == "" {
		p.Goal = GoalHealth
	}

	u.Profile = p
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
