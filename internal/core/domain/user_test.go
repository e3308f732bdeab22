package domain

import (
	"testing"
	"time"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("Should create user with normalized email", func(t *testing.T) {
		t.Parallel()

		dirtyEmail := "  Test.User@Gmail.COM  "
		id := "123"

		user, err := NewUser(id, dirtyEmail)

		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		expectedEmail := "test.user@gmail.com"
		if user.Email != expectedEmail {
			t.Errorf("Expected email %s, got %s", expectedEmail, user.Email)
		}

		if user.ID != id {
			t.Errorf("Expected id %s, got %s", id, user.ID)
		}

		if user.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}

		if user.Profile.ActivityLevel != ActivityModerate || user.Profile.Goal != GoalHealth {
			t.Errorf("Expected default profile, got %+v", user.Profile)
		}
	})

	t.Run("Should fail with invalid email", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("123", "invalid-email-format")

		if err != ErrInvalidEmail {
			t.Errorf("Expected ErrInvalidEmail, got %v", err)
		}
	})
}

func TestUserPassword(t *testing.T) {
	t.Parallel()

	t.Run("Should hash password correctly and update timestamp", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")
		plainPass := "superSecret123"

		oldUpdatedAt := user.UpdatedAt

		time.Sleep(1 * time.Millisecond)

		err := user.SetPassword(plainPass)
		if err != nil {
			t.Fatalf("Expected no error setting password, got %v", err)
		}

		if user.PasswordHash == plainPass {
			t.Error("Password should be hashed, not plain text")
		}

		if len(user.PasswordHash) == 0 {
			t.Error("Password hash should not be empty")
		}

		if !user.UpdatedAt.After(oldUpdatedAt) {
			t.Error("UpdatedAt should be updated after setting password")
		}
	})

	t.Run("Should validate password length", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")

		err := user.SetPassword("short")
		if err != ErrPasswordTooShort {
			t.Errorf("Expected ErrPasswordTooShort, got %v", err)
		}
	})

	t.Run("CheckPassword should work", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")
		pass := "correctPassword"
		_ = user.SetPassword(pass)

		if err := user.CheckPassword(pass); err != nil {
			t.Errorf("Expected password to match, got error: %v", err)
		}

		if err := user.CheckPassword("wrongPassword"); err == nil {
			t.Error("Expected error for wrong password, got nil")
		}
	})
}

func TestUserUpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("Should replace the profile wholesale", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")

		err := user.UpdateProfile(Profile{
			Age:            intPtr(30),
			Weight:         floatPtr(80),
			Height:         floatPtr(180),
			ActivityLevel:  ActivityActive,
			Goal:           GoalWeightLoss,
			TargetWeight:   floatPtr(75),
			GymDaysPerWeek: 4,
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		if user.Profile.Goal != GoalWeightLoss {
			t.Errorf("Expected goal weight_loss, got %s", user.Profile.Goal)
		}
		if user.Profile.Weight == nil || *user.Profile.Weight != 80 {
			t.Errorf("Expected weight 80, got %v", user.Profile.Weight)
		}
	})

	t.Run("Should default empty enums", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")

		if err := user.UpdateProfile(Profile{GymDaysPerWeek: 2}); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if user.Profile.ActivityLevel != ActivityModerate {
			t.Errorf("Expected moderate default, got %s", user.Profile.ActivityLevel)
		}
		if user.Profile.Goal != GoalHealth {
			t.Errorf("Expected health default, got %s", user.Profile.Goal)
		}
	})

	t.Run("Should reject out-of-range values", func(t *testing.T) {
		t.Parallel()
		user, _ := NewUser("123", "test@test.com")

		cases := []Profile{
			{Age: intPtr(0)},
			{Age: intPtr(131)},
			{Weight: floatPtr(-1)},
			{Height: floatPtr(0)},
			{TargetWeight: floatPtr(-5)},
			{GymDaysPerWeek: 8},
			{ActivityLevel: "olympic"},
			{Goal: "world_domination"},
		}

		for _, p := range cases {
			if err := user.UpdateProfile(p); err != ErrInvalidProfile {
				t.Errorf("Expected ErrInvalidProfile for %+v, got %v", p, err)
			}
		}
	})
}
