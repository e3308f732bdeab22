package services

import (
	"math/rand"
	"time"
)

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// MathRandSource is the production RandomSource, backed by math/rand.
type MathRandSource struct{}

func (MathRandSource) Choice(n int) int {
	if n <= 1 {
		return 0
	}
	return rand.Intn(n)
}
