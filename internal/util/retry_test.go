package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_FirstAttemptHasNoDelay(t *testing.T) {
	assert.Zero(t, Backoff(time.Second, 0))
	assert.Zero(t, Backoff(time.Second, -1))
	assert.Zero(t, Backoff(0, 3))
}

func TestBackoff_GrowsExponentially(t *testing.T) {
	base := 100 * time.Millisecond
	for attempt, want := range map[int]time.Duration{
		1: 100 * time.Millisecond,
		2: 200 * time.Millisecond,
		3: 400 * time.Millisecond,
	} {
		for i := 0; i < 50; i++ {
			d := Backoff(base, attempt)
			assert.GreaterOrEqual(t, d, want*8/10, "attempt %d", attempt)
			assert.LessOrEqual(t, d, want*12/10, "attempt %d", attempt)
		}
	}
}

func TestBackoff_Capped(t *testing.T) {
	for i := 0; i < 50; i++ {
		d := Backoff(time.Second, 30)
		assert.GreaterOrEqual(t, d, 16*time.Second)
		assert.LessOrEqual(t, d, 24*time.Second)
	}
}

func TestBackoff_HugeAttemptDoesNotOverflow(t *testing.T) {
	d := Backoff(time.Second, 1000)
	assert.Greater(t, d, time.Duration(0))
	assert.LessOrEqual(t, d, 24*time.Second)
}
