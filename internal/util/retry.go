package util

import (
	"math/rand/v2"
	"time"
)

// maxBackoff caps the delay between retries regardless of attempt count.
const maxBackoff = 20 * time.Second

// Backoff returns the delay before the given retry attempt: exponential in
// the attempt number with up to ±20% jitter. Attempt 0 (the first try) has
// no delay.
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt <= 0 || base <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	d := base << uint(attempt-1)
	if d > maxBackoff || d < 0 {
		d = maxBackoff
	}
	// jitter in [-20%, +20%)
	jitter := time.Duration(rand.Int64N(int64(d)*2/5)) - d/5
	return d + jitter
}
