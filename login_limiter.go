package labauth

import (
	"time"

	"github.com/labforge/labauth/internal/limiters"
)

// loginLimiter is the penalty box keyed by client key (IP or device
// fingerprint) guarding Login.
type loginLimiter struct {
	box *limiters.PenaltyBox
}

func newLoginLimiter(cfg LimiterConfig) *loginLimiter {
	return &loginLimiter{
		box: limiters.NewPenaltyBox(limiters.Config{
			Threshold:    cfg.MaxAttempts,
			RefillWindow: cfg.RefillWindow,
			BanDuration:  cfg.BanDuration,
		}),
	}
}

func (l *loginLimiter) isBanned(key string) bool {
	if key == "" {
		return false
	}
	return l.box.Banned(key)
}

func (l *loginLimiter) banExpiry(key string) (time.Time, bool) {
	return l.box.BanExpiry(key)
}

func (l *loginLimiter) recordFailedAttempt(key string) {
	if key == "" {
		return
	}
	l.box.RecordFailure(key)
}

func (l *loginLimiter) resetAttempts(key string) {
	if key == "" {
		return
	}
	l.box.Reset(key)
}
