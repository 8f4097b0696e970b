package labauth

import (
	"time"

	"github.com/labforge/labauth/internal/limiters"
)

// resetLimiter is the penalty box keyed by principal id guarding
// UpdatePassword. Unlike the login box it counts every attempt, successful
// or not: the attempt itself is the abuse signal.
type resetLimiter struct {
	box *limiters.PenaltyBox
}

func newResetLimiter(cfg LimiterConfig) *resetLimiter {
	return &resetLimiter{
		box: limiters.NewPenaltyBox(limiters.Config{
			Threshold:    cfg.MaxAttempts,
			RefillWindow: cfg.RefillWindow,
			BanDuration:  cfg.BanDuration,
		}),
	}
}

func (l *resetLimiter) isBanned(principalID string) bool {
	if principalID == "" {
		return false
	}
	return l.box.Banned(principalID)
}

func (l *resetLimiter) banExpiry(principalID string) (time.Time, bool) {
	return l.box.BanExpiry(principalID)
}

func (l *resetLimiter) recordAttempt(principalID string) {
	if principalID == "" {
		return
	}
	l.box.RecordFailure(principalID)
}
