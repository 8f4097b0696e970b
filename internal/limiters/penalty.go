package limiters

import (
	"sync"
	"time"
)

// Config tunes one penalty box instance.
type Config struct {
	Threshold    int
	RefillWindow time.Duration
	BanDuration  time.Duration
}

type bucket struct {
	mu          sync.Mutex
	gone        bool
	attempts    int
	lastFailure time.Time
	banUntil    time.Time // zero = not banned
}

// PenaltyBox tracks failed attempts per client key and decides ban state.
// The zero value is not usable; construct with [NewPenaltyBox].
type PenaltyBox struct {
	cfg     Config
	buckets sync.Map // string -> *bucket
	now     func() time.Time
}

// NewPenaltyBox returns a ready penalty box. All Config fields must be
// positive; the caller validates them.
func NewPenaltyBox(cfg Config) *PenaltyBox {
	return &PenaltyBox{cfg: cfg, now: time.Now}
}

// Banned reports whether the key is currently banned. No bucket or a zero ban
// horizon means false. A past ban horizon also means false and removes the
// bucket entirely, so the next failure starts from clean state.
func (p *PenaltyBox) Banned(key string) bool {
	_, banned := p.banState(key)
	return banned
}

// BanExpiry returns the ban horizon for a currently banned key. The second
// result is false when the key is not banned; callers must check Banned (or
// this flag) before trusting the timestamp.
func (p *PenaltyBox) BanExpiry(key string) (time.Time, bool) {
	return p.banState(key)
}

func (p *PenaltyBox) banState(key string) (time.Time, bool) {
	v, ok := p.buckets.Load(key)
	if !ok {
		return time.Time{}, false
	}

	b := v.(*bucket)
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.gone || b.banUntil.IsZero() {
		return time.Time{}, false
	}
	if p.now().Before(b.banUntil) {
		return b.banUntil, true
	}

	// Ban horizon passed: self-healing read clears the key's history.
	b.gone = true
	p.buckets.Delete(key)
	return time.Time{}, false
}

// RecordFailure counts one failed attempt for the key. Elapsed time beyond
// the refill window zeroes the counter before the attempt is counted; a stale
// expired ban is cleared the same way. Reaching the threshold sets the ban
// horizon and zeroes the counter.
func (p *PenaltyBox) RecordFailure(key string) {
	for {
		v, _ := p.buckets.LoadOrStore(key, &bucket{})
		b := v.(*bucket)

		b.mu.Lock()
		if b.gone {
			// Lost a race with a removal; the map entry is stale.
			b.mu.Unlock()
			continue
		}

		now := p.now()
		if !b.banUntil.IsZero() && !now.Before(b.banUntil) {
			b.banUntil = time.Time{}
			b.attempts = 0
			b.lastFailure = time.Time{}
		}
		if !b.lastFailure.IsZero() && now.Sub(b.lastFailure) >= p.cfg.RefillWindow {
			b.attempts = 0
		}

		b.attempts++
		b.lastFailure = now

		if b.attempts >= p.cfg.Threshold {
			b.banUntil = now.Add(p.cfg.BanDuration)
			b.attempts = 0
		}

		b.mu.Unlock()
		return
	}
}

// Reset removes the key's bucket unconditionally, clearing counter and ban
// state. Called on successful authentication.
func (p *PenaltyBox) Reset(key string) {
	v, ok := p.buckets.Load(key)
	if !ok {
		return
	}

	b := v.(*bucket)
	b.mu.Lock()
	b.gone = true
	b.mu.Unlock()

	p.buckets.Delete(key)
}
