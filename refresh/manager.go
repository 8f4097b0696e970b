package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrStoreUnavailable wraps every persistence failure surfaced by a [Store].
// It is an operational failure: callers must fail closed, never treat it as
// "token absent".
var ErrStoreUnavailable = errors.New("backing store unavailable")

// Token is one outstanding refresh credential.
type Token struct {
	ID          string
	PrincipalID string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// Expired reports whether the token's lifetime has passed at the given
// instant.
func (t *Token) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Store persists refresh tokens. FindByTokenID returns (nil, nil) for absent
// rows; errors are reserved for infrastructure failures. DeleteByTokenID is
// idempotent and reports whether this call removed the row, which is what
// makes single-use redemption race-free. PurgeExpired is the
// scheduled-cleanup contract for
// expired-but-present rows; stores whose backend expires rows natively may
// report zero.
type Store interface {
	FindByTokenID(ctx context.Context, id string) (*Token, error)
	Save(ctx context.Context, token *Token) error
	DeleteByTokenID(ctx context.Context, id string) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// Manager issues, verifies, and deletes refresh tokens against a Store.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

// NewManager returns a Manager issuing tokens with the given TTL.
func NewManager(store Store, ttl time.Duration) (*Manager, error) {
	if store == nil {
		return nil, errors.New("nil refresh store")
	}
	if ttl <= 0 {
		return nil, errors.New("invalid refresh TTL")
	}

	return &Manager{store: store, ttl: ttl, now: time.Now}, nil
}

// Generate creates, persists, and returns a new token for the principal. The
// id is not guessable: uuid v4 from crypto/rand.
func (m *Manager) Generate(ctx context.Context, principalID string) (*Token, error) {
	if principalID == "" {
		return nil, errors.New("empty principal id")
	}

	now := m.now()
	token := &Token{
		ID:          uuid.NewString(),
		PrincipalID: principalID,
		CreatedAt:   now,
		ExpiresAt:   now.Add(m.ttl),
	}

	if err := m.store.Save(ctx, token); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return token, nil
}

// Verify looks up a token by id. Absent and expired tokens both yield
// (nil, nil); expired rows are left in place for the store's sweep.
func (m *Manager) Verify(ctx context.Context, tokenID string) (*Token, error) {
	if tokenID == "" {
		return nil, nil
	}

	token, err := m.store.FindByTokenID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if token == nil || token.Expired(m.now()) {
		return nil, nil
	}
	return token, nil
}

// Delete removes a token. Deleting an absent token succeeds; logout relies
// on this idempotence.
func (m *Manager) Delete(ctx context.Context, tokenID string) error {
	_, err := m.Claim(ctx, tokenID)
	return err
}

// Claim removes a token and reports whether this call was the one that
// removed it. Concurrent redemptions of the same token resolve to exactly
// one true.
func (m *Manager) Claim(ctx context.Context, tokenID string) (bool, error) {
	removed, err := m.store.DeleteByTokenID(ctx, tokenID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return removed, nil
}

// PurgeExpired sweeps expired rows from the store and reports how many were
// removed.
func (m *Manager) PurgeExpired(ctx context.Context) (int, error) {
	n, err := m.store.PurgeExpired(ctx, m.now())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return n, nil
}
