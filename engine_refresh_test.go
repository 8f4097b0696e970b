package labauth

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func loginForTokens(t *testing.T, engine *Engine) *LoginResult {
	t.Helper()

	result, err := engine.Login(context.Background(), "alice@lab.example", "correct-horse-Battery1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	return result
}

func TestRefreshIsSingleUse(t *testing.T) {
	cs := newMockCredentialStore()
	seedPrincipal(t, cs, "p-1", "alice@lab.example", "correct-horse-Battery1", "scientist")
	engine := newTestEngine(t, testConfig(), cs)
	ctx := context.Background()

	result := loginForTokens(t, engine)

	rotated, err := engine.Refresh(ctx, result.RefreshToken)
	if err != nil {
		t.Fatalf("first redemption failed: %v", err)
	}
	if rotated.AccessToken == "" || rotated.RefreshToken == "" {
		t.Fatalf("incomplete rotated pair: %+v", rotated)
	}

	if _, err := engine.Refresh(ctx, result.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("second redemption: err = %v, want ErrRefreshInvalid", err)
	}

	// The replacement token still works.
	if _, err := engine.Refresh(ctx, rotated.RefreshToken); err != nil {
		t.Fatalf("replacement redemption failed: %v", err)
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	cs := newMockCredentialStore()
	engine := newTestEngine(t, testConfig(), cs)

	_, err := engine.Refresh(context.Background(), "never-issued")
	if !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("err = %v, want ErrRefreshInvalid", err)
	}
}

func TestRefreshPrincipalGoneAfterIssuance(t *testing.T) {
	cs := newMockCredentialStore()
	seedPrincipal(t, cs, "p-1", "alice@lab.example", "correct-horse-Battery1", "scientist")
	engine := newTestEngine(t, testConfig(), cs)
	ctx := context.Background()

	result := loginForTokens(t, engine)

	cs.mu.Lock()
	delete(cs.byID, "p-1")
	cs.mu.Unlock()

	if _, err := engine.Refresh(ctx, result.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("err = %v, want ErrRefreshInvalid", err)
	}
}

func TestRefreshPrincipalDeactivatedAfterIssuance(t *testing.T) {
	cs := newMockCredentialStore()
	seedPrincipal(t, cs, "p-1", "alice@lab.example", "correct-horse-Battery1", "scientist")
	engine := newTestEngine(t, testConfig(), cs)
	ctx := context.Background()

	result := loginForTokens(t, engine)

	cs.mu.Lock()
	cs.byID["p-1"].Active = false
	cs.mu.Unlock()

	if _, err := engine.Refresh(ctx, result.RefreshToken); !errors.Is(err, ErrAccountUnavailable) {
		t.Fatalf("err = %v, want ErrAccountUnavailable", err)
	}
}

func TestRefreshConcurrentRedemptionHasOneWinner(t *testing.T) {
	cs := newMockCredentialStore()
	seedPrincipal(t, cs, "p-1", "alice@lab.example", "correct-horse-Battery1", "scientist")
	engine := newTestEngine(t, testConfig(), cs)
	ctx := context.Background()

	result := loginForTokens(t, engine)

	const racers = 8
	var wg sync.WaitGroup
	outcomes := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Refresh(ctx, result.RefreshToken)
			outcomes <- err
		}()
	}
	wg.Wait()
	close(outcomes)

	wins := 0
	for err := range outcomes {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrRefreshInvalid):
		default:
			t.Fatalf("unexpected outcome: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	cs := newMockCredentialStore()
	seedPrincipal(t, cs, "p-1", "alice@lab.example", "correct-horse-Battery1", "scientist")
	engine := newTestEngine(t, testConfig(), cs)
	ctx := context.Background()

	result := loginForTokens(t, engine)

	if err := engine.Logout(ctx, result.RefreshToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if err := engine.Logout(ctx, result.RefreshToken); err != nil {
		t.Fatalf("repeated Logout must succeed, got %v", err)
	}

	if _, err := engine.Refresh(ctx, result.RefreshToken); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("post-logout redemption: err = %v, want ErrRefreshInvalid", err)
	}
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	cs := newMockCredentialStore()
	seedPrincipal(t, cs, "p-1", "alice@lab.example", "correct-horse-Battery1", "scientist")
	engine := newTestEngine(t, testConfig(), cs)

	result := loginForTokens(t, engine)

	tampered := result.AccessToken[:len(result.AccessToken)-2] + "xx"
	if _, err := engine.Validate(context.Background(), tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateDoesNotSeeLaterAccountChanges(t *testing.T) {
	cs := newMockCredentialStore()
	seedPrincipal(t, cs, "p-1", "alice@lab.example", "correct-horse-Battery1", "scientist")
	engine := newTestEngine(t, testConfig(), cs)
	ctx := context.Background()

	result := loginForTokens(t, engine)

	// Validate is store-free: deactivating the account does not invalidate
	// an outstanding access token. The access TTL bounds the exposure.
	cs.mu.Lock()
	cs.byID["p-1"].Active = false
	cs.mu.Unlock()

	if _, err := engine.Validate(ctx, result.AccessToken); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}
