package labauth

import (
	"context"
	"fmt"
	"time"

	"github.com/labforge/labauth/internal/audit"
	"github.com/labforge/labauth/jwt"
	"github.com/labforge/labauth/password"
	"github.com/labforge/labauth/privilege"
	"github.com/labforge/labauth/refresh"
)

// Engine is the authentication and abuse-control core. Construct it with
// [New] and a Builder; the zero value is not usable. All methods are safe
// for concurrent use.
type Engine struct {
	config       Config
	credentials  CredentialStore
	resolver     *privilege.Resolver
	jwtManager   *jwt.Manager
	refresh      *refresh.Manager
	passwordHash *password.Hasher
	policy       password.Policy
	loginLimiter *loginLimiter
	resetLimiter *resetLimiter
	displayLoc   *time.Location
	metrics      *Metrics
	audit        *audit.Dispatcher
}

func (e *Engine) ready() bool {
	return e != nil && e.credentials != nil && e.jwtManager != nil && e.refresh != nil
}

// Login authenticates an email/password pair and issues a token pair. The
// client key from [WithClientKey] feeds the login penalty box; requests
// without one are not rate limited.
//
// Failed lookups and wrong passwords count against the penalty box; a
// banned key is rejected before any credential work. A successful login
// clears the key's history.
func (e *Engine) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	key := clientKeyFromContext(ctx)

	if e.loginLimiter.isBanned(key) {
		e.metrics.Inc(MetricLoginRateLimited)
		e.emitAudit(ctx, AuditLoginRateLimited, "", "", false, ErrRateLimited)
		return nil, ErrRateLimited
	}

	principal, err := e.credentials.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if principal == nil {
		e.loginLimiter.recordFailedAttempt(key)
		e.metrics.Inc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLoginFailure, "", "", false, ErrUserNotFound)
		return nil, ErrUserNotFound
	}

	ok, err := e.passwordHash.Verify(password, principal.PasswordHash)
	if err != nil {
		// Corrupt stored hash, not a wrong password: operational, no
		// penalty increment.
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !ok {
		e.loginLimiter.recordFailedAttempt(key)
		e.metrics.Inc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLoginFailure, principal.ID, "", false, ErrInvalidCredentials)
		return nil, ErrInvalidCredentials
	}

	// The password was right, so this is not an abuse signal. No penalty
	// box increment for disabled accounts.
	if !principal.available() {
		e.metrics.Inc(MetricLoginFailure)
		e.emitAudit(ctx, AuditLoginFailure, principal.ID, "", false, ErrAccountUnavailable)
		return nil, ErrAccountUnavailable
	}

	result, err := e.issueTokenPair(ctx, principal)
	if err != nil {
		return nil, err
	}

	e.loginLimiter.resetAttempts(key)
	e.metrics.Inc(MetricLoginSuccess)
	e.emitAudit(ctx, AuditLoginSuccess, principal.ID, "", true, nil)
	return result, nil
}

// Refresh redeems a refresh token for a fresh token pair. Tokens are single
// use: the presented token is deleted before the new pair is issued, so
// concurrent redemptions resolve to one winner and the losers get
// [ErrRefreshInvalid].
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	token, err := e.refresh.Verify(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if token == nil {
		e.metrics.Inc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditRefreshInvalid, "", refreshToken, false, ErrRefreshInvalid)
		return nil, ErrRefreshInvalid
	}

	// Burn the old token first. Claim resolves concurrent redemptions to a
	// single winner, and a store failure aborts the rotation so an outage
	// can never mint extra live tokens.
	won, err := e.refresh.Claim(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if !won {
		e.metrics.Inc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditRefreshInvalid, token.PrincipalID, refreshToken, false, ErrRefreshInvalid)
		return nil, ErrRefreshInvalid
	}

	principal, err := e.credentials.FindByID(ctx, token.PrincipalID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if principal == nil {
		e.metrics.Inc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditRefreshInvalid, token.PrincipalID, refreshToken, false, ErrRefreshInvalid)
		return nil, ErrRefreshInvalid
	}
	if !principal.available() {
		e.metrics.Inc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditRefreshInvalid, principal.ID, refreshToken, false, ErrAccountUnavailable)
		return nil, ErrAccountUnavailable
	}

	result, err := e.issueTokenPair(ctx, principal)
	if err != nil {
		return nil, err
	}

	e.metrics.Inc(MetricRefreshSuccess)
	e.emitAudit(ctx, AuditRefreshSuccess, principal.ID, "", true, nil)
	return result, nil
}

// Logout deletes the refresh token. Already-absent tokens are a success;
// only a store failure surfaces.
func (e *Engine) Logout(ctx context.Context, refreshToken string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	if err := e.refresh.Delete(ctx, refreshToken); err != nil {
		return err
	}

	e.metrics.Inc(MetricLogout)
	e.emitAudit(ctx, AuditLogout, "", refreshToken, true, nil)
	return nil
}

// Validate parses and verifies an access token and returns the identity
// snapshot embedded at issuance. It performs no store reads: revocation
// between issuance and expiry is out of scope, bounded by the access TTL.
func (e *Engine) Validate(ctx context.Context, accessToken string) (*AuthResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	var start time.Time
	if e.metrics.LatencyEnabled() {
		start = time.Now()
	}

	claims, err := e.jwtManager.ParseAccess(accessToken)
	if err != nil {
		return nil, err
	}

	result := &AuthResult{
		PrincipalID: claims.Subject,
		Role:        claims.Role,
		Privileges:  append([]string(nil), claims.Privileges...),
	}

	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(MetricValidateLatency, time.Since(start))
	}
	return result, nil
}

// LoginBanExpiry reports when the client key's login ban lifts, expressed in
// the configured display time zone. ok is false when the key is not banned.
func (e *Engine) LoginBanExpiry(clientKey string) (time.Time, bool) {
	if e == nil || e.loginLimiter == nil {
		return time.Time{}, false
	}
	expiry, ok := e.loginLimiter.banExpiry(clientKey)
	if !ok {
		return time.Time{}, false
	}
	return expiry.In(e.displayLoc), true
}

// ResetBanExpiry reports when the principal's password-update ban lifts,
// expressed in the configured display time zone.
func (e *Engine) ResetBanExpiry(principalID string) (time.Time, bool) {
	if e == nil || e.resetLimiter == nil {
		return time.Time{}, false
	}
	expiry, ok := e.resetLimiter.banExpiry(principalID)
	if !ok {
		return time.Time{}, false
	}
	return expiry.In(e.displayLoc), true
}

// PurgeExpiredRefreshTokens sweeps expired-but-present refresh records from
// the backing store. Intended for a periodic job; stores with native TTL
// expiry report zero.
func (e *Engine) PurgeExpiredRefreshTokens(ctx context.Context) (int, error) {
	if !e.ready() {
		return 0, ErrEngineNotReady
	}
	return e.refresh.PurgeExpired(ctx)
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// Close flushes and stops the audit dispatcher. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

func (e *Engine) issueTokenPair(ctx context.Context, principal *Principal) (*LoginResult, error) {
	privileges, err := e.resolver.Resolve(ctx, principal.Role)
	if err != nil {
		return nil, fmt.Errorf("resolving role %q: %w", principal.Role, err)
	}

	access, err := e.jwtManager.CreateAccess(principal.ID, principal.Role, privileges)
	if err != nil {
		return nil, err
	}

	token, err := e.refresh.Generate(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: token.ID,
	}, nil
}
