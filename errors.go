package labauth

import (
	"errors"

	"github.com/labforge/labauth/jwt"
	"github.com/labforge/labauth/refresh"
)

var (
	// ErrRateLimited rejects an operation gated by a banned client key.
	// Callers can surface the remaining ban time via [Engine.LoginBanExpiry]
	// or [Engine.ResetBanExpiry].
	ErrRateLimited = errors.New("rate limited")
	// ErrUserNotFound indicates the email resolved to no principal.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountUnavailable indicates an inactive or soft-deleted principal.
	ErrAccountUnavailable = errors.New("account unavailable")
	// ErrRefreshInvalid covers absent, expired, and already-redeemed refresh
	// tokens. The three cases are deliberately indistinguishable to callers.
	ErrRefreshInvalid = errors.New("invalid or expired refresh token")
	// ErrWeakPassword rejects a new password below the strength policy.
	ErrWeakPassword = errors.New("password does not meet strength policy")
	// ErrPasswordUnchanged rejects a change where the new password equals the
	// current one.
	ErrPasswordUnchanged = errors.New("new password must differ from current password")
	// ErrCurrentPasswordMismatch rejects a change whose current-password proof
	// fails.
	ErrCurrentPasswordMismatch = errors.New("current password mismatch")
	// ErrInvalidPasswordOption rejects an unknown password-update option.
	ErrInvalidPasswordOption = errors.New("invalid password update option")
	// ErrUnauthorized is the uniform rejection used at the transport boundary.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrEngineNotReady indicates the engine was not built through [Builder.Build].
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrPermissionDenied indicates the principal lacks a required privilege.
	ErrPermissionDenied = errors.New("permission denied")
)

// Token verification failures keep the expired/malformed distinction for
// observability even though both are recovered into the same unauthorized
// response at the boundary.
var (
	// ErrTokenInvalid covers bad signature, malformed structure, and every
	// other verification failure except expiry.
	ErrTokenInvalid = jwt.ErrTokenInvalid
	// ErrTokenExpired indicates a structurally valid, correctly signed token
	// whose expiry has passed.
	ErrTokenExpired = jwt.ErrTokenExpired
)

// ErrStoreUnavailable wraps credential-store, refresh-store, and signing
// infrastructure failures. Full detail is kept on the wrapped error for
// internal logging; callers surface a generic failure.
var ErrStoreUnavailable = refresh.ErrStoreUnavailable
