package labauth

import (
	"context"
	"fmt"
)

// UpdatePassword changes or resets a principal's password.
//
// Every attempt past the ban gate counts against the reset penalty box,
// success included: for this flow the attempt itself is the abuse signal,
// and a successful update does not clear the principal's history.
//
// [PasswordChange] requires the current password and rejects setting the
// same password again. [PasswordReset] overwrites unconditionally; the
// caller vouches for out-of-band verification.
func (e *Engine) UpdatePassword(ctx context.Context, principalID, currentPassword, newPassword string, option PasswordUpdateOption) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	if e.resetLimiter.isBanned(principalID) {
		e.metrics.Inc(MetricResetRateLimited)
		e.emitAudit(ctx, AuditResetRateLimited, principalID, "", false, ErrRateLimited)
		return ErrRateLimited
	}

	e.resetLimiter.recordAttempt(principalID)

	principal, err := e.credentials.FindByID(ctx, principalID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if principal == nil {
		e.failPasswordUpdate(ctx, option, principalID, ErrUserNotFound)
		return ErrUserNotFound
	}
	if !principal.available() {
		e.failPasswordUpdate(ctx, option, principalID, ErrAccountUnavailable)
		return ErrAccountUnavailable
	}

	switch option {
	case PasswordChange, PasswordReset:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPasswordOption, option)
	}

	if option == PasswordChange {
		ok, err := e.passwordHash.Verify(currentPassword, principal.PasswordHash)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if !ok {
			e.failPasswordUpdate(ctx, option, principalID, ErrCurrentPasswordMismatch)
			return ErrCurrentPasswordMismatch
		}
	}

	if err := e.policy.Validate(newPassword); err != nil {
		e.failPasswordUpdate(ctx, option, principalID, err)
		return fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	if option == PasswordChange {
		same, err := e.passwordHash.Verify(newPassword, principal.PasswordHash)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		if same {
			e.failPasswordUpdate(ctx, option, principalID, ErrPasswordUnchanged)
			return ErrPasswordUnchanged
		}
	}

	hash, err := e.passwordHash.Hash(newPassword)
	if err != nil {
		return err
	}

	principal.PasswordHash = hash
	if err := e.credentials.Save(ctx, principal); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if option == PasswordChange {
		e.metrics.Inc(MetricPasswordChangeSuccess)
		e.emitAudit(ctx, AuditPasswordChangeSuccess, principalID, "", true, nil)
	} else {
		e.metrics.Inc(MetricPasswordResetSuccess)
		e.emitAudit(ctx, AuditPasswordResetSuccess, principalID, "", true, nil)
	}
	return nil
}

func (e *Engine) failPasswordUpdate(ctx context.Context, option PasswordUpdateOption, principalID string, cause error) {
	if option == PasswordChange {
		e.metrics.Inc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, AuditPasswordChangeFailure, principalID, "", false, cause)
	} else {
		e.metrics.Inc(MetricPasswordResetFailure)
		e.emitAudit(ctx, AuditPasswordResetFailure, principalID, "", false, cause)
	}
}
