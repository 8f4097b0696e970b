package labauth

import (
	"context"
	"time"
)

// Audit event types emitted by the engine.
const (
	AuditLoginSuccess          = "login_success"
	AuditLoginFailure          = "login_failure"
	AuditLoginRateLimited      = "login_rate_limited"
	AuditRefreshSuccess        = "refresh_success"
	AuditRefreshInvalid        = "refresh_invalid"
	AuditLogout                = "logout"
	AuditPasswordChangeSuccess = "password_change_success"
	AuditPasswordChangeFailure = "password_change_failure"
	AuditPasswordResetSuccess  = "password_reset_success"
	AuditPasswordResetFailure  = "password_reset_failure"
	AuditResetRateLimited      = "reset_rate_limited"
)

func (e *Engine) emitAudit(ctx context.Context, eventType, principalID, tokenID string, success bool, opErr error) {
	if e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp:   time.Now().UTC(),
		EventType:   eventType,
		PrincipalID: principalID,
		TenantID:    tenantIDFromContext(ctx),
		ClientKey:   clientKeyFromContext(ctx),
		TokenID:     tokenID,
		Success:     success,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}

	e.audit.Emit(ctx, event)
}

// AuditDropped reports how many audit events the dispatcher discarded under
// backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}
