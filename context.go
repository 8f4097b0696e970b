package labauth

import "context"

type clientKeyContextKey struct{}
type tenantIDContextKey struct{}

// WithClientKey attaches the caller's rate-limit key to ctx, typically the
// client IP or a device fingerprint. The Engine uses it for the login
// penalty box and audit records.
func WithClientKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, clientKeyContextKey{}, key)
}

// WithTenantID attaches a tenant identifier to ctx. The Engine records it in
// audit events; tenant scoping of accounts themselves is the credential
// store's concern.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantIDContextKey{}, tenantID)
}

func clientKeyFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	key, _ := ctx.Value(clientKeyContextKey{}).(string)
	return key
}

func tenantIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	tenantID, _ := ctx.Value(tenantIDContextKey{}).(string)
	return tenantID
}
