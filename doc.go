// Package labauth provides the authentication and abuse-control engine for a
// multi-tenant laboratory platform: JWT access tokens, rotating opaque refresh
// tokens, per-client penalty-box rate limiting, and role-to-privilege
// resolution.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// labauth is the public surface. It exposes [Engine], [Builder], [Config], and
// value types (LoginResult, AuthResult, MetricsSnapshot). Internal
// coordination — penalty-box state, audit dispatch, metric storage, store
// adapters — lives under internal/ and is never exported.
//
// The credential store and refresh-token store are external collaborators
// consumed through the [CredentialStore] and [refresh.Store] interfaces.
// Absent rows are reported as nil results, not errors; errors are reserved
// for infrastructure failures and never default to "allow".
//
// # What this package must NOT do
//
//   - Expose Redis clients, bucket state, or claim encodings in its public API.
//   - Re-check privilege claims against current role state inside Validate;
//     claims are a point-in-time snapshot bounded by the access-token TTL.
//   - Leak store or signing internals across the error boundary; callers see
//     the sentinel taxonomy in errors.go and nothing else.
//
// # Performance contract
//
// Validate is the hot path. It is store-free: signature and expiry check only,
// no allocation beyond the returned AuthResult. Login, Refresh, and password
// operations are allowed one store round-trip per collaborator per call.
package labauth
