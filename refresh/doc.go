// Package refresh manages the lifecycle of long-lived opaque refresh tokens:
// issuance, verification, and single-use rotation deletes.
//
// # Token format
//
// Token ids are opaque uuid v4 values generated from crypto/rand. They carry
// no structure: possession of the id is the credential, and each id is
// redeemable exactly once.
//
// # Architecture boundaries
//
// This package owns token records and store access through [Store]. Rotation
// ordering (verify, delete old, issue new) and the resulting fail-closed
// behavior are enforced by the Engine; this package guarantees only that
// Verify never resurrects an expired or deleted row and that Delete is
// idempotent.
//
// # What this package must NOT do
//
//   - Retry store failures — retry policy belongs to the caller.
//   - Delete expired-but-present rows during Verify; cleanup is the store's
//     separate sweep concern.
//   - Import labauth or sign anything.
package refresh
