// Package jwt manages access-token issuance and verification with a single
// process-wide HS256 key and strict validation semantics suitable for
// low-latency authentication paths.
//
// # Architecture boundaries
//
// This package owns claim encoding, signing, and verification. Privilege
// resolution and authorization decisions belong to the Engine.
//
// # What this package must NOT do
//
//   - Persist tokens or perform any I/O.
//   - Import labauth or any sibling package.
//   - Re-check privilege claims against live role state. Claims are an
//     issuance-time snapshot bounded by the access TTL.
package jwt
