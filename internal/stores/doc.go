// Package stores provides the persistence backends for single-use refresh
// tokens: a Redis-backed store for production and an in-memory store for
// tests and embedded setups.
//
// # Design
//
// The Redis store persists one JSON record per token under a prefixed key
// with a TTL matching the token's expiry, so Redis itself sweeps expired
// records and PurgeExpired is a no-op. The memory store keeps records in a
// mutex-guarded map and performs real sweeps.
//
// # Architecture boundaries
//
// This package owns record persistence only. It does NOT generate token ids,
// decide expiry policy, or make authentication decisions — those
// responsibilities belong to the refresh manager and the Engine.
//
// # What this package must NOT do
//
//   - Import labauth or any sibling internal package.
//   - Extend or shorten a token's lifetime.
//   - Log token ids.
package stores
