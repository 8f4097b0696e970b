// Package limiters provides the in-process counted-window penalty box shared
// by the login and reset-password rate limiters.
//
// # State machine
//
// Per key: CLEAR -> ACCUMULATING -> BANNED -> CLEAR. Buckets are created
// lazily on the first failure, counters reset when the refill window elapses,
// and reaching the threshold sets a ban horizon and zeroes the counter so an
// expired ban does not re-trigger on the next single failure. Expired bans are
// self-healing: any read that observes a past ban horizon removes the bucket.
//
// # Concurrency
//
// The key space is a [sync.Map]; each bucket carries its own mutex so
// read-modify-write cycles on one key never interleave, while unrelated keys
// proceed without coordination. Buckets removed from the map are tombstoned
// under their lock so a racing writer re-creates a fresh bucket instead of
// mutating an orphan.
//
// # What this package must NOT do
//
//   - Import labauth or any sibling internal package.
//   - Make policy decisions beyond counting; callers decide consequences.
//   - Perform I/O. All state lives in process memory.
package limiters
