// Package password implements password hashing, verification, and strength
// policy with bcrypt.
//
// # Architecture boundaries
//
// This package owns hashing, constant-time verification, and the minimum
// strength policy. Rate limiting and reuse decisions belong to the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords — callers supply plaintext and receive hashes.
//   - Import any other labauth package.
//   - Log plaintext passwords.
package password
