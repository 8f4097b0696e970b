// Package middleware exposes HTTP adapters for access-token enforcement
// built on top of labauth.Engine validation.
//
// # Guards
//
//   - [Guard] — reads the bearer token, calls Engine.Validate, injects the
//     identity snapshot into the request context.
//   - [Require] — layers a privilege requirement on top of Guard's result.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Engine.Validate and privilege.Requirement.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to Engine).
//   - Touch the refresh store or limiters.
//   - Invent authorization semantics beyond pass/reject.
package middleware
