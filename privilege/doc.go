// Package privilege resolves coarse role codes into flat sets of fine-grained
// privilege tokens and represents per-operation privilege requirements as
// data.
//
// # Architecture boundaries
//
// This package owns role-to-privilege mapping and set evaluation. The Engine
// embeds resolved sets into access-token claims at issuance time; enforcement
// happens through one explicit [Requirement.SatisfiedBy] call, never through
// hidden interception.
//
// # What this package must NOT do
//
//   - Import labauth or any sibling package.
//   - Perform I/O in the [Registry]; dynamic sources implement [Source]
//     themselves.
//   - Cache resolutions across calls — staleness policy belongs to the caller.
package privilege
