package privilege

import (
	"context"
	"errors"
)

// Resolver normalizes Source output into the claim snapshot embedded in
// access tokens: deduplicated, sorted, and copied so later mutations by the
// source cannot leak into issued claims.
type Resolver struct {
	source Source
}

// NewResolver wraps a Source.
func NewResolver(source Source) (*Resolver, error) {
	if source == nil {
		return nil, errors.New("nil privilege source")
	}
	return &Resolver{source: source}, nil
}

// Resolve returns the privilege snapshot for a role code.
func (r *Resolver) Resolve(ctx context.Context, role string) ([]string, error) {
	privileges, err := r.source.PrivilegesForRole(ctx, role)
	if err != nil {
		return nil, err
	}
	return normalize(privileges), nil
}
