package privilege

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownRole indicates a role code with no registered privilege set.
	ErrUnknownRole = errors.New("unknown role")
	// ErrRegistryFrozen rejects registration after Freeze.
	ErrRegistryFrozen = errors.New("privilege registry frozen")
)

// Source supplies the privilege tokens granted to a role code. Implementations
// backed by external role storage must treat "role not found" as
// [ErrUnknownRole], reserving other errors for infrastructure failures.
type Source interface {
	PrivilegesForRole(ctx context.Context, role string) ([]string, error)
}

// Registry is an in-memory Source populated during initialization and frozen
// before serving traffic. After Freeze, reads are lock-free in effect: the
// role map is never mutated again.
type Registry struct {
	mu     sync.RWMutex
	roles  map[string][]string
	frozen bool
}

// NewRegistry returns an empty, mutable Registry.
func NewRegistry() *Registry {
	return &Registry{roles: make(map[string][]string)}
}

// RegisterRole binds a role code to its privilege set. The set is deduplicated
// and sorted at registration time. Re-registering a role or registering after
// Freeze is an error.
func (r *Registry) RegisterRole(role string, privileges []string) error {
	if role == "" {
		return errors.New("empty role code")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRegistryFrozen
	}
	if _, exists := r.roles[role]; exists {
		return fmt.Errorf("role %q already registered", role)
	}

	r.roles[role] = normalize(privileges)
	return nil
}

// Freeze makes the registry immutable. Registration attempts after Freeze
// fail; lookups rely on immutability for concurrent safety.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// PrivilegesForRole implements [Source]. The returned slice is a copy.
func (r *Registry) PrivilegesForRole(_ context.Context, role string) ([]string, error) {
	r.mu.RLock()
	privileges, ok := r.roles[role]
	r.mu.RUnlock()

	if !ok {
		return nil, ErrUnknownRole
	}
	return append([]string(nil), privileges...), nil
}

// Roles returns the registered role codes, sorted.
func (r *Registry) Roles() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roles := make([]string, 0, len(r.roles))
	for role := range r.roles {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

func normalize(privileges []string) []string {
	seen := make(map[string]struct{}, len(privileges))
	out := make([]string, 0, len(privileges))
	for _, p := range privileges {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}
