package privilege

// Requirement lists the privileges a protected operation demands. Requirements
// are plain data attached to an operation and evaluated by a single explicit
// SatisfiedBy call at its entry point.
type Requirement struct {
	all []string
}

// Require builds a Requirement demanding every listed privilege.
func Require(privileges ...string) Requirement {
	return Requirement{all: normalize(privileges)}
}

// Privileges returns the required set, sorted.
func (r Requirement) Privileges() []string {
	return append([]string(nil), r.all...)
}

// SatisfiedBy reports whether granted contains every required privilege. An
// empty requirement is satisfied by anything, including an empty grant.
func (r Requirement) SatisfiedBy(granted []string) bool {
	if len(r.all) == 0 {
		return true
	}
	if len(granted) == 0 {
		return false
	}

	have := make(map[string]struct{}, len(granted))
	for _, p := range granted {
		have[p] = struct{}{}
	}
	for _, p := range r.all {
		if _, ok := have[p]; !ok {
			return false
		}
	}
	return true
}
