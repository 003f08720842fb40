package gitconfig

import (
	"fmt"
	"strings"
)

// Scope is one of the three layered sources of git configuration.
type Scope string

const (
	// ScopeLocal is the per-repository config (<repo>/.git/config).
	ScopeLocal Scope = "local"
	// ScopeGlobal is the per-user config (~/.gitconfig).
	ScopeGlobal Scope = "global"
	// ScopeSystem is the system-wide config (/etc/gitconfig).
	ScopeSystem Scope = "system"
)

// precedence lists the scopes from lowest to highest priority. A value
// from a later scope overrides the same key from an earlier one.
var precedence = [...]Scope{ScopeSystem, ScopeGlobal, ScopeLocal}

// Scopes returns all scopes in catalog order.
func Scopes() []Scope {
	return []Scope{ScopeLocal, ScopeGlobal, ScopeSystem}
}

// ParseScope converts a scope identifier (case-insensitive) into a Scope.
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case ScopeLocal:
		return ScopeLocal, nil
	case ScopeGlobal:
		return ScopeGlobal, nil
	case ScopeSystem:
		return ScopeSystem, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
}

// Label returns the display name of the scope.
func (s Scope) Label() string {
	switch s {
	case ScopeLocal:
		return "Local"
	case ScopeGlobal:
		return "Global"
	case ScopeSystem:
		return "System"
	default:
		return string(s)
	}
}

// String implements fmt.Stringer.
func (s Scope) String() string {
	return string(s)
}

// Valid reports whether s is one of the three known scopes.
func (s Scope) Valid() bool {
	return s.rank() >= 0
}

// rank returns the index of the scope in the precedence order or -1.
func (s Scope) rank() int {
	for i, p := range precedence {
		if p == s {
			return i
		}
	}

	return -1
}

// Overrides reports whether a value from s takes precedence over one from other.
func (s Scope) Overrides(other Scope) bool {
	return s.rank() > other.rank()
}
