package gitconfig

import (
	"fmt"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/gopass/pkg/set"
)

// Configs holds the parsed config files of all three scopes of one
// repository, loaded at the same time.
//
// Lookup order (by scope priority):
// 1. Local/repository config (.git/config)
// 2. Global/user config (~/.gitconfig)
// 3. System config (/etc/gitconfig)
//
// Configs is a point in time view. It is not refreshed when the files change,
// load a new one to pick up external edits.
//
// Usage:
//
//	cs, err := gitconfig.NewStore(nil).LoadAll("/path/to/repo")
//	if err != nil { ... }
//	editor, found := cs.Lookup("core.editor")
type Configs struct {
	store    *Store
	repoRoot string
	scopes   map[Scope]*Config
}

// LoadAll loads the config files of all scopes. The missing ones are created
// empty. It fails if any scope can not be loaded.
func (s *Store) LoadAll(repoRoot string) (*Configs, error) {
	cs := &Configs{
		store:    s,
		repoRoot: repoRoot,
		scopes:   make(map[Scope]*Config, len(precedence)),
	}

	for _, scope := range precedence {
		c, err := s.open(scope, repoRoot)
		if err != nil {
			return nil, err
		}
		cs.scopes[scope] = c
	}

	return cs, nil
}

// String implements fmt.Stringer for debugging.
func (cs *Configs) String() string {
	paths := make([]string, 0, len(precedence))
	for _, s := range Scopes() {
		if c := cs.scopes[s]; c != nil {
			paths = append(paths, fmt.Sprintf("%s: %s", s.Label(), c.Path()))
		}
	}

	return fmt.Sprintf("GitConfigs{Repo: %s - %s}", cs.repoRoot, strings.Join(paths, " - "))
}

// byPriority returns the loaded configs from highest to lowest priority.
func (cs *Configs) byPriority() []*Config {
	out := make([]*Config, 0, len(precedence))
	for i := len(precedence) - 1; i >= 0; i-- {
		if c := cs.scopes[precedence[i]]; c != nil {
			out = append(out, c)
		}
	}

	return out
}

// Merged returns the merged view of the loaded scopes. See Store.MergedView.
func (cs *Configs) Merged() []ConfigEntry {
	byScope := make(map[Scope][]ConfigEntry, len(cs.scopes))
	for scope, c := range cs.scopes {
		byScope[scope] = entriesOf(scope, c)
	}

	return Merge(byScope)
}

// Lookup is the effective state of one key across all scopes.
type Lookup struct {
	Key     string        `json:"key"               yaml:"key"`
	Value   string        `json:"value"             yaml:"value"`
	Values  []string      `json:"values,omitempty"  yaml:"values,omitempty"`
	Scope   Scope         `json:"scope"             yaml:"scope"`
	History []ConfigEntry `json:"history,omitempty" yaml:"history,omitempty"`
}

// Lookup returns the value git would use for key, all values of the winning
// scope and the overridden values of lower scopes.
func (cs *Configs) Lookup(key string) (Lookup, bool) {
	scope, found := cs.Origin(key)
	if !found {
		debug.V(3).Log("no value for %s found", key)

		return Lookup{}, false
	}

	merged := cs.Merged()
	eff, _ := Effective(merged, key)

	return Lookup{
		Key:     eff.Key,
		Value:   eff.Value,
		Values:  cs.GetAll(key),
		Scope:   scope,
		History: History(merged, key),
	}, true
}

// GetAll returns all values of key from the highest priority scope that
// defines it. Returns nil if key is not found in any scope.
func (cs *Configs) GetAll(key string) []string {
	for _, c := range cs.byPriority() {
		if vs, found := c.GetAll(key); found {
			return vs
		}
	}

	return nil
}

// GetFrom returns the value of key from one scope only.
func (cs *Configs) GetFrom(key string, scope Scope) (string, bool) {
	c := cs.scopes[scope]
	if c == nil {
		debug.V(3).Log("unknown config scope %s for key %s", scope, key)

		return "", false
	}

	return c.Get(key)
}

// Origin returns the scope the effective value of key comes from.
func (cs *Configs) Origin(key string) (Scope, bool) {
	for i := len(precedence) - 1; i >= 0; i-- {
		if c := cs.scopes[precedence[i]]; c != nil && c.IsSet(key) {
			return precedence[i], true
		}
	}

	return "", false
}

// Keys returns a sorted list of all keys from all scopes. Every key has a
// section and possibly a subsection, separated by dots. The subsection itself
// may contain dots. The final key name and the section MUST NOT contain dots.
//
// Examples
//   - remote.gist.gopass.pw.path -> section: remote, subsection: gist.gopass.pw, key: path
//   - core.timeout -> section: core, key: timeout
func (cs *Configs) Keys() []string {
	keys := make([]string, 0, 128)
	for _, c := range cs.scopes {
		keys = append(keys, c.Keys()...)
	}

	return set.Sorted(keys)
}

// List returns all keys matching the given prefix. The prefix can be empty,
// then this is identical to Keys().
func (cs *Configs) List(prefix string) []string {
	return set.SortedFiltered(cs.Keys(), func(k string) bool {
		return strings.HasPrefix(k, prefix)
	})
}

// ListSections returns a sorted list of all sections.
func (cs *Configs) ListSections() []string {
	return set.Sorted(set.Apply(cs.Keys(), func(k string) string {
		section, _, _ := splitKey(k)

		return section
	}))
}

// ListSubsections returns a sorted list of all subsections
// in the given section.
func (cs *Configs) ListSubsections(wantSection string) []string {
	// apply extracts the subsection and maps it to the empty string
	// if it doesn't belong to the section we're looking for. Then the
	// filter func filters out any empty string.
	return set.SortedFiltered(set.Apply(cs.Keys(), func(k string) string {
		section, subsection, _ := splitKey(k)
		if section != wantSection {
			return ""
		}

		return subsection
	}), func(s string) bool {
		return s != ""
	})
}
