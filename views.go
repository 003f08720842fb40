package gitconfig

import (
	"fmt"
	"strings"

	"github.com/gopasspw/gopass/pkg/set"
)

// Alias is a git command alias (alias.<name>).
type Alias struct {
	Name    string `json:"name"    yaml:"name"`
	Command string `json:"command" yaml:"command"`
	Scope   Scope  `json:"scope"   yaml:"scope"`
}

// Remote is a configured remote (remote.<name>.url / pushurl).
type Remote struct {
	Name     string `json:"name"              yaml:"name"`
	FetchURL string `json:"fetchUrl"          yaml:"fetchUrl"`
	PushURL  string `json:"pushUrl,omitempty" yaml:"pushUrl,omitempty"`
	Scope    Scope  `json:"scope"             yaml:"scope"`
}

// Conflict summarizes the values of one key across all scopes.
type Conflict struct {
	Key string `json:"key" yaml:"key"`
	// Values maps each scope that defines the key to its (last) value.
	Values map[Scope]string `json:"values" yaml:"values"`
	// Conflicting is true if at least two scopes disagree on the value.
	Conflicting bool `json:"conflicting" yaml:"conflicting"`
}

// Aliases extracts all effective aliases, sorted by name. Overridden entries
// are skipped.
func Aliases(entries []ConfigEntry) []Alias {
	byName := make(map[string]Alias, 16)
	for _, e := range entries {
		if e.IsOverridden() {
			continue
		}
		section, subsection, name := splitKey(e.Key)
		if section != "alias" || subsection != "" {
			continue
		}
		byName[name] = Alias{Name: name, Command: e.Value, Scope: e.Scope}
	}

	out := make([]Alias, 0, len(byName))
	for _, name := range set.SortedKeys(byName) {
		out = append(out, byName[name])
	}

	return out
}

// Remotes extracts all effective remotes, sorted by name.
func Remotes(entries []ConfigEntry) []Remote {
	byName := make(map[string]Remote, 4)
	for _, e := range entries {
		if e.IsOverridden() {
			continue
		}
		section, name, key := splitKey(e.Key)
		if section != "remote" || name == "" {
			continue
		}
		r := byName[name]
		r.Name = name
		switch key {
		case "url":
			r.FetchURL = e.Value
			r.Scope = e.Scope
		case "pushurl":
			r.PushURL = e.Value
			if r.Scope == "" {
				r.Scope = e.Scope
			}
		default:
			continue
		}
		byName[name] = r
	}

	out := make([]Remote, 0, len(byName))
	for _, name := range set.SortedKeys(byName) {
		out = append(out, byName[name])
	}

	return out
}

// Conflicts returns one summary per key that is defined in more than one
// scope, sorted by key. It works on plain reads and merged views alike.
func Conflicts(entries []ConfigEntry) []Conflict {
	values := make(map[string]map[Scope]string, 32)
	for _, e := range entries {
		vs, found := values[e.Key]
		if !found {
			vs = make(map[Scope]string, 3)
			values[e.Key] = vs
		}
		vs[e.Scope] = e.Value
	}

	out := make([]Conflict, 0, 8)
	for _, key := range set.SortedKeys(values) {
		vs := values[key]
		if len(vs) < 2 {
			continue
		}
		distinct := make(map[string]struct{}, len(vs))
		for _, v := range vs {
			distinct[v] = struct{}{}
		}
		out = append(out, Conflict{
			Key:         key,
			Values:      vs,
			Conflicting: len(distinct) > 1,
		})
	}

	return out
}

// SetAlias writes alias.<name> to the given scope.
func (s *Store) SetAlias(scope Scope, repoRoot, name, command string) error {
	if err := checkAliasName(name); err != nil {
		return err
	}

	return s.WriteScope(scope, repoRoot, []ConfigEntry{{Key: "alias." + name, Value: command}})
}

// RemoveAlias removes alias.<name> from the given scope.
func (s *Store) RemoveAlias(scope Scope, repoRoot, name string) error {
	if err := checkAliasName(name); err != nil {
		return err
	}

	return s.UnsetScope(scope, repoRoot, []string{"alias." + name})
}

// SetRemote writes the fetch and (if not empty) push URL of a remote to the
// given scope.
func (s *Store) SetRemote(scope Scope, repoRoot string, r Remote) error {
	if err := checkRemoteName(r.Name); err != nil {
		return err
	}
	if r.FetchURL == "" {
		return fmt.Errorf("%w: remote needs a fetch url", ErrInvalidKey)
	}

	entries := []ConfigEntry{{Key: "remote." + r.Name + ".url", Value: r.FetchURL}}
	if r.PushURL != "" {
		entries = append(entries, ConfigEntry{Key: "remote." + r.Name + ".pushurl", Value: r.PushURL})
	}

	return s.WriteScope(scope, repoRoot, entries)
}

// RemoveRemote removes the url and pushurl of a remote from the given scope.
func (s *Store) RemoveRemote(scope Scope, repoRoot, name string) error {
	if err := checkRemoteName(name); err != nil {
		return err
	}

	return s.UnsetScope(scope, repoRoot, []string{"remote." + name + ".url", "remote." + name + ".pushurl"})
}

// checkAliasName rejects names that would address a different key than
// alias.<name>.
func checkAliasName(name string) error {
	if name == "" || strings.ContainsAny(name, ". \t\n") {
		return fmt.Errorf("%w: alias name %q", ErrInvalidKey, name)
	}

	return nil
}

// checkRemoteName rejects names that can not be stored as a subsection. Dots
// are fine, remote names like gist.github.com are common.
func checkRemoteName(name string) error {
	if name == "" || strings.ContainsAny(name, "\n\x00") {
		return fmt.Errorf("%w: remote name %q", ErrInvalidKey, name)
	}

	return nil
}
