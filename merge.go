package gitconfig

import (
	"github.com/gopasspw/gopass/pkg/debug"
)

// MergedView reads all scopes and returns their entries with override
// history.
//
// Scopes are processed from lowest to highest precedence (system, global,
// local). When a scope defines a key that a lower scope already defined,
// the lower scope's values are moved to the history with OverriddenBy set to
// the new scope. The result lists the history first, in the order the
// entries were overridden, followed by the effective entries in the order
// their keys were first seen.
//
// Repeated occurrences of a key within one scope never override each other:
// a multi-valued key is superseded as a whole and all values of the winning
// scope are effective.
//
// If any scope can not be read the whole merge fails.
func (s *Store) MergedView(repoRoot string) ([]ConfigEntry, error) {
	cs, err := s.LoadAll(repoRoot)
	if err != nil {
		debug.Log("failed to load scopes for merged view: %s", err)

		return nil, err
	}

	return cs.Merged(), nil
}

// Merge computes the merged view of already loaded scopes. See
// Store.MergedView for the rules. Entries are expected to carry the scope
// they are listed under.
func Merge(byScope map[Scope][]ConfigEntry) []ConfigEntry {
	effective := make(map[string][]ConfigEntry, 64)
	keys := make([]string, 0, 64)
	history := make([]ConfigEntry, 0, 16)

	for _, scope := range precedence {
		for _, e := range byScope[scope] {
			prev, found := effective[e.Key]
			if !found {
				effective[e.Key] = []ConfigEntry{e}
				keys = append(keys, e.Key)

				continue
			}

			if prev[0].Scope == e.Scope {
				effective[e.Key] = append(prev, e)

				continue
			}

			for _, p := range prev {
				history = append(history, p.supersededBy(e.Scope))
			}
			effective[e.Key] = []ConfigEntry{e}
		}
	}

	out := history
	for _, k := range keys {
		out = append(out, effective[k]...)
	}

	debug.V(2).Log("merged %d keys, %d overridden entries", len(keys), len(history))

	return out
}

// Effective returns the value git would use for key from a merged view,
// i.e. the last entry for key that is not overridden.
func Effective(entries []ConfigEntry, key string) (ConfigEntry, bool) {
	key = canonicalizeKey(key)

	var (
		out   ConfigEntry
		found bool
	)
	for _, e := range entries {
		if e.Key != key || e.IsOverridden() {
			continue
		}
		out = e
		found = true
	}

	return out, found
}

// History returns all entries of key that were overridden, in the order they
// were overridden.
func History(entries []ConfigEntry, key string) []ConfigEntry {
	key = canonicalizeKey(key)

	var out []ConfigEntry
	for _, e := range entries {
		if e.Key == key && e.IsOverridden() {
			out = append(out, e)
		}
	}

	return out
}
