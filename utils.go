package gitconfig

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// FilterEntries returns the entries whose key matches the glob pattern.
// Keys are matched component wise, i.e. `alias.*` matches `alias.st` but
// `*` does not cross a dot. Use `**` to match across dots, e.g. `remote.**`.
// An empty pattern matches everything. Sections and variable names are
// case-insensitive, so the pattern is canonicalized like a key.
func FilterEntries(entries []ConfigEntry, pattern string) ([]ConfigEntry, error) {
	if pattern == "" {
		return entries, nil
	}

	if ck := canonicalizeKey(pattern); ck != "" {
		pattern = ck
	}

	g, err := glob.Compile(pattern, '.')
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", pattern, err)
	}

	out := make([]ConfigEntry, 0, len(entries))
	for _, e := range entries {
		if g.Match(e.Key) {
			out = append(out, e)
		}
	}

	return out, nil
}

// splitKey splits a fully qualified gitconfig key into two or three parts.
// A valid key consists of either a section and a key separated by a dot
// or section, subsection and key, all separated by a dot. Note that
// the subsection might contain dots itself.
//
// Valid examples:
// - core.push
// - insteadof.git@github.com.push.
func splitKey(key string) (section, subsection, skey string) { //nolint:nonamedreturns
	n := strings.Index(key, ".")
	if n > 0 {
		section = key[:n]
	}

	if m := strings.LastIndex(key, "."); n != m && m > 0 && len(key) > m+1 {
		subsection = key[n+1 : m]
		skey = key[m+1:]

		return
	}

	skey = key[n+1:]

	return
}

func canonicalizeKey(key string) string {
	if key == "" {
		// invalid key, return empty string
		return ""
	}

	section, subsection, skey := splitKey(key)
	// "Section names are case-insensitive.""
	section = strings.ToLower(section)
	// "Subsection names are case sensitive."
	// "The variable names are case-insensitive."
	skey = strings.ToLower(skey)

	if section == "" || skey == "" {
		// invalid key, return empty string
		return ""
	}

	if subsection == "" {
		return section + "." + skey
	}

	return section + "." + subsection + "." + skey
}
