package gitconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterEntries(t *testing.T) {
	t.Parallel()

	entries := []ConfigEntry{
		{Key: "alias.st", Value: "status", Scope: ScopeGlobal},
		{Key: "alias.ci", Value: "commit", Scope: ScopeGlobal},
		{Key: "core.editor", Value: "vim", Scope: ScopeGlobal},
		{Key: "remote.origin.url", Value: "https://example.com/a.git", Scope: ScopeLocal},
		{Key: "remote.origin.pushurl", Value: "git@example.com:a.git", Scope: ScopeLocal},
		{Key: "url.git@github.com:.insteadof", Value: "gh:", Scope: ScopeGlobal},
	}

	keys := func(es []ConfigEntry) []string {
		out := make([]string, 0, len(es))
		for _, e := range es {
			out = append(out, e.Key)
		}

		return out
	}

	testCases := []struct {
		name    string
		pattern string
		want    []string
		wantErr bool
	}{
		{
			name:    "empty pattern matches everything",
			pattern: "",
			want:    keys(entries),
		},
		{
			name:    "single asterisk matches within section",
			pattern: "alias.*",
			want:    []string{"alias.st", "alias.ci"},
		},
		{
			name:    "single asterisk does not cross dots",
			pattern: "remote.*",
			want:    []string{},
		},
		{
			name:    "double asterisk matches across dots",
			pattern: "remote.**",
			want:    []string{"remote.origin.url", "remote.origin.pushurl"},
		},
		{
			name:    "asterisk as subsection",
			pattern: "remote.*.url",
			want:    []string{"remote.origin.url"},
		},
		{
			name:    "case insensitive section",
			pattern: "ALIAS.st",
			want:    []string{"alias.st"},
		},
		{
			name:    "character class",
			pattern: "alias.[cs]?",
			want:    []string{"alias.st", "alias.ci"},
		},
		{
			name:    "no match",
			pattern: "user.*",
			want:    []string{},
		},
		{
			name:    "invalid pattern - bad bracket",
			pattern: "alias.[st",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := FilterEntries(entries, tc.pattern)
			if tc.wantErr {
				assert.Error(t, err)

				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, keys(got))
		})
	}
}

func TestSplitKey(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in         string
		section    string
		subsection string
		key        string
	}{
		{
			in:         "url.git@gist.github.com:.pushinsteadof",
			section:    "url",
			subsection: "git@gist.github.com:",
			key:        "pushinsteadof",
		},
		{
			in:      "gc.auto",
			section: "gc",
			key:     "auto",
		},
	} {
		sec, sub, key := splitKey(tc.in)
		assert.Equal(t, tc.section, sec, sec)
		assert.Equal(t, tc.subsection, sub, sub)
		assert.Equal(t, tc.key, key, key)
	}
}

func TestCanonicalizeKey(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple key",
			input:    "core.autocrlf",
			expected: "core.autocrlf",
		},
		{
			name:     "Key with subsection",
			input:    "remote.origin.url",
			expected: "remote.origin.url",
		},
		{
			name:     "Key with mixed case section and key",
			input:    "Core.AutoCRLF",
			expected: "core.autocrlf",
		},
		{
			name:     "Key with mixed case section, subsection, and key",
			input:    "Remote.Origin.URL",
			expected: "remote.Origin.url",
		},
		{
			name:     "Key with subsection containing dots",
			input:    "url.git@github.com:.pushinsteadof",
			expected: "url.git@github.com:.pushinsteadof",
		},
		{
			name:     "Key with mixed case and subsection containing dots",
			input:    "Url.Git@github.com:.PushInsteadOf",
			expected: "url.Git@github.com:.pushinsteadof",
		},
		{
			name:     "Empty input - invalid",
			input:    "",
			expected: "",
		},
		{
			name:     "Single part input - invalid",
			input:    "section",
			expected: "",
		},
		{
			name:     "Key starting with dot - invalid",
			input:    ".key",
			expected: "",
		},
		{
			name:     "Key ending with dot - invalid",
			input:    "section.",
			expected: "",
		},
		{
			name:     "Key with multiple dots in subsection",
			input:    "section.sub.section.key",
			expected: "section.sub.section.key",
		},
		{
			name:     "Key with uppercase subsection",
			input:    "section.SUBSECTION.key",
			expected: "section.SUBSECTION.key",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			actual := canonicalizeKey(tc.input)
			assert.Equal(t, tc.expected, actual)
		})
	}
}
