package gitconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema(t *testing.T) {
	t.Parallel()

	cats := Categories()
	for _, m := range Schema() {
		assert.Contains(t, cats, m.Category, m.Key)
		assert.NotEmpty(t, m.Label, m.Key)
		if m.Type == TypeEnum {
			assert.NotEmpty(t, m.EnumValues, m.Key)
			if m.DefaultValue != "" {
				assert.Contains(t, m.EnumValues, m.DefaultValue, m.Key)
			}
		}
	}

	// callers get a copy
	s := Schema()
	s[0].Key = "changed"
	assert.Equal(t, "user.name", Schema()[0].Key)
}

func TestLookupKey(t *testing.T) {
	t.Parallel()

	m, found := LookupKey("init.defaultbranch")
	require.True(t, found)
	assert.Equal(t, "init.defaultBranch", m.Key)

	m, found = LookupKey("REMOTE.origin.URL")
	require.True(t, found)
	assert.Equal(t, "remote.origin.url", m.Key)

	_, found = LookupKey("remote.Origin.url")
	assert.False(t, found, "subsections are case sensitive")

	_, found = LookupKey("foo.bar")
	assert.False(t, found)
}

func TestValidateValue(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		key   string
		value string
		ok    bool
	}{
		{"core.filemode", "true", true},
		{"core.filemode", "Yes", true},
		{"core.filemode", "0", true},
		{"core.filemode", "", true},
		{"core.filemode", "maybe", false},
		{"core.autocrlf", "input", true},
		{"core.autocrlf", "INPUT", true},
		{"core.autocrlf", "lf", false},
		{"pull.rebase", "merges", true},
		{"gpg.format", "x509", false},
		{"user.name", "anything goes", true},
		{"core.editor", "/usr/bin/vim", true},
		{"unknown.key", "whatever", true},
	} {
		err := ValidateValue(tc.key, tc.value)
		if tc.ok {
			assert.NoError(t, err, "%s=%s", tc.key, tc.value)

			continue
		}
		assert.ErrorIs(t, err, ErrInvalidValue, "%s=%s", tc.key, tc.value)
	}
}
