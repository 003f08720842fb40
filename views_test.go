package gitconfig

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliases(t *testing.T) {
	t.Parallel()

	merged := Merge(map[Scope][]ConfigEntry{
		ScopeSystem: {
			{Key: "alias.st", Value: "status", Scope: ScopeSystem},
			{Key: "alias.co", Value: "checkout", Scope: ScopeSystem},
		},
		ScopeGlobal: {
			{Key: "alias.st", Value: "status -sb", Scope: ScopeGlobal},
			{Key: "alias.sub.x", Value: "not an alias", Scope: ScopeGlobal},
			{Key: "user.name", Value: "Jane", Scope: ScopeGlobal},
		},
	})

	assert.Equal(t, []Alias{
		{Name: "co", Command: "checkout", Scope: ScopeSystem},
		{Name: "st", Command: "status -sb", Scope: ScopeGlobal},
	}, Aliases(merged))

	assert.Empty(t, Aliases(nil))
}

func TestRemotes(t *testing.T) {
	t.Parallel()

	merged := Merge(map[Scope][]ConfigEntry{
		ScopeGlobal: {
			{Key: "remote.origin.url", Value: "https://example.com/old.git", Scope: ScopeGlobal},
		},
		ScopeLocal: {
			{Key: "remote.origin.url", Value: "git@example.com:jane/repo.git", Scope: ScopeLocal},
			{Key: "remote.origin.fetch", Value: "+refs/heads/*:refs/remotes/origin/*", Scope: ScopeLocal},
			{Key: "remote.upstream.pushurl", Value: "no_push", Scope: ScopeLocal},
			{Key: "remote.upstream.url", Value: "https://example.com/upstream.git", Scope: ScopeLocal},
			{Key: "remote.gist.github.com.url", Value: "https://gist.github.com/x.git", Scope: ScopeLocal},
		},
	})

	assert.Equal(t, []Remote{
		{Name: "gist.github.com", FetchURL: "https://gist.github.com/x.git", Scope: ScopeLocal},
		{Name: "origin", FetchURL: "git@example.com:jane/repo.git", Scope: ScopeLocal},
		{Name: "upstream", FetchURL: "https://example.com/upstream.git", PushURL: "no_push", Scope: ScopeLocal},
	}, Remotes(merged))
}

func TestConflicts(t *testing.T) {
	t.Parallel()

	merged := Merge(map[Scope][]ConfigEntry{
		ScopeSystem: {
			{Key: "core.autocrlf", Value: "false", Scope: ScopeSystem},
			{Key: "user.name", Value: "Jane", Scope: ScopeSystem},
		},
		ScopeGlobal: {
			{Key: "core.autocrlf", Value: "input", Scope: ScopeGlobal},
			{Key: "core.editor", Value: "vim", Scope: ScopeGlobal},
		},
		ScopeLocal: {
			{Key: "user.name", Value: "Jane", Scope: ScopeLocal},
		},
	})

	assert.Equal(t, []Conflict{
		{
			Key:         "core.autocrlf",
			Values:      map[Scope]string{ScopeSystem: "false", ScopeGlobal: "input"},
			Conflicting: true,
		},
		{
			Key:         "user.name",
			Values:      map[Scope]string{ScopeSystem: "Jane", ScopeLocal: "Jane"},
			Conflicting: false,
		},
	}, Conflicts(merged))
}

func TestStoreAliasesAndRemotes(t *testing.T) {
	t.Parallel()

	s, repo := newTestStore(t)

	require.NoError(t, s.SetAlias(ScopeGlobal, repo, "st", "status"))
	require.NoError(t, s.SetAlias(ScopeLocal, repo, "st", "status -sb"))
	require.NoError(t, s.SetRemote(ScopeLocal, repo, Remote{Name: "origin", FetchURL: "https://example.com/r.git", PushURL: "git@example.com:r.git"}))

	merged, err := s.MergedView(repo)
	require.NoError(t, err)
	assert.Equal(t, []Alias{{Name: "st", Command: "status -sb", Scope: ScopeLocal}}, Aliases(merged))
	assert.Equal(t, []Remote{{Name: "origin", FetchURL: "https://example.com/r.git", PushURL: "git@example.com:r.git", Scope: ScopeLocal}}, Remotes(merged))

	require.NoError(t, s.RemoveAlias(ScopeLocal, repo, "st"))
	require.NoError(t, s.RemoveRemote(ScopeLocal, repo, "origin"))

	merged, err = s.MergedView(repo)
	require.NoError(t, err)
	assert.Equal(t, []Alias{{Name: "st", Command: "status", Scope: ScopeGlobal}}, Aliases(merged))
	assert.Empty(t, Remotes(merged))
}

func TestStoreAliasesInvalid(t *testing.T) {
	t.Parallel()

	s, repo := newTestStore(t)

	for _, name := range []string{"", "a.b", "with space"} {
		assert.ErrorIs(t, s.SetAlias(ScopeGlobal, repo, name, "status"), ErrInvalidKey, name)
	}
	assert.ErrorIs(t, s.SetRemote(ScopeGlobal, repo, Remote{Name: "origin"}), ErrInvalidKey)
	assert.ErrorIs(t, s.SetRemote(ScopeGlobal, repo, Remote{FetchURL: "x"}), ErrInvalidKey)
}

func TestStoreRemoveInvalidNames(t *testing.T) {
	t.Parallel()

	s, repo := newTestStore(t)
	content := "[remote]\n\turl = https://example.com/bare.git\n[alias \"x\"]\n\ty = z\n[alias]\n\tst = status\n"
	writeScopeFile(t, s, ScopeGlobal, repo, content)

	for _, name := range []string{"", "x.y", "a b", "a\nb"} {
		assert.ErrorIs(t, s.RemoveAlias(ScopeGlobal, repo, name), ErrInvalidKey, name)
	}
	for _, name := range []string{"", "a\nb"} {
		assert.ErrorIs(t, s.RemoveRemote(ScopeGlobal, repo, name), ErrInvalidKey, name)
		assert.ErrorIs(t, s.SetRemote(ScopeGlobal, repo, Remote{Name: name, FetchURL: "x"}), ErrInvalidKey, name)
	}

	buf, err := os.ReadFile(scopePath(t, s, ScopeGlobal, repo))
	require.NoError(t, err)
	assert.Equal(t, content, string(buf))

	require.NoError(t, s.SetRemote(ScopeGlobal, repo, Remote{Name: "gist.github.com", FetchURL: "https://gist.github.com/x.git"}))
	require.NoError(t, s.RemoveRemote(ScopeGlobal, repo, "gist.github.com"))

	buf, err = os.ReadFile(scopePath(t, s, ScopeGlobal, repo))
	require.NoError(t, err)
	assert.NotContains(t, string(buf), "gist.github.com/x.git")
	assert.Contains(t, string(buf), "bare.git")
}
