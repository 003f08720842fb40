// Package gitconfig reads, edits and merges the layered git configuration
// scopes of a user and a repository.
//
// The parser is a pure Go implementation of the git config file format. It
// keeps the raw file content so that writes only touch the lines of the keys
// being changed; comments, whitespace and unrelated sections survive.
//
// The reference for this implementation is https://git-scm.com/docs/git-config
//
// # Scopes
//
// Three scopes are supported, in order of precedence (later ones win):
//
//   - `system` - /etc/gitconfig
//   - `global` - ~/.gitconfig
//   - `local` - <repo>/.git/config
//
// A Resolver maps a scope to its file. Its SystemConfig, GlobalConfig and
// LocalConfig fields can be customized, and git's GIT_CONFIG_SYSTEM and
// GIT_CONFIG_GLOBAL environment variables are honored.
//
// # Reading and writing
//
//	store := gitconfig.NewStore(nil)
//	entries, err := store.ReadScope(gitconfig.ScopeGlobal, "")
//	if err != nil { ... }
//	err = store.WriteScope(gitconfig.ScopeLocal, "/path/to/repo", []gitconfig.ConfigEntry{
//		{Key: "user.name", Value: "John Doe"},
//	})
//
// Every call re-reads the file, nothing is cached. Missing files (and their
// parent directories) are created on first access.
//
// # Merged view
//
// MergedView reads all scopes and returns the effective entries together with
// the entries they override:
//
//	merged, err := store.MergedView("/path/to/repo")
//	if err != nil { ... }
//	e, _ := gitconfig.Effective(merged, "user.name")
//	fmt.Println(e.Value, e.Scope)
//
// LoadAll loads every scope at once. Lookup on the result tells where the
// effective value of a key comes from:
//
//	cs, err := store.LoadAll("/path/to/repo")
//	if err != nil { ... }
//	l, found := cs.Lookup("core.editor")
//
// # Error Handling
//
// Failures to resolve, open, parse or write a store are reported as
// *OpenError, failures to create a missing store as *IoError. Use errors.Is
// with the sentinel errors for details:
//
//	if _, err := store.ReadScope(gitconfig.ScopeGlobal, ""); err != nil {
//		if errors.Is(err, gitconfig.ErrNoPath) {
//			// no home directory
//		}
//	}
//
// # Known limitations
//
//   - include and includeIf directives are not followed, they are reported as plain keys
//   - a value continued over several lines (trailing backslash) is rewritten as
//     a single line when it is set
//   - writing a multi-valued key replaces its last value only
package gitconfig
