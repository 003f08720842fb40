package gitconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gopasspw/gopass/pkg/debug"
)

// Store gives read and write access to the config files of all scopes.
//
// Every call resolves the path of the scope, makes sure the file exists and
// parses it again. Nothing is cached between calls so changes made by other
// tools (e.g. the git CLI) are always visible. There is no locking either, if
// two writers modify the same file concurrently the last one wins.
type Store struct {
	Resolver *Resolver
}

// NewStore creates a Store using the given resolver. If r is nil a default
// resolver (see NewResolver) is used.
func NewStore(r *Resolver) *Store {
	if r == nil {
		r = NewResolver()
	}

	return &Store{
		Resolver: r,
	}
}

// EnsureStore creates all missing parent directories of path and an empty
// file at path if it does not exist yet. It is a no-op for existing files.
func EnsureStore(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IoError{Path: dir, Err: fmt.Errorf("%w: %w", ErrCreateConfigDir, err)}
	}

	fh, err := os.OpenFile(path, os.O_RDONLY|os.O_CREATE, 0o644)
	if err != nil {
		return &IoError{Path: path, Err: fmt.Errorf("%w: %w", ErrCreateConfigFile, err)}
	}

	if err := fh.Close(); err != nil {
		return &IoError{Path: path, Err: fmt.Errorf("%w: %w", ErrCreateConfigFile, err)}
	}

	return nil
}

// open resolves, ensures and loads the config file of the given scope.
func (s *Store) open(scope Scope, repoRoot string) (*Config, error) {
	if !scope.Valid() {
		return nil, &OpenError{Err: fmt.Errorf("%w: %q", ErrUnknownScope, scope)}
	}

	path, ok := s.Resolver.Path(scope, repoRoot)
	if !ok {
		return nil, &OpenError{Err: fmt.Errorf("%w for scope %s", ErrNoPath, scope)}
	}

	if err := EnsureStore(path); err != nil {
		return nil, err
	}

	c, err := LoadConfig(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	debug.V(2).Log("[%s] loaded %d entries from %s", scope, c.Len(), path)

	return c, nil
}

// ReadScope returns every entry of the given scope in file order. Keys that
// occur more than once are reported once per occurrence.
//
// For the local scope repoRoot is the repository root, if empty the current
// working directory is used. The config file is created if it does not exist.
func (s *Store) ReadScope(scope Scope, repoRoot string) ([]ConfigEntry, error) {
	c, err := s.open(scope, repoRoot)
	if err != nil {
		return nil, err
	}

	return entriesOf(scope, c), nil
}

func entriesOf(scope Scope, c *Config) []ConfigEntry {
	entries := make([]ConfigEntry, 0, c.Len())
	c.Each(func(key, value string) {
		entries = append(entries, ConfigEntry{
			Key:   key,
			Value: value,
			Scope: scope,
		})
	})

	return entries
}

// WriteScope sets every given entry in the config file of the given scope.
// The Scope and OverriddenBy fields of the entries are ignored.
//
// Entries are applied in order and each one is persisted immediately. If one
// of them fails the previous ones stay written, callers should re-read the
// scope before trusting its content. Writing no entries leaves the file
// untouched.
func (s *Store) WriteScope(scope Scope, repoRoot string, entries []ConfigEntry) error {
	c, err := s.open(scope, repoRoot)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if err := c.Set(e.Key, e.Value); err != nil {
			return &OpenError{Path: c.Path(), Err: fmt.Errorf("failed to set %s: %w", e.Key, err)}
		}
	}

	debug.V(1).Log("[%s] wrote %d entries to %s", scope, len(entries), c.Path())

	return nil
}

// UnsetScope removes every occurrence of the given keys from the config file
// of the given scope. Keys that are not present are ignored.
func (s *Store) UnsetScope(scope Scope, repoRoot string, keys []string) error {
	c, err := s.open(scope, repoRoot)
	if err != nil {
		return err
	}

	for _, k := range keys {
		if err := c.Unset(k); err != nil {
			return &OpenError{Path: c.Path(), Err: fmt.Errorf("failed to unset %s: %w", k, err)}
		}
	}

	debug.V(1).Log("[%s] removed %d keys from %s", scope, len(keys), c.Path())

	return nil
}

// IsOpenError returns true if err is (or wraps) an *OpenError.
func IsOpenError(err error) bool {
	var oe *OpenError

	return errors.As(err, &oe)
}

// IsIoError returns true if err is (or wraps) an *IoError.
func IsIoError(err error) bool {
	var ie *IoError

	return errors.As(err, &ie)
}
