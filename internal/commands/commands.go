// Package commands is the request/response boundary between a front end
// (the CLI or a desktop shell) and the gitconfig core. Every command returns
// a Response; errors are converted to plain messages here and nowhere else.
package commands

import (
	"bytes"
	"fmt"
	"strings"

	gitconfig "github.com/gopasspw/gitconfig-editor"
	"github.com/gopasspw/gopass/pkg/debug"
)

// Response is the result of one command.
type Response struct {
	OK    bool   `json:"ok"              yaml:"ok"`
	Data  any    `json:"data,omitempty"  yaml:"data,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

func success(data any) Response {
	return Response{OK: true, Data: data}
}

func failure(err error) Response {
	debug.Log("command failed: %s", err)

	return Response{Error: err.Error()}
}

// Handler executes commands against a store.
type Handler struct {
	store *gitconfig.Store

	// Validate enables checking values of well known keys before writing.
	Validate bool
}

// New creates a new Handler.
func New(store *gitconfig.Store) *Handler {
	return &Handler{
		store: store,
	}
}

// ReadScope returns the entries of one scope, optionally filtered by a key
// glob.
func (h *Handler) ReadScope(scope, repoPath, filter string) Response {
	s, err := gitconfig.ParseScope(scope)
	if err != nil {
		return failure(err)
	}

	entries, err := h.store.ReadScope(s, repoPath)
	if err != nil {
		return failure(err)
	}

	entries, err = gitconfig.FilterEntries(entries, filter)
	if err != nil {
		return failure(err)
	}

	return success(entries)
}

// WriteScope sets the given entries in one scope.
func (h *Handler) WriteScope(scope, repoPath string, entries []gitconfig.ConfigEntry) Response {
	s, err := gitconfig.ParseScope(scope)
	if err != nil {
		return failure(err)
	}

	if h.Validate {
		for _, e := range entries {
			if err := gitconfig.ValidateValue(e.Key, e.Value); err != nil {
				return failure(err)
			}
		}
	}

	if err := h.store.WriteScope(s, repoPath, entries); err != nil {
		return failure(err)
	}

	return success(nil)
}

// UnsetScope removes the given keys from one scope.
func (h *Handler) UnsetScope(scope, repoPath string, keys []string) Response {
	s, err := gitconfig.ParseScope(scope)
	if err != nil {
		return failure(err)
	}

	if err := h.store.UnsetScope(s, repoPath, keys); err != nil {
		return failure(err)
	}

	return success(nil)
}

// MergedView returns the merged view of all scopes, optionally filtered by a
// key glob.
func (h *Handler) MergedView(repoPath, filter string) Response {
	merged, err := h.store.MergedView(repoPath)
	if err != nil {
		return failure(err)
	}

	merged, err = gitconfig.FilterEntries(merged, filter)
	if err != nil {
		return failure(err)
	}

	return success(merged)
}

func (h *Handler) loadAll(repoPath string) (*gitconfig.Configs, error) {
	cs, err := h.store.LoadAll(repoPath)
	if err != nil {
		return nil, err
	}
	debug.V(2).Log("loaded %s", cs)

	return cs, nil
}

// Get returns the effective value of key together with the scope it comes
// from and the values it overrides. If scope is not empty only that scope is
// consulted.
func (h *Handler) Get(repoPath, key, scope string) Response {
	var s gitconfig.Scope
	if scope != "" {
		var err error
		if s, err = gitconfig.ParseScope(scope); err != nil {
			return failure(err)
		}
	}

	cs, err := h.loadAll(repoPath)
	if err != nil {
		return failure(err)
	}

	if s != "" {
		v, found := cs.GetFrom(key, s)
		if !found {
			return failure(fmt.Errorf("%w: %s in %s scope", gitconfig.ErrKeyNotFound, key, s))
		}

		return success(gitconfig.Lookup{Key: key, Value: v, Values: []string{v}, Scope: s})
	}

	l, found := cs.Lookup(key)
	if !found {
		return failure(fmt.Errorf("%w: %s", gitconfig.ErrKeyNotFound, key))
	}

	return success(l)
}

// Keys returns the sorted keys of all scopes starting with prefix.
func (h *Handler) Keys(repoPath, prefix string) Response {
	cs, err := h.loadAll(repoPath)
	if err != nil {
		return failure(err)
	}

	return success(cs.List(prefix))
}

// Sections returns the sorted section names of all scopes. If section is
// not empty the subsections of that section are returned instead.
func (h *Handler) Sections(repoPath, section string) Response {
	cs, err := h.loadAll(repoPath)
	if err != nil {
		return failure(err)
	}

	if section != "" {
		return success(cs.ListSubsections(strings.ToLower(section)))
	}

	return success(cs.ListSections())
}

// ListScopes returns the scope catalog.
func (h *Handler) ListScopes(repoPath string) Response {
	return success(h.store.Resolver.Catalog(repoPath))
}

// IsGitRepo reports whether path is inside a git repository. It never fails.
func (h *Handler) IsGitRepo(path string) Response {
	return success(gitconfig.IsGitRepo(path))
}

// Aliases returns the effective aliases.
func (h *Handler) Aliases(repoPath string) Response {
	merged, err := h.store.MergedView(repoPath)
	if err != nil {
		return failure(err)
	}

	return success(gitconfig.Aliases(merged))
}

// Remotes returns the effective remotes.
func (h *Handler) Remotes(repoPath string) Response {
	merged, err := h.store.MergedView(repoPath)
	if err != nil {
		return failure(err)
	}

	return success(gitconfig.Remotes(merged))
}

// Conflicts returns the keys defined in more than one scope.
func (h *Handler) Conflicts(repoPath string) Response {
	merged, err := h.store.MergedView(repoPath)
	if err != nil {
		return failure(err)
	}

	return success(gitconfig.Conflicts(merged))
}

// Snapshot returns a YAML snapshot of the merged view.
func (h *Handler) Snapshot(repoPath string) Response {
	merged, err := h.store.MergedView(repoPath)
	if err != nil {
		return failure(err)
	}

	buf := &bytes.Buffer{}
	snap := gitconfig.NewSnapshot(h.store.Resolver.Catalog(repoPath), merged)
	if err := gitconfig.WriteSnapshot(buf, snap); err != nil {
		return failure(err)
	}

	return success(buf.String())
}

// SchemaInfo is the catalog of well known keys with its categories in
// display order.
type SchemaInfo struct {
	Categories []string            `json:"categories" yaml:"categories"`
	Keys       []gitconfig.KeyMeta `json:"keys"       yaml:"keys"`
}

// Schema returns the catalog of well known keys.
func (h *Handler) Schema() Response {
	return success(SchemaInfo{
		Categories: gitconfig.Categories(),
		Keys:       gitconfig.Schema(),
	})
}

// ValidateValue checks a value against the catalog.
func (h *Handler) ValidateValue(key, value string) Response {
	if err := gitconfig.ValidateValue(key, value); err != nil {
		return failure(err)
	}

	return success(nil)
}

// SetAlias writes an alias to one scope.
func (h *Handler) SetAlias(scope, repoPath, name, command string) Response {
	s, err := gitconfig.ParseScope(scope)
	if err != nil {
		return failure(err)
	}

	if err := h.store.SetAlias(s, repoPath, name, command); err != nil {
		return failure(err)
	}

	return success(nil)
}

// RemoveAlias removes an alias from one scope.
func (h *Handler) RemoveAlias(scope, repoPath, name string) Response {
	s, err := gitconfig.ParseScope(scope)
	if err != nil {
		return failure(err)
	}

	if err := h.store.RemoveAlias(s, repoPath, name); err != nil {
		return failure(err)
	}

	return success(nil)
}

// SetRemote writes a remote to one scope.
func (h *Handler) SetRemote(scope, repoPath string, r gitconfig.Remote) Response {
	s, err := gitconfig.ParseScope(scope)
	if err != nil {
		return failure(err)
	}

	if err := h.store.SetRemote(s, repoPath, r); err != nil {
		return failure(err)
	}

	return success(nil)
}

// RemoveRemote removes a remote from one scope.
func (h *Handler) RemoveRemote(scope, repoPath, name string) Response {
	s, err := gitconfig.ParseScope(scope)
	if err != nil {
		return failure(err)
	}

	if err := h.store.RemoveRemote(s, repoPath, name); err != nil {
		return failure(err)
	}

	return success(nil)
}
