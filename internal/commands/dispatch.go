package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	gitconfig "github.com/gopasspw/gitconfig-editor"
	"github.com/gopasspw/gopass/pkg/debug"
)

var errUnknownCommand = errors.New("unknown command")

// Request is one command invocation as sent by a front end. Key carries the
// key prefix for "keys" and the section name for "sections".
type Request struct {
	Cmd      string                  `json:"cmd"`
	Scope    string                  `json:"scope,omitempty"`
	RepoPath string                  `json:"repoPath,omitempty"`
	Path     string                  `json:"path,omitempty"`
	Filter   string                  `json:"filter,omitempty"`
	Entries  []gitconfig.ConfigEntry `json:"entries,omitempty"`
	Keys     []string                `json:"keys,omitempty"`
	Key      string                  `json:"key,omitempty"`
	Value    string                  `json:"value,omitempty"`
	Alias    *gitconfig.Alias        `json:"alias,omitempty"`
	Remote   *gitconfig.Remote       `json:"remote,omitempty"`
}

// Dispatch runs the command named in req.
func (h *Handler) Dispatch(req Request) Response {
	debug.V(1).Log("dispatching %q", req.Cmd)

	switch req.Cmd {
	case "read_scope":
		return h.ReadScope(req.Scope, req.RepoPath, req.Filter)
	case "write_scope":
		return h.WriteScope(req.Scope, req.RepoPath, req.Entries)
	case "unset_scope":
		return h.UnsetScope(req.Scope, req.RepoPath, req.Keys)
	case "merged_view":
		return h.MergedView(req.RepoPath, req.Filter)
	case "get":
		return h.Get(req.RepoPath, req.Key, req.Scope)
	case "keys":
		return h.Keys(req.RepoPath, req.Key)
	case "sections":
		return h.Sections(req.RepoPath, req.Key)
	case "list_scopes":
		return h.ListScopes(req.RepoPath)
	case "is_git_repo":
		return h.IsGitRepo(req.Path)
	case "aliases":
		return h.Aliases(req.RepoPath)
	case "set_alias":
		if req.Alias == nil {
			return failure(fmt.Errorf("%s: missing alias", req.Cmd))
		}

		return h.SetAlias(req.Scope, req.RepoPath, req.Alias.Name, req.Alias.Command)
	case "remove_alias":
		return h.RemoveAlias(req.Scope, req.RepoPath, req.Key)
	case "remotes":
		return h.Remotes(req.RepoPath)
	case "set_remote":
		if req.Remote == nil {
			return failure(fmt.Errorf("%s: missing remote", req.Cmd))
		}

		return h.SetRemote(req.Scope, req.RepoPath, *req.Remote)
	case "remove_remote":
		return h.RemoveRemote(req.Scope, req.RepoPath, req.Key)
	case "conflicts":
		return h.Conflicts(req.RepoPath)
	case "snapshot":
		return h.Snapshot(req.RepoPath)
	case "schema":
		return h.Schema()
	case "validate":
		return h.ValidateValue(req.Key, req.Value)
	default:
		return failure(fmt.Errorf("%w: %q", errUnknownCommand, req.Cmd))
	}
}

// Serve reads one JSON encoded Request per line from r and writes one JSON
// encoded Response per request to w, until r is exhausted. Requests are
// handled one at a time.
func (h *Handler) Serve(r io.Reader, w io.Writer) error {
	dec := json.NewDecoder(r)
	enc := json.NewEncoder(w)

	for {
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}

			// the stream can not be resynchronized after a decoding error
			_ = enc.Encode(failure(fmt.Errorf("invalid request: %w", err)))

			return fmt.Errorf("failed to decode request: %w", err)
		}

		if err := enc.Encode(h.Dispatch(req)); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
	}
}
