package gitconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/gopasspw/gopass/pkg/appdir"
	"github.com/gopasspw/gopass/pkg/debug"
)

const (
	globalConfig = ".gitconfig"
	localConfig  = ".git/config"
)

// Resolver maps a Scope to the path of its backing config file.
//
// The exported fields can be customized before use:
//
//   - SystemConfig - absolute path of the system config (default /etc/gitconfig)
//   - GlobalConfig - per-user config, relative to the home directory or absolute
//     (default .gitconfig)
//   - LocalConfig - per-repository config, relative to the repository root
//     (default .git/config)
//
// NewResolver also honors git's GIT_CONFIG_SYSTEM and GIT_CONFIG_GLOBAL
// environment variables.
//
// Resolving a path never touches the filesystem.
type Resolver struct {
	SystemConfig string
	GlobalConfig string
	LocalConfig  string

	home    func() string
	workdir func() (string, error)
}

// NewResolver creates a Resolver with the platform defaults.
func NewResolver() *Resolver {
	r := &Resolver{
		SystemConfig: systemConfig,
		GlobalConfig: globalConfig,
		LocalConfig:  localConfig,
		home:         appdir.UserHome,
		workdir:      os.Getwd,
	}

	if p := os.Getenv("GIT_CONFIG_SYSTEM"); p != "" {
		debug.V(1).Log("using system config from GIT_CONFIG_SYSTEM: %s", p)
		r.SystemConfig = p
	}
	if p := os.Getenv("GIT_CONFIG_GLOBAL"); p != "" {
		debug.V(1).Log("using global config from GIT_CONFIG_GLOBAL: %s", p)
		r.GlobalConfig = p
	}

	return r
}

// String implements fmt.Stringer for debugging.
func (r *Resolver) String() string {
	return fmt.Sprintf("Resolver{System: %s - Global: %s - Local: %s}", r.SystemConfig, r.GlobalConfig, r.LocalConfig)
}

// Path returns the location of the config file backing the given scope.
// For the local scope repoRoot is the repository root; if it is empty the
// current working directory is used instead.
//
// The second return value is false if the path can not be determined, e.g.
// if there is no home directory for the global scope.
func (r *Resolver) Path(scope Scope, repoRoot string) (string, bool) {
	switch scope {
	case ScopeLocal:
		if repoRoot == "" {
			wd, err := r.getWorkdir()
			if err != nil {
				debug.Log("failed to determine working directory: %s", err)

				return "", false
			}
			repoRoot = wd
		}
		lc := r.LocalConfig
		if lc == "" {
			lc = localConfig
		}

		return filepath.Join(repoRoot, lc), true
	case ScopeGlobal:
		// GlobalConfig might be set to an empty string to disable it.
		if r.GlobalConfig == "" {
			return "", false
		}
		if filepath.IsAbs(r.GlobalConfig) {
			return r.GlobalConfig, true
		}
		home := r.getHome()
		if home == "" {
			debug.V(1).Log("no home directory, can not resolve %s", r.GlobalConfig)

			return "", false
		}

		return filepath.Join(home, r.GlobalConfig), true
	case ScopeSystem:
		if r.SystemConfig == "" {
			return "", false
		}

		return r.SystemConfig, true
	}

	debug.V(1).Log("unknown scope %q", scope)

	return "", false
}

func (r *Resolver) getHome() string {
	if r.home == nil {
		return appdir.UserHome()
	}

	return r.home()
}

func (r *Resolver) getWorkdir() (string, error) {
	if r.workdir == nil {
		return os.Getwd()
	}

	return r.workdir()
}

// ScopeInfo describes one scope for a scope catalog.
type ScopeInfo struct {
	Scope Scope  `json:"scope" yaml:"scope"`
	Label string `json:"label" yaml:"label"`
	// Path is empty if the location of the scope could not be determined.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Catalog returns one ScopeInfo for each scope, in the order of Scopes().
func (r *Resolver) Catalog(repoRoot string) []ScopeInfo {
	out := make([]ScopeInfo, 0, 3)
	for _, s := range Scopes() {
		p, _ := r.Path(s, repoRoot)
		out = append(out, ScopeInfo{
			Scope: s,
			Label: s.Label(),
			Path:  p,
		})
	}

	return out
}

// IsGitRepo returns true if path is, or is located inside, a git repository.
// It never fails, any error (missing path, permission denied, no repository)
// yields false.
func IsGitRepo(path string) bool {
	if path == "" {
		return false
	}

	if _, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true}); err != nil {
		debug.V(2).Log("%s is not a git repository: %s", path, err)

		return false
	}

	return true
}
