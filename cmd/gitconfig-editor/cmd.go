package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	gitconfig "github.com/gopasspw/gitconfig-editor"
	"github.com/gopasspw/gitconfig-editor/internal/commands"
	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// errFailed is returned after a failed response has been printed.
var errFailed = errors.New("command failed")

type cli struct {
	v   *viper.Viper
	in  io.Reader
	out io.Writer
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("GITCONFIG_EDITOR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	c := &cli{v: v, in: in, out: out}

	root := &cobra.Command{
		Use:           "gitconfig-editor",
		Short:         "Inspect and edit the system, global and local git configuration",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.String("repo", "", "repository root of the local scope (default: working directory)")
	pf.String("system-config", "", "path of the system config (default: /etc/gitconfig)")
	pf.String("global-config", "", "path of the global config (default: ~/.gitconfig)")
	pf.StringP("output", "o", "json", "output format: json or yaml")
	pf.String("filter", "", "only show keys matching this glob, e.g. 'alias.*'")
	pf.Bool("validate", false, "check values of well known keys before writing")
	if err := v.BindPFlags(pf); err != nil {
		debug.Log("failed to bind flags: %s", err)
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "scopes",
			Short: "List the scopes and their config files",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return c.print(c.handler().ListScopes(c.repo()))
			},
		},
		&cobra.Command{
			Use:   "read <scope>",
			Short: "Print all entries of one scope in file order",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return c.print(c.handler().ReadScope(args[0], c.repo(), c.v.GetString("filter")))
			},
		},
		&cobra.Command{
			Use:   "write <scope> <key=value>...",
			Short: "Set keys in one scope",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				entries, err := parseAssignments(args[1:])
				if err != nil {
					return err
				}

				return c.print(c.handler().WriteScope(args[0], c.repo(), entries))
			},
		},
		&cobra.Command{
			Use:   "unset <scope> <key>...",
			Short: "Remove keys from one scope",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				return c.print(c.handler().UnsetScope(args[0], c.repo(), args[1:]))
			},
		},
		&cobra.Command{
			Use:   "merged",
			Short: "Print the merged view of all scopes with override history",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return c.print(c.handler().MergedView(c.repo(), c.v.GetString("filter")))
			},
		},
		c.getCmd(),
		&cobra.Command{
			Use:   "keys [prefix]",
			Short: "List the keys of all scopes",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return c.print(c.handler().Keys(c.repo(), optionalArg(args)))
			},
		},
		&cobra.Command{
			Use:   "sections [section]",
			Short: "List the sections of all scopes, or the subsections of one section",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return c.print(c.handler().Sections(c.repo(), optionalArg(args)))
			},
		},
		&cobra.Command{
			Use:   "is-repo [path]",
			Short: "Check whether a directory is inside a git repository",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				path := "."
				if len(args) > 0 {
					path = args[0]
				}

				return c.print(c.handler().IsGitRepo(path))
			},
		},
		&cobra.Command{
			Use:   "conflicts",
			Short: "List keys that are defined in more than one scope",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return c.print(c.handler().Conflicts(c.repo()))
			},
		},
		&cobra.Command{
			Use:   "snapshot",
			Short: "Export the merged view as a YAML snapshot",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				resp := c.handler().Snapshot(c.repo())
				if !resp.OK {
					return c.print(resp)
				}
				_, err := fmt.Fprint(c.out, resp.Data)

				return err
			},
		},
		&cobra.Command{
			Use:   "schema",
			Short: "List the well known keys",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return c.print(c.handler().Schema())
			},
		},
		&cobra.Command{
			Use:   "validate <key> <value>",
			Short: "Check a value against the type of a well known key",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				return c.print(c.handler().ValidateValue(args[0], args[1]))
			},
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Answer JSON requests read line by line from stdin",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return c.handler().Serve(c.in, c.out)
			},
		},
		c.aliasCmd(),
		c.remoteCmd(),
	)

	return root
}

func (c *cli) getCmd() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Print the effective value of a key and where it comes from",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return c.print(c.handler().Get(c.repo(), args[0], scope))
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "only look at this scope")

	return cmd
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}

	return args[0]
}

func (c *cli) aliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage git aliases",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the effective aliases",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return c.print(c.handler().Aliases(c.repo()))
			},
		},
		&cobra.Command{
			Use:   "set <scope> <name> <command>",
			Short: "Add or update an alias",
			Args:  cobra.ExactArgs(3),
			RunE: func(_ *cobra.Command, args []string) error {
				return c.print(c.handler().SetAlias(args[0], c.repo(), args[1], args[2]))
			},
		},
		&cobra.Command{
			Use:   "rm <scope> <name>",
			Short: "Remove an alias",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				return c.print(c.handler().RemoveAlias(args[0], c.repo(), args[1]))
			},
		},
	)

	return cmd
}

func (c *cli) remoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage remotes",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the effective remotes",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return c.print(c.handler().Remotes(c.repo()))
			},
		},
		&cobra.Command{
			Use:   "set <scope> <name> <fetch-url> [push-url]",
			Short: "Add or update a remote",
			Args:  cobra.RangeArgs(3, 4),
			RunE: func(_ *cobra.Command, args []string) error {
				r := gitconfig.Remote{Name: args[1], FetchURL: args[2]}
				if len(args) > 3 {
					r.PushURL = args[3]
				}

				return c.print(c.handler().SetRemote(args[0], c.repo(), r))
			},
		},
		&cobra.Command{
			Use:   "rm <scope> <name>",
			Short: "Remove a remote",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				return c.print(c.handler().RemoveRemote(args[0], c.repo(), args[1]))
			},
		},
	)

	return cmd
}

func (c *cli) repo() string {
	return c.v.GetString("repo")
}

func (c *cli) handler() *commands.Handler {
	r := gitconfig.NewResolver()
	if p := c.v.GetString("system-config"); p != "" {
		r.SystemConfig = p
	}
	if p := c.v.GetString("global-config"); p != "" {
		r.GlobalConfig = p
	}
	debug.V(1).Log("using %s", r)

	h := commands.New(gitconfig.NewStore(r))
	h.Validate = c.v.GetBool("validate")

	return h
}

// print writes the response in the selected format. A failed response is
// printed as well and then reported as errFailed.
func (c *cli) print(resp commands.Response) error {
	switch format := c.v.GetString("output"); format {
	case "yaml":
		enc := yaml.NewEncoder(c.out)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
	case "json", "":
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	if !resp.OK {
		return fmt.Errorf("%w: %s", errFailed, resp.Error)
	}

	return nil
}

// parseAssignments converts key=value arguments into entries.
func parseAssignments(args []string) ([]gitconfig.ConfigEntry, error) {
	entries := make([]gitconfig.ConfigEntry, 0, len(args))
	for _, a := range args {
		k, v, found := strings.Cut(a, "=")
		if !found || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", a)
		}
		entries = append(entries, gitconfig.ConfigEntry{Key: strings.TrimSpace(k), Value: v})
	}

	return entries, nil
}
