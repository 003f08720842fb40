package gitconfig

import (
	"fmt"
	"slices"
	"strings"
)

// ValueType describes how a consumer should interpret the raw string value
// of a known key.
type ValueType string

const (
	TypeString  ValueType = "string"
	TypeBoolean ValueType = "boolean"
	TypeEnum    ValueType = "enum"
	TypePath    ValueType = "path"
)

// KeyMeta describes a well known config key.
type KeyMeta struct {
	Key          string    `json:"key"                    yaml:"key"`
	Label        string    `json:"label"                  yaml:"label"`
	Type         ValueType `json:"type"                   yaml:"type"`
	Category     string    `json:"category"               yaml:"category"`
	Description  string    `json:"description,omitempty"  yaml:"description,omitempty"`
	EnumValues   []string  `json:"enumValues,omitempty"   yaml:"enumValues,omitempty"`
	DefaultValue string    `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

var categories = []string{
	"User",
	"Core",
	"Alias",
	"Remote",
	"Workflow",
	"Security",
}

var schema = []KeyMeta{
	{Key: "user.name", Label: "User Name", Type: TypeString, Category: "User", Description: "Name used to identify the author for commits."},
	{Key: "user.email", Label: "User Email", Type: TypeString, Category: "User", Description: "Email used to identify the author for commits."},
	{Key: "core.autocrlf", Label: "Auto CRLF", Type: TypeEnum, Category: "Core", Description: "Control line ending conversion on checkout/commit.", EnumValues: []string{"true", "false", "input"}, DefaultValue: "input"},
	{Key: "core.filemode", Label: "File Mode", Type: TypeBoolean, Category: "Core", Description: "Check file permission bit changes.", DefaultValue: "true"},
	{Key: "core.editor", Label: "Editor", Type: TypePath, Category: "Core", Description: "Default text editor path."},
	{Key: "core.ignorecase", Label: "Ignore Case", Type: TypeBoolean, Category: "Core", Description: "Ignore case in filenames.", DefaultValue: "true"},
	{Key: "init.defaultBranch", Label: "Default Branch", Type: TypeString, Category: "Core", Description: "Default branch name when initializing repositories.", DefaultValue: "main"},
	{Key: "color.ui", Label: "Color UI", Type: TypeEnum, Category: "Core", Description: "Enable colored output in the command line.", EnumValues: []string{"auto", "true", "false"}, DefaultValue: "auto"},
	{Key: "alias.st", Label: "Alias: st", Type: TypeString, Category: "Alias", Description: "Shortcut for git status."},
	{Key: "alias.ci", Label: "Alias: ci", Type: TypeString, Category: "Alias", Description: "Shortcut for git commit."},
	{Key: "remote.origin.url", Label: "Remote origin URL", Type: TypeString, Category: "Remote", Description: "Fetch URL for origin."},
	{Key: "remote.origin.pushurl", Label: "Remote origin Push URL", Type: TypeString, Category: "Remote", Description: "Push URL for origin."},
	{Key: "fetch.prune", Label: "Fetch Prune", Type: TypeBoolean, Category: "Remote", Description: "Auto prune removed remote branches when fetching.", DefaultValue: "false"},
	{Key: "push.autoSetupRemote", Label: "Auto Setup Remote", Type: TypeBoolean, Category: "Remote", Description: "Auto create upstream tracking on first push.", DefaultValue: "true"},
	{Key: "pull.rebase", Label: "Pull Rebase", Type: TypeEnum, Category: "Workflow", Description: "Default strategy for git pull.", EnumValues: []string{"false", "true", "merges"}, DefaultValue: "false"},
	{Key: "merge.ff", Label: "Merge Fast-Forward", Type: TypeEnum, Category: "Workflow", Description: "Allow fast-forward merges.", EnumValues: []string{"true", "false", "only"}, DefaultValue: "true"},
	{Key: "commit.gpgsign", Label: "Commit GPG Sign", Type: TypeBoolean, Category: "Security", Description: "Sign commits with GPG by default.", DefaultValue: "false"},
	{Key: "gpg.format", Label: "GPG Format", Type: TypeEnum, Category: "Security", Description: "Format used for signatures.", EnumValues: []string{"openpgp", "ssh"}, DefaultValue: "openpgp"},
}

// Schema returns the catalog of well known keys.
func Schema() []KeyMeta {
	return slices.Clone(schema)
}

// Categories returns the categories of the catalog in display order.
func Categories() []string {
	return slices.Clone(categories)
}

// LookupKey returns the catalog entry for key. Keys are compared like git
// does, i.e. case-insensitive except for subsections.
func LookupKey(key string) (KeyMeta, bool) {
	key = canonicalizeKey(key)
	for _, m := range schema {
		if canonicalizeKey(m.Key) == key {
			return m, true
		}
	}

	return KeyMeta{}, false
}

// ValidateValue checks value against the type of key, if the key is known.
// Unknown keys and string or path typed keys accept any value.
func ValidateValue(key, value string) error {
	m, found := LookupKey(key)
	if !found {
		return nil
	}

	switch m.Type {
	case TypeBoolean:
		if _, ok := parseBool(value); !ok {
			return fmt.Errorf("%w for %s: %q is not a boolean", ErrInvalidValue, key, value)
		}
	case TypeEnum:
		if !slices.Contains(m.EnumValues, strings.ToLower(value)) {
			return fmt.Errorf("%w for %s: %q is not one of %s", ErrInvalidValue, key, value, strings.Join(m.EnumValues, ", "))
		}
	case TypeString, TypePath:
	}

	return nil
}

// parseBool follows git's rules for boolean values.
func parseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0", "":
		return false, true
	default:
		return false, false
	}
}
