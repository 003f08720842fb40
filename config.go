package gitconfig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
	"github.com/gopasspw/gopass/pkg/set"
)

var (
	keyValueTpl = "\t%s = %s%s"
	// "The variable names are case-insensitive, allow only alphanumeric characters and -, and must start with an alphabetic character."".
	reValidKey = regexp.MustCompile(`^[a-z]+[a-z0-9-]*$`)
	// "Only alphanumeric characters, - and . are allowed in section names".
	reValidSection = regexp.MustCompile(`^[a-zA-Z0-9.-]+$`)
)

// Config represents a single git configuration file, i.e. the store of one scope.
//
// Config keeps the raw text of the file so that changes can be written back
// without touching unrelated lines (comments, whitespace, other sections).
//
// Fields:
// - path: File path of this config file
// - noWrites: If true, prevents persisting changes to disk (useful for testing)
// - raw: Maintains the raw text representation for round-trip fidelity
// - vars: Map of canonical keys to their values (may be multiple values per key)
// - order: Every key/value pair in file order
//
// Note: Config is not thread-safe.
type Config struct {
	path     string
	noWrites bool // do not persist changes to disk (e.g. for tests)
	raw      strings.Builder
	vars     map[string][]string
	order    []kv
}

type kv struct {
	key   string
	value string
}

// Path returns the location of the backing file, if any.
func (c *Config) Path() string {
	return c.path
}

// IsEmpty returns true if the config is nil or holds no content.
func (c *Config) IsEmpty() bool {
	if c == nil || c.vars == nil {
		return true
	}

	return c.raw.Len() == 0
}

// Len returns the number of key/value pairs, counting every value of a
// multi-valued key.
func (c *Config) Len() int {
	return len(c.order)
}

// Each calls fn for every key/value pair in file order. Repeated keys are
// reported once per occurrence.
func (c *Config) Each(fn func(key, value string)) {
	for _, e := range c.order {
		fn(e.key, e.value)
	}
}

// Keys returns the sorted, de-duplicated list of keys.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.vars))
	for k := range c.vars {
		keys = append(keys, k)
	}

	return set.Sorted(keys)
}

// Get returns the last value of the key, i.e. the one git would use.
//
// The key is case-insensitive for sections and key names but case-sensitive
// for subsection names (per git-config specification).
func (c *Config) Get(key string) (string, bool) {
	vs, found := c.vars[canonicalizeKey(key)]
	if !found || len(vs) < 1 {
		return "", false
	}

	return vs[len(vs)-1], true
}

// GetAll returns all values of the key in file order.
func (c *Config) GetAll(key string) ([]string, bool) {
	vs, found := c.vars[canonicalizeKey(key)]
	if !found {
		return nil, false
	}

	return vs, true
}

// IsSet returns true if the key is present, even with an empty value.
func (c *Config) IsSet(key string) bool {
	_, present := c.vars[canonicalizeKey(key)]

	return present
}

// Set updates or adds a key in the config and persists the change.
//
// Behavior:
// - If the key exists, its last occurrence is updated (last write wins)
// - If the key doesn't exist, it's added to an existing section or a new section
// - Original formatting of all other lines is preserved
//
// Errors:
// - ErrInvalidKey if the key lacks a section or key name
// - ErrWriteConfig (or ErrCreateConfigDir) if persisting fails; the in-memory
// value is updated anyway
func (c *Config) Set(key, value string) error {
	section, _, subkey := splitKey(key)
	if section == "" || subkey == "" || !reValidSection.MatchString(section) || !reValidKey.MatchString(strings.ToLower(subkey)) {
		return fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	key = canonicalizeKey(key)

	if c.vars == nil {
		c.vars = make(map[string][]string, 16)
	}

	vs, present := c.vars[key]
	// already effective with the same value, no need to rewrite the config
	if present && len(vs) > 0 && vs[len(vs)-1] == value {
		debug.V(1).Log("key %q with value %q already present. Not re-writing.", key, value)

		return nil
	}

	debug.V(3).Log("set %q to %q", key, value)

	if !present {
		debug.V(3).Log("inserting value")

		return c.insertValue(key, value)
	}

	debug.V(3).Log("updating value")

	target := len(vs)
	var seen int

	return c.rewriteRaw(key, value, func(_, sKey, value, comment, line string) (string, bool) {
		seen++
		if seen != target {
			return line, false
		}

		return formatKeyValue(sKey, value, comment), false
	})
}

// Unset deletes every occurrence of a key from the config.
// Removing a key that is not present is a no-op. Sections are left in place,
// even if they become empty.
func (c *Config) Unset(key string) error {
	key = canonicalizeKey(key)
	if key == "" {
		return ErrInvalidKey
	}

	if _, present := c.vars[key]; !present {
		return nil
	}

	return c.rewriteRaw(key, "", func(_, _, _, _, _ string) (string, bool) {
		return "", true
	})
}

func (c *Config) insertValue(key, value string) error {
	debug.V(3).Log("input (%s: %s): \n--------------\n%s\n--------------\n", key, value, strings.Join(strings.Split("- "+c.raw.String(), "\n"), "\n- "))

	wSection, wSubsection, wKey := splitKey(key)

	raw := c.raw.String()
	at := -1
	lines, err := parseConfig(raw, "", "", func(_, _, _, _, line string) (string, bool) {
		return line, false
	}, func(idx int, section, subsection string) {
		if at < 0 && section == wSection && subsection == wSubsection {
			at = idx
		}
	})
	if err != nil {
		return err
	}

	if at >= 0 {
		lines = slices.Insert(lines, at+1, formatKeyValue(wKey, value, ""))
	} else {
		// not added to an existing section, so add it at the end
		sect := fmt.Sprintf("[%s]", wSection)
		if wSubsection != "" {
			sect = fmt.Sprintf("[%s \"%s\"]", wSection, escapeSubsection(wSubsection))
		}
		lines = append(lines, sect, formatKeyValue(wKey, value, ""))
	}

	c.setRaw(lines, lineEnding(raw))

	debug.V(3).Log("output: \n--------------\n%s\n--------------\n", strings.Join(strings.Split("+ "+c.raw.String(), "\n"), "\n+ "))

	return c.commit()
}

func formatKeyValue(key, value, comment string) string {
	if value == "" {
		return fmt.Sprintf(keyValueTpl, key, `""`, comment)
	}

	return fmt.Sprintf(keyValueTpl, key, escapeValue(value), comment)
}

// parseSectionHeader parses a line like `[section "subsection"] # comment`.
// The section name is returned in lower case. rest holds anything after
// the closing bracket.
func parseSectionHeader(line string) (section, subsection, rest string, err error) { //nolint:nonamedreturns
	line = strings.TrimPrefix(line, "[")

	var inQuotes, escaped bool
	end := -1
	for i, r := range line {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && inQuotes:
			escaped = true
		case r == '"':
			inQuotes = !inQuotes
		case r == ']' && !inQuotes:
			end = i
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return "", "", "", fmt.Errorf("%w: unterminated section header %q", ErrParse, "["+line)
	}

	rest = strings.TrimSpace(line[end+1:])
	line = strings.TrimSpace(line[:end])

	wsp := strings.IndexAny(line, " \t")
	if wsp < 0 {
		section = line
	} else {
		section = line[:wsp]
		subsection = strings.TrimSpace(line[wsp+1:])
		if len(subsection) < 2 || !strings.HasPrefix(subsection, `"`) || !strings.HasSuffix(subsection, `"`) {
			return "", "", "", fmt.Errorf("%w: invalid subsection in header %q", ErrParse, line)
		}
		subsection = unescapeSubsection(subsection[1 : len(subsection)-1])
	}

	if !reValidSection.MatchString(section) {
		return "", "", "", fmt.Errorf("%w: invalid section name %q", ErrParse, section)
	}

	return strings.ToLower(section), subsection, rest, nil
}

// rewriteRaw is used to rewrite the raw config copy. It is used for set and unset operations
// with different callbacks each.
func (c *Config) rewriteRaw(key, value string, cb parseFunc) error {
	debug.V(3).Log("input (%s: %s): \n--------------\n%s\n--------------\n", key, value, strings.Join(strings.Split("- "+c.raw.String(), "\n"), "\n- "))

	raw := c.raw.String()
	lines, err := parseConfig(raw, key, value, cb, nil)
	if err != nil {
		return err
	}

	c.setRaw(lines, lineEnding(raw))

	debug.V(3).Log("output: \n--------------\n%s\n--------------\n", strings.Join(strings.Split("+ "+c.raw.String(), "\n"), "\n+ "))

	return c.commit()
}

// setRaw replaces the raw content with lines, each terminated by eol.
func (c *Config) setRaw(lines []string, eol string) {
	c.raw = strings.Builder{}
	c.raw.WriteString(strings.Join(lines, eol))
	c.raw.WriteString(eol)
}

// lineEnding returns the line terminator used by raw. Files with CRLF line
// endings keep them when lines are rewritten or inserted.
func lineEnding(raw string) string {
	if strings.Contains(raw, "\r\n") {
		return "\r\n"
	}

	return "\n"
}

// commit re-indexes the raw content and writes it to disk.
func (c *Config) commit() error {
	if err := c.index(); err != nil {
		return err
	}

	return c.flushRaw()
}

// index rebuilds vars and order from the raw content.
func (c *Config) index() error {
	vars := make(map[string][]string, len(c.vars)+1)
	order := make([]kv, 0, len(c.order)+1)

	if _, err := parseConfig(c.raw.String(), "", "", func(fk, _, v, _, line string) (string, bool) {
		vars[fk] = append(vars[fk], v)
		order = append(order, kv{key: fk, value: v})

		return line, false
	}, nil); err != nil {
		return err
	}

	c.vars = vars
	c.order = order

	return nil
}

func (c *Config) flushRaw() error {
	if c.noWrites || c.path == "" {
		debug.V(3).Log("not writing changes to disk (noWrites %t, path %q)", c.noWrites, c.path)

		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("%w %q for %q: %w", ErrCreateConfigDir, filepath.Dir(c.path), c.path, err)
	}

	debug.V(3).Log("writing config to %s: \n--------------\n%s\n--------------", c.path, c.raw.String())

	if err := os.WriteFile(c.path, []byte(c.raw.String()), 0o644); err != nil {
		return fmt.Errorf("%w to %s: %w", ErrWriteConfig, c.path, err)
	}

	debug.V(1).Log("wrote config to %s", c.path)

	return nil
}

// maxLineLength bounds a single line of a config file.
const maxLineLength = 1024 * 1024

type parseFunc func(fqkn, skn, value, comment, fullLine string) (newLine string, skipLine bool)

// headerFunc is called for every section header with the index of its line.
type headerFunc func(idx int, section, subsection string)

// parseConfig implements a simple parser for the gitconfig subset we support.
// The idea is to save all lines unaltered so we can reproduce the config
// exactly. Then we skip comments and extract section and subsection
// headers. The next steps depend on the mode. Either we want to extract the
// values when loading (key empty, parseFunc collects the key-value pairs),
// update a key (key is the canonical target key, value the new value)
// or delete a key (parseFunc returns skip).
//
// A variable whose value ends in a backslash continues on the next line.
// fullLine then holds all physical lines of the variable and the returned
// line replaces all of them. A variable may also follow its section header
// on the same line, the header is kept when that variable is changed.
//
// Malformed content (unterminated headers, variables outside of a section,
// invalid variable names, unbalanced quotes, invalid escapes) is reported as
// ErrParse.
func parseConfig(raw, key, value string, cb parseFunc, onHeader headerFunc) ([]string, error) {
	s := bufio.NewScanner(strings.NewReader(raw))
	s.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	eol := lineEnding(raw)

	lines := make([]string, 0, 128)
	var section string
	var subsection string
	var lineNo int
	for s.Scan() {
		fullLine := s.Text()
		lineNo++

		start := len(lines)
		lines = append(lines, fullLine)

		line := strings.TrimSpace(fullLine)
		if line == "" || isComment(line) {
			continue
		}

		// header in front of a variable on the same line
		var prefix string

		// Handle section headers
		if strings.HasPrefix(line, "[") {
			sec, subs, rest, err := parseSectionHeader(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			section = sec
			subsection = subs
			if onHeader != nil {
				onHeader(start, sec, subs)
			}
			if rest == "" || isComment(rest) {
				continue
			}
			prefix = strings.TrimRight(fullLine[:strings.LastIndex(fullLine, rest)], " \t")
			line = rest
		}

		if section == "" {
			return nil, fmt.Errorf("line %d: %w: variable outside of a section: %q", lineNo, ErrParse, line)
		}

		// Reference: https://git-scm.com/docs/git-config#_syntax.
		// A variable without "=" is a bare boolean, possibly followed by a comment.
		k, rValue := line, ""
		found := false
		if idx := strings.IndexAny(line, "=#;"); idx >= 0 {
			k = line[:idx]
			if line[idx] == '=' {
				rValue = line[idx+1:]
				found = true
			}
		}
		// "Whitespace characters surrounding name, = and value are discarded."
		k = strings.TrimSpace(k)

		// keep a copy of the original key for serialization.
		ok := k
		// "The variable names are case-insensitive"
		k = strings.ToLower(k)

		if !reValidKey.MatchString(k) {
			return nil, fmt.Errorf("line %d: %w: invalid variable name %q", lineNo, ErrParse, ok)
		}

		fKey := section + "."
		if subsection != "" {
			fKey += subsection + "."
		}
		fKey += k

		oValue := "true"
		var comment string
		if found {
			first := lineNo
			for {
				v, c, complete, err := parseValue(rValue)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w in value of %q", first, err, fKey)
				}
				if complete {
					oValue, comment = v, c

					break
				}
				if !s.Scan() {
					return nil, fmt.Errorf("line %d: %w: continuation at end of file in value of %q", lineNo, ErrParse, fKey)
				}
				next := s.Text()
				lineNo++
				lines = append(lines, next)
				rValue += "\n" + next
				fullLine += eol + next
			}
		}

		if key != "" && key != fKey {
			continue
		}

		if key != "" {
			oValue = value
		}

		newLine, skip := cb(fKey, ok, oValue, comment, fullLine)
		switch {
		case skip && prefix != "":
			lines = append(lines[:start], prefix)
		case skip:
			lines = lines[:start]
		case newLine == fullLine:
			// unchanged, keep the physical lines as they are
		case prefix != "":
			lines = append(lines[:start], prefix+" "+strings.TrimSpace(newLine))
		default:
			lines = append(lines[:start], newLine)
		}
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	return lines, nil
}

func isComment(s string) bool {
	return strings.HasPrefix(s, "#") || strings.HasPrefix(s, ";")
}

// parseValue decodes the raw value of a variable the way git does.
// Unquoted whitespace runs are kept, leading and trailing ones are dropped.
// Double quotes are removed, escape sequences (\n, \t, \b, \" and \\) are
// resolved and an unquoted # or ; starts a comment. The comment is returned
// with its delimiter and a leading space so it can be written back.
//
// A raw value ending in a backslash is incomplete, the caller has to append
// a newline and the next line. Escaped newlines are dropped.
func parseValue(raw string) (value, comment string, complete bool, err error) { //nolint:nonamedreturns
	var sb strings.Builder
	var quoted bool
	var spaces int

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case !quoted && (c == ' ' || c == '\t'):
			if sb.Len() > 0 {
				spaces++
			}

			continue
		case !quoted && (c == '#' || c == ';'):
			return sb.String(), " " + strings.TrimSpace(raw[i:]), true, nil
		}

		for ; spaces > 0; spaces-- {
			sb.WriteByte(' ')
		}

		switch c {
		case '\\':
			if i+1 == len(raw) {
				return "", "", false, nil
			}
			i++
			switch raw[i] {
			case '\n':
				// escaped newline, the value continues on the next line
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'b':
				sb.WriteByte('\b')
			case '"', '\\':
				sb.WriteByte(raw[i])
			default:
				return "", "", true, fmt.Errorf("%w: invalid escape sequence \\%c", ErrParse, raw[i])
			}
		case '"':
			quoted = !quoted
		default:
			sb.WriteByte(c)
		}
	}

	if quoted {
		return "", "", true, fmt.Errorf("%w: unbalanced quotes", ErrParse)
	}

	return sb.String(), "", true, nil
}

func escapeValue(value string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\t", `\t`,
		"\b", `\b`,
	)
	out := r.Replace(value)

	if strings.TrimSpace(value) != value || strings.ContainsAny(value, "#;") {
		return `"` + out + `"`
	}

	return out
}

func unescapeSubsection(s string) string {
	// "Doublequote " and backslash can be included by escaping them as \" and \\,
	// respectively. Backslashes preceding other characters are dropped."
	var sb strings.Builder
	var escaped bool
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true

			continue
		}
		escaped = false
		sb.WriteRune(r)
	}

	return sb.String()
}

func escapeSubsection(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// LoadConfig loads the gitconfig at the given path. The file must exist.
func LoadConfig(fn string) (*Config, error) {
	fh, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer fh.Close() //nolint:errcheck

	c, err := ParseConfig(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	c.path = fn

	return c, nil
}

// ParseConfig parses a gitconfig from the given io.Reader. The result is not
// bound to any file, use LoadConfig for that.
func ParseConfig(r io.Reader) (*Config, error) {
	c := &Config{}

	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	c.raw.Write(buf)
	if err := c.index(); err != nil {
		return nil, err
	}

	debug.V(3).Log("processed config: %s\nvars: %+v", c.raw.String(), c.vars)

	return c, nil
}

// NewFromMap creates an in-memory config from a map. Keys are inserted in
// sorted order. The result is not bound to a file.
func NewFromMap(data map[string]string) (*Config, error) {
	c := &Config{
		noWrites: true,
		vars:     make(map[string][]string, len(data)),
	}

	for _, k := range set.SortedKeys(data) {
		if err := c.Set(k, data[k]); err != nil {
			return nil, err
		}
	}

	return c, nil
}

