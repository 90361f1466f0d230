package getconf

import (
	"sort"
	"strings"

	"github.com/bors-ltd/getconf/lib/parser"
)

// DefaultSection is the section of keys that have no dot in them.
const DefaultSection = parser.DefaultSection

// Key describes a configuration key that was requested from a Getter.
type Key struct {
	// Section is the file section, DefaultSection for top-level keys.
	Section string
	Entry   string
	// EnvVar is the environment variable overriding the key.
	EnvVar string
	Doc    string
}

// Name returns the key in the dotted form accepted by the getters.
func (k Key) Name() string {
	if k.Section == DefaultSection {
		return k.Entry
	}
	return k.Section + "." + k.Entry
}

func (k Key) less(o Key) bool {
	if k.Section != o.Section {
		return k.Section < o.Section
	}
	if k.Entry != o.Entry {
		return k.Entry < o.Entry
	}
	if k.EnvVar != o.EnvVar {
		return k.EnvVar < o.EnvVar
	}
	return k.Doc < o.Doc
}

func sortKeys(keys []Key) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
}

// splitKey separates "section.entry" on its first dot. A key without a dot
// has an empty section.
func splitKey(name string) (section, entry string) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// EnvKey returns the environment variable name for an entry of a section in
// the given namespace, e.g. ("blusers", "psql", "server") is
// BLUSERS_PSQL_SERVER. Dots become underscores. An empty section is left out
// but the namespace never is, so an empty namespace gives _PSQL_SERVER.
func EnvKey(namespace, section, entry string) string {
	parts := []string{namespace, entry}
	if section != "" {
		parts = []string{namespace, section, entry}
	}
	for i, part := range parts {
		parts[i] = strings.ToUpper(strings.ReplaceAll(part, ".", "_"))
	}
	return strings.Join(parts, "_")
}
