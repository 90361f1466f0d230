package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// iniOptions make go-ini read files the way Python's configparser does.
var iniOptions = ini.LoadOptions{ //nolint:gochecknoglobals
	InsensitiveKeys:            true,
	IgnoreInlineComment:        true,
	IgnoreContinuation:         true,
	AllowPythonMultilineValues: true,
	PreserveSurroundedQuote:    true,
	KeyValueDelimiters:         "=:",
}

func decodeINI(data []byte) (*Document, error) {
	raw, err := scanINI(data)
	if err != nil {
		return nil, err
	}
	f, err := ini.LoadSources(iniOptions, data)
	if err != nil {
		return nil, err
	}
	doc := NewDocument()
	for _, sec := range f.Sections() {
		name := sec.Name()
		doc.AddSection(name)
		for _, key := range sec.Keys() {
			doc.Set(name, key.Name(), Entry{Value: multiline(key.Value()), Interpolate: true})
		}
	}
	// go-ini unquotes `...` and """...""" values and may read past the
	// closing line while doing so; those come from the scanner instead.
	for _, e := range raw {
		if _, ok := doc.sections[e.section][e.name]; ok && !isQuoted(e.value) {
			continue
		}
		doc.Set(e.section, e.name, Entry{Value: e.value, Interpolate: true})
	}
	return doc, nil
}

type rawEntry struct {
	section, name, value string
}

// scanINI reads the entries of data line by line, rejecting sections and
// options defined twice. [DEFAULT] may be repeated.
func scanINI(data []byte) ([]rawEntry, error) {
	var (
		entries []rawEntry
		lineNo  int
	)
	section, current := DefaultSection, -1
	sections := map[string]bool{}
	seen := map[string]map[string]bool{DefaultSection: {}}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(nil, len(data)+1)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			current = -1
		case trimmed[0] == '#' || trimmed[0] == ';':
		case line[0] == ' ' || line[0] == '\t':
			if current >= 0 {
				entries[current].value += "\n" + trimmed
			}
		case trimmed[0] == '[':
			end := strings.LastIndexByte(trimmed, ']')
			if end < 1 {
				current = -1
				continue
			}
			section = strings.TrimSpace(trimmed[1:end])
			if section != DefaultSection && sections[section] {
				return nil, fmt.Errorf("line %d: duplicate section %q", lineNo, section)
			}
			sections[section] = true
			if seen[section] == nil {
				seen[section] = map[string]bool{}
			}
			current = -1
		default:
			i := strings.IndexAny(trimmed, "=:")
			if i < 0 {
				current = -1
				continue
			}
			name := strings.ToLower(strings.TrimSpace(trimmed[:i]))
			if seen[section][name] {
				return nil, fmt.Errorf("line %d: duplicate option %q in section %q", lineNo, name, section)
			}
			seen[section][name] = true
			entries = append(entries, rawEntry{section: section, name: name, value: strings.TrimSpace(trimmed[i+1:])})
			current = len(entries) - 1
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func isQuoted(value string) bool {
	return strings.HasPrefix(value, "`") || strings.HasPrefix(value, `"""`)
}

// multiline strips the indentation of continuation lines.
func multiline(value string) string {
	if !strings.Contains(value, "\n") {
		return value
	}
	lines := strings.Split(value, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}
