// Package parser decodes configuration files into a Document: an ordered set
// of sections, each mapping entry names to raw string values.
package parser

import (
	"sort"
	"strings"
)

// DefaultSection holds top-level entries. Its entries are visible from
// every other section.
const DefaultSection = "DEFAULT"

// Entry is a raw value together with whether it is subject to %(name)s
// interpolation. Only values read from INI files are.
type Entry struct {
	Value       string
	Interpolate bool
}

// Document is the decoded content of one or more configuration files.
// Entry names are lower-cased; section names are kept as written.
type Document struct {
	order    []string
	sections map[string]map[string]Entry
}

// NewDocument returns an empty Document.
func NewDocument() *Document {
	return &Document{sections: make(map[string]map[string]Entry)}
}

// AddSection creates the section if it doesn't exist yet.
func (d *Document) AddSection(section string) {
	if _, ok := d.sections[section]; ok {
		return
	}
	d.sections[section] = make(map[string]Entry)
	d.order = append(d.order, section)
}

// Set stores an entry, creating its section when needed.
func (d *Document) Set(section, name string, entry Entry) {
	d.AddSection(section)
	d.sections[section][strings.ToLower(name)] = entry
}

// HasSection reports whether the section was declared. The default section
// always exists.
func (d *Document) HasSection(section string) bool {
	if section == DefaultSection {
		return true
	}
	_, ok := d.sections[section]
	return ok
}

// Sections returns the declared section names in the order they were first
// seen. The default section is listed first, and only when it has entries.
func (d *Document) Sections() []string {
	res := make([]string, 0, len(d.order))
	if len(d.sections[DefaultSection]) > 0 {
		res = append(res, DefaultSection)
	}
	for _, name := range d.order {
		if name != DefaultSection {
			res = append(res, name)
		}
	}
	return res
}

// Entries returns a copy of the raw values declared directly in section.
func (d *Document) Entries(section string) map[string]string {
	res := make(map[string]string, len(d.sections[section]))
	for name, entry := range d.sections[section] {
		res[name] = entry.Value
	}
	return res
}

// EntryNames returns the sorted names declared directly in section.
func (d *Document) EntryNames(section string) []string {
	names := make([]string, 0, len(d.sections[section]))
	for name := range d.sections[section] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry returns the entry for name in section, falling back to the default
// section. A section that was never declared has no entries at all.
func (d *Document) Entry(section, name string) (Entry, bool) {
	if !d.HasSection(section) {
		return Entry{}, false
	}
	name = strings.ToLower(name)
	if entry, ok := d.sections[section][name]; ok {
		return entry, true
	}
	entry, ok := d.sections[DefaultSection][name]
	return entry, ok
}

// Merge overlays other on top of d, entry by entry.
func (d *Document) Merge(other *Document) {
	if other == nil {
		return
	}
	for _, section := range other.order {
		d.AddSection(section)
		for name, entry := range other.sections[section] {
			d.sections[section][name] = entry
		}
	}
}

// Merge folds docs into a new Document; later documents take precedence.
func Merge(docs ...*Document) *Document {
	res := NewDocument()
	for _, doc := range docs {
		res.Merge(doc)
	}
	return res
}
