package getconf

import "time"

// Section reads the entries of one section of a Getter.
type Section struct {
	getter *Getter
	name   string
}

// Section returns a view on the given section: s.Int("port", ...) is
// g.Int(name+".port", ...).
func (g *Getter) Section(name string) Section {
	return Section{getter: g, name: name}
}

// Name returns the section name.
func (s Section) Name() string {
	return s.name
}

func (s Section) key(entry string) string {
	return s.name + "." + entry
}

// Get returns the entry as a string, "" when it isn't set.
func (s Section) Get(entry string) (string, error) {
	return s.getter.String(s.key(entry), "", "")
}

// String is Getter.String for an entry of the section.
func (s Section) String(entry, def, doc string) (string, error) {
	return s.getter.String(s.key(entry), def, doc)
}

// List is Getter.List for an entry of the section.
func (s Section) List(entry string, def []string, doc string) ([]string, error) {
	return s.getter.List(s.key(entry), def, doc)
}

// Bool is Getter.Bool for an entry of the section.
func (s Section) Bool(entry string, def bool, doc string) (bool, error) {
	return s.getter.Bool(s.key(entry), def, doc)
}

// Int is Getter.Int for an entry of the section.
func (s Section) Int(entry string, def int, doc string) (int, error) {
	return s.getter.Int(s.key(entry), def, doc)
}

// Float is Getter.Float for an entry of the section.
func (s Section) Float(entry string, def float64, doc string) (float64, error) {
	return s.getter.Float(s.key(entry), def, doc)
}

// Duration is Getter.Duration for an entry of the section.
func (s Section) Duration(entry string, def time.Duration, doc string) (time.Duration, error) {
	return s.getter.Duration(s.key(entry), def, doc)
}
