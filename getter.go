package getconf

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/bors-ltd/getconf/errext"
	"github.com/bors-ltd/getconf/errext/exitcodes"
	"github.com/bors-ltd/getconf/lib/fsext"
	"github.com/bors-ltd/getconf/lib/parser"
)

// Defaults maps a section to its entries. Top-level keys are looked up in
// the DefaultSection entry.
type Defaults map[string]map[string]interface{}

// Source tells which layer provided a value.
type Source int

// The layers, from highest to lowest priority.
const (
	SourceNone Source = iota
	SourceEnv
	SourceFile
	SourceDefaults
)

func (s Source) String() string {
	switch s {
	case SourceEnv:
		return "env"
	case SourceFile:
		return "file"
	case SourceDefaults:
		return "defaults"
	default:
		return "none"
	}
}

// Getter resolves configuration keys for one namespace. It is safe for
// concurrent use.
type Getter struct {
	namespace string
	files     []string
	defaults  Defaults
	fs        fsext.Fs
	lookupEnv func(string) (string, bool)
	workDir   string
	logger    logrus.FieldLogger

	searchFiles []string
	foundFiles  []string
	doc         *parser.Document

	mu         sync.Mutex
	seen       map[Key]struct{}
	deprecated sync.Once
}

// Option configures a Getter.
type Option func(*Getter)

// WithFiles adds configuration files, directories or glob patterns to the
// search list. Later entries take precedence over earlier ones.
func WithFiles(paths ...string) Option {
	return func(g *Getter) {
		g.files = append(g.files, paths...)
	}
}

// WithDefaults sets the lowest priority layer.
func WithDefaults(defaults Defaults) Option {
	return func(g *Getter) {
		g.defaults = defaults
	}
}

// WithFs reads configuration files from fs instead of the OS file system.
func WithFs(fs fsext.Fs) Option {
	return func(g *Getter) {
		g.fs = fs
	}
}

// WithLookupEnv replaces os.LookupEnv.
func WithLookupEnv(lookupEnv func(string) (string, bool)) Option {
	return func(g *Getter) {
		g.lookupEnv = lookupEnv
	}
}

// WithEnv reads the environment from a map instead of the process.
func WithEnv(env map[string]string) Option {
	return WithLookupEnv(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
}

// WithWorkDir sets the directory relative paths are resolved against.
func WithWorkDir(dir string) Option {
	return func(g *Getter) {
		g.workDir = dir
	}
}

// WithLogger sets the logger. By default nothing is logged unless the
// LOG_TO_STDERR environment variable is "1".
func WithLogger(logger logrus.FieldLogger) Option {
	return func(g *Getter) {
		g.logger = logger
	}
}

// New builds a Getter for namespace and reads its configuration files.
//
// The search list is the files given with WithFiles followed by the file
// named in the <NAMESPACE>_CONFIG environment variable. Each entry may be a
// file, a directory (all its files are read) or a glob pattern; "~" is
// expanded. Matches of one entry are read in lexical order and every file
// overrides the values of the ones read before it. Missing and unreadable
// files are skipped; a file that can't be parsed is an error.
func New(namespace string, opts ...Option) (*Getter, error) {
	g := &Getter{
		namespace: namespace,
		fs:        fsext.NewOsFs(),
		lookupEnv: os.LookupEnv,
		seen:      make(map[Key]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger = g.defaultLogger()
	}
	if g.defaults == nil {
		g.defaults = Defaults{}
	}
	g.fs = fsext.NewReadOnlyFs(g.fs)

	paths := append([]string(nil), g.files...)
	if extra, ok := g.lookupEnv(EnvKey(namespace, "", "config")); ok && extra != "" {
		paths = append(paths, extra)
	}

	cwd := g.workDir
	if cwd == "" {
		var err error
		if cwd, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("couldn't get the working directory: %w", err)
		}
	}

	g.searchFiles = fsext.SearchPatterns(g.fs, paths, g.homeDir(), cwd)
	files, err := fsext.ResolveFiles(g.fs, g.searchFiles)
	if err != nil {
		return nil, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}

	docs := make([]*parser.Document, 0, len(files))
	for _, file := range files {
		data, err := fsext.ReadFile(g.fs, file)
		if err != nil {
			g.logger.WithError(err).WithField("file", file).Debug("Skipping unreadable configuration file")
			continue
		}
		doc, err := parser.Decode(file, data)
		if err != nil {
			err = errext.WithHint(err, fmt.Sprintf("fix the syntax of %s or remove it from the search path", file))
			return nil, errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
		}
		docs = append(docs, doc)
		g.foundFiles = append(g.foundFiles, file)
	}
	g.doc = parser.Merge(docs...)

	g.logger.WithFields(logrus.Fields{
		"files":  g.foundFiles,
		"search": g.searchFiles,
	}).Info("Successfully loaded configuration")

	return g, nil
}

func (g *Getter) defaultLogger() logrus.FieldLogger {
	logger := logrus.New()
	if v, _ := g.lookupEnv("LOG_TO_STDERR"); v == "1" {
		logger.SetOutput(os.Stderr)
	} else {
		logger.SetOutput(io.Discard)
	}
	return logger
}

func (g *Getter) homeDir() string {
	if home, ok := g.lookupEnv("HOME"); ok && home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		g.logger.WithError(err).Debug("Couldn't find the home directory, '~' won't be expanded")
		return ""
	}
	return home
}

// Namespace returns the prefix of the environment variables.
func (g *Getter) Namespace() string {
	return g.namespace
}

// SearchFiles returns the absolute patterns that were searched.
func (g *Getter) SearchFiles() []string {
	return append([]string(nil), g.searchFiles...)
}

// FoundFiles returns the files that were read, in reading order.
func (g *Getter) FoundFiles() []string {
	return append([]string(nil), g.foundFiles...)
}

// Sections returns the sections declared in the configuration files.
func (g *Getter) Sections() []string {
	return g.doc.Sections()
}

// Entries returns the values declared in section of the configuration
// files, after interpolation. Environment variables and defaults are not
// taken into account.
func (g *Getter) Entries(section string) (map[string]string, error) {
	names := g.doc.EntryNames(section)
	res := make(map[string]string, len(names))
	for _, name := range names {
		v, _, err := g.doc.Value(section, name)
		if err != nil {
			return nil, err
		}
		res[name] = v
	}
	return res, nil
}

// ListKeys returns every key requested so far, sorted.
func (g *Getter) ListKeys() []Key {
	g.mu.Lock()
	keys := make([]Key, 0, len(g.seen))
	for k := range g.seen {
		keys = append(keys, k)
	}
	g.mu.Unlock()

	sortKeys(keys)
	return keys
}

// Key describes how name is resolved without looking it up.
func (g *Getter) Key(name string) Key {
	section, entry := splitKey(name)
	k := Key{
		Section: DefaultSection,
		Entry:   entry,
		EnvVar:  EnvKey(g.namespace, section, entry),
	}
	if section != "" {
		k.Section = section
	}
	return k
}

// resolve walks the layers for name and records the key as seen. A nil
// value with SourceNone means that no layer has it.
func (g *Getter) resolve(name, doc string) (Key, interface{}, Source, error) {
	k := g.Key(name)
	k.Doc = doc

	g.mu.Lock()
	g.seen[k] = struct{}{}
	g.mu.Unlock()

	if v, ok := g.lookupEnv(k.EnvVar); ok {
		return k, v, SourceEnv, nil
	}

	v, ok, err := g.doc.Value(k.Section, k.Entry)
	if err != nil {
		return k, nil, SourceFile, errext.WithExitCodeIfNone(
			fmt.Errorf("couldn't read %q: %w", name, err), exitcodes.InvalidConfig)
	}
	if ok {
		return k, v, SourceFile, nil
	}

	if entries, ok := g.defaults[k.Section]; ok {
		if v, ok := entries[k.Entry]; ok {
			return k, v, SourceDefaults, nil
		}
	}
	return k, nil, SourceNone, nil
}

// Lookup returns the value of name as a string along with the layer that
// provided it. It returns an error wrapping ErrNotFound when no layer does.
func (g *Getter) Lookup(name string) (string, Source, error) {
	k, v, src, err := g.resolve(name, "")
	if err != nil {
		return "", src, err
	}
	if src == SourceNone {
		return "", SourceNone, errext.WithExitCodeIfNone(&NotFoundError{Key: k}, exitcodes.KeyNotFound)
	}
	s, _ := toString(v)
	return s, src, nil
}
