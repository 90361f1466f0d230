package getconf

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/bors-ltd/getconf/errext"
	"github.com/bors-ltd/getconf/errext/exitcodes"
	"github.com/bors-ltd/getconf/lib/fsext"
	"github.com/bors-ltd/getconf/lib/types"
)

type testConfig struct {
	env      map[string]string
	files    map[string]string
	paths    []string
	defaults Defaults
}

func newTestGetter(t *testing.T, tc testConfig, opts ...Option) *Getter {
	t.Helper()
	fs := fsext.NewMemMapFs()
	for name, content := range tc.files {
		require.NoError(t, fsext.WriteFile(fs, name, []byte(content), 0o644))
	}
	env := tc.env
	if env == nil {
		env = map[string]string{}
	}
	if _, ok := env["HOME"]; !ok {
		env["HOME"] = "/home/test"
	}
	logger, _ := logtest.NewNullLogger()
	opts = append([]Option{
		WithFs(fs),
		WithEnv(env),
		WithWorkDir("/srv/app"),
		WithFiles(tc.paths...),
		WithDefaults(tc.defaults),
		WithLogger(logger),
	}, opts...)
	g, err := New("blusers", opts...)
	require.NoError(t, err)
	return g
}

const settingsINI = `
[DEFAULT]
secret_key = from_file
debug = off

[psql]
server = db.example.com:5432
port = 5432
hosts = a.example.com, b.example.com,,
timeout = 1m30s
ratio = 0.75

[empty]
`

func TestNoSettings(t *testing.T) {
	t.Parallel()
	g := newTestGetter(t, testConfig{})

	s, err := g.String("foo", "", "")
	require.NoError(t, err)
	assert.Equal(t, "", s)

	s, err = g.String("psql.server", "localhost", "")
	require.NoError(t, err)
	assert.Equal(t, "localhost", s)

	i, err := g.Int("psql.port", 5432, "")
	require.NoError(t, err)
	assert.Equal(t, 5432, i)

	l, err := g.List("hosts", nil, "")
	require.NoError(t, err)
	assert.Nil(t, l)

	l, err = g.List("hosts", []string{}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{}, l)

	assert.Empty(t, g.FoundFiles())
	assert.Empty(t, g.SearchFiles())
	assert.Empty(t, g.Sections())
}

func TestLayers(t *testing.T) {
	t.Parallel()

	tc := testConfig{
		files: map[string]string{"/etc/blusers/settings.ini": settingsINI},
		paths: []string{"/etc/blusers/settings.ini"},
		defaults: Defaults{
			DefaultSection: {"secret_key": "from_defaults", "workers": 4},
			"psql":         {"server": "localhost", "user": "app"},
		},
		env: map[string]string{
			"BLUSERS_SECRET_KEY": "from_env",
		},
	}
	g := newTestGetter(t, tc)

	testCases := []struct {
		key      string
		expected string
		source   Source
	}{
		{"secret_key", "from_env", SourceEnv},
		{"debug", "off", SourceFile},
		{"workers", "4", SourceDefaults},
		{"psql.server", "db.example.com:5432", SourceFile},
		{"psql.user", "app", SourceDefaults},
		{"psql.secret_key", "from_file", SourceFile},
		{"empty.secret_key", "from_file", SourceFile},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.key, func(t *testing.T) {
			t.Parallel()
			v, src, err := g.Lookup(tc.key)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
			assert.Equal(t, tc.source, src)
		})
	}

	t.Run("missing section doesn't fall back to DEFAULT", func(t *testing.T) {
		t.Parallel()
		_, src, err := g.Lookup("nope.secret_key")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Equal(t, SourceNone, src)

		var nferr *NotFoundError
		require.True(t, errors.As(err, &nferr))
		assert.Equal(t, "BLUSERS_NOPE_SECRET_KEY", nferr.Key.EnvVar)

		var ecerr errext.HasExitCode
		require.True(t, errors.As(err, &ecerr))
		assert.Equal(t, exitcodes.KeyNotFound, ecerr.ExitCode())
	})

	t.Run("entries are case insensitive in files", func(t *testing.T) {
		t.Parallel()
		v, err := g.String("psql.SERVER", "", "")
		require.NoError(t, err)
		assert.Equal(t, "db.example.com:5432", v)
	})
}

func TestEnvKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "BLUSERS_PSQL_SERVER", EnvKey("blusers", "psql", "server"))
	assert.Equal(t, "BLUSERS_SECRET_KEY", EnvKey("blusers", "", "secret_key"))
	assert.Equal(t, "BLUSERS_PSQL_POOL_SIZE", EnvKey("blusers", "psql", "pool.size"))
	assert.Equal(t, "_PSQL_SERVER", EnvKey("", "psql", "server"))
	assert.Equal(t, "_DEBUG", EnvKey("", "", "debug"))
	assert.Equal(t, "_CONFIG", EnvKey("", "", "config"))

	g := newTestGetter(t, testConfig{})
	assert.Equal(t, "blusers", g.Namespace())
	assert.Equal(t, Key{Section: "psql", Entry: "server", EnvVar: "BLUSERS_PSQL_SERVER"}, g.Key("psql.server"))
	assert.Equal(t, Key{Section: DefaultSection, Entry: "debug", EnvVar: "BLUSERS_DEBUG"}, g.Key("debug"))
	assert.Equal(t, "psql.server", g.Key("psql.server").Name())
	assert.Equal(t, "debug", g.Key("debug").Name())
}

func TestFilePrecedence(t *testing.T) {
	t.Parallel()

	tc := testConfig{
		files: map[string]string{
			"/etc/blusers/settings.ini":        "[psql]\nserver = base\nuser = app\n",
			"/etc/blusers/conf.d/10_base.ini":  "[psql]\nserver = conf.d-10\npassword = secret\n",
			"/etc/blusers/conf.d/99_local.ini": "[psql]\nserver = conf.d-99\n",
			"/etc/blusers/conf.d/nested/x.ini": "[psql]\nserver = nested\n",
			"/etc/blusers/conf.d/50_port.toml": "[psql]\nport = 6543\n",
			"/home/test/.blusers.yaml":         "psql:\n  user: home\n",
			"/srv/app/local.json":              `{"psql": {"password": "local"}}`,
			"/tmp/extra.ini":                   "[psql]\nserver = extra\n",
		},
		paths: []string{
			"/etc/blusers/settings.ini",
			"/etc/blusers/conf.d",
			"~/.blusers.yaml",
			"local.json",
			"/etc/blusers/missing.ini",
		},
		env: map[string]string{"BLUSERS_CONFIG": "/tmp/extra.ini"},
	}
	g := newTestGetter(t, tc)

	assert.Equal(t, []string{
		"/etc/blusers/settings.ini",
		"/etc/blusers/conf.d/10_base.ini",
		"/etc/blusers/conf.d/50_port.toml",
		"/etc/blusers/conf.d/99_local.ini",
		"/home/test/.blusers.yaml",
		"/srv/app/local.json",
		"/tmp/extra.ini",
	}, g.FoundFiles())
	assert.Equal(t, []string{
		"/etc/blusers/settings.ini",
		"/etc/blusers/conf.d/*",
		"/home/test/.blusers.yaml",
		"/srv/app/local.json",
		"/etc/blusers/missing.ini",
		"/tmp/extra.ini",
	}, g.SearchFiles())

	expected := map[string]string{
		"psql.server":   "extra",
		"psql.user":     "home",
		"psql.password": "local",
		"psql.port":     "6543",
	}
	for key, value := range expected {
		v, err := g.String(key, "", "")
		require.NoError(t, err)
		assert.Equal(t, value, v, key)
	}

	entries, err := g.Entries("psql")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"server":   "extra",
		"user":     "home",
		"password": "local",
		"port":     "6543",
	}, entries)
	assert.Equal(t, []string{"psql"}, g.Sections())
}

func TestEmptyConfigEnvIsIgnored(t *testing.T) {
	t.Parallel()

	g := newTestGetter(t, testConfig{
		files: map[string]string{"/srv/app/stray.ini": "[psql]\nserver = stray\n"},
		env:   map[string]string{"BLUSERS_CONFIG": ""},
	})
	assert.Empty(t, g.FoundFiles())
}

func TestEmptyNamespace(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	require.NoError(t, fsext.WriteFile(fs, "/etc/extra.ini", []byte("[psql]\nserver = extra\n"), 0o644))
	logger, _ := logtest.NewNullLogger()
	g, err := New("",
		WithFs(fs),
		WithEnv(map[string]string{
			"_CONFIG":   "/etc/extra.ini",
			"_S_X":      "prefixed",
			"S_X":       "bare",
			"_DEBUG":    "on",
			"HOME":      "/home/test",
			"PSQL_USER": "bare",
		}),
		WithWorkDir("/srv/app"),
		WithLogger(logger),
	)
	require.NoError(t, err)

	assert.Empty(t, g.Namespace())
	assert.Equal(t, []string{"/etc/extra.ini"}, g.SearchFiles())
	assert.Equal(t, []string{"/etc/extra.ini"}, g.FoundFiles())

	tests := []struct {
		key      string
		expected string
	}{
		{key: "s.x", expected: "prefixed"},
		{key: "debug", expected: "on"},
		{key: "psql.server", expected: "extra"},
		{key: "psql.user", expected: "fallback"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.key, func(t *testing.T) {
			t.Parallel()
			v, err := g.String(tc.key, "fallback", "")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestParseError(t *testing.T) {
	t.Parallel()

	fs := fsext.NewMemMapFs()
	require.NoError(t, fsext.WriteFile(fs, "/etc/blusers/settings.ini", []byte("[psql\nserver = x\n"), 0o644))

	logger, _ := logtest.NewNullLogger()
	_, err := New("blusers",
		WithFs(fs),
		WithEnv(map[string]string{}),
		WithWorkDir("/"),
		WithLogger(logger),
		WithFiles("/etc/blusers/settings.ini"),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/etc/blusers/settings.ini")

	var herr errext.HasHint
	require.True(t, errors.As(err, &herr))
	assert.Contains(t, herr.Hint(), "/etc/blusers/settings.ini")

	var ecerr errext.HasExitCode
	require.True(t, errors.As(err, &ecerr))
	assert.Equal(t, exitcodes.InvalidConfig, ecerr.ExitCode())
}

func TestInterpolationError(t *testing.T) {
	t.Parallel()

	g := newTestGetter(t, testConfig{
		files: map[string]string{"/etc/blusers/settings.ini": "[psql]\nurl = %(missing)s/db\nok = 100%%\n"},
		paths: []string{"/etc/blusers/settings.ini"},
	})

	_, err := g.String("psql.url", "", "")
	require.Error(t, err)

	v, err := g.String("psql.ok", "", "")
	require.NoError(t, err)
	assert.Equal(t, "100%", v)

	_, err = g.Entries("psql")
	require.Error(t, err)
}

func TestTypedGetters(t *testing.T) {
	t.Parallel()

	g := newTestGetter(t, testConfig{
		files: map[string]string{"/etc/blusers/settings.ini": settingsINI},
		paths: []string{"/etc/blusers/settings.ini"},
		env: map[string]string{
			"BLUSERS_DEBUG":   "YES",
			"BLUSERS_BAD_INT": "12abc",
			"BLUSERS_SPACED":  " 42 ",
			"BLUSERS_PIPES":   "a| b |",
			"BLUSERS_PADDED":  " Yes\t",
			"BLUSERS_INNER":   "y es",
		},
		defaults: Defaults{
			DefaultSection: {
				"int_default":   7,
				"float_default": 2,
				"bool_default":  true,
				"list_default":  []string{"x", "y"},
				"dur_default":   45,
				"bad_list":      42,
			},
		},
	})

	t.Run("Bool", func(t *testing.T) {
		t.Parallel()
		assert.True(t, Must(g.Bool("debug", false, "")))
		assert.True(t, Must(g.Bool("bool_default", false, "")))
		assert.False(t, Must(g.Bool("psql.server", true, "")))
		assert.True(t, Must(g.Bool("unset", true, "")))
		assert.True(t, Must(g.Bool("padded", false, "")))
		assert.False(t, Must(g.Bool("inner", true, "")))
	})

	t.Run("Int", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 5432, Must(g.Int("psql.port", 0, "")))
		assert.Equal(t, 42, Must(g.Int("spaced", 0, "")))
		assert.Equal(t, 7, Must(g.Int("int_default", 0, "")))
		assert.Equal(t, 3, Must(g.Int("unset", 3, "")))

		_, err := g.Int("bad_int", 0, "")
		require.Error(t, err)
		var cerr *ConversionError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, "BLUSERS_BAD_INT", cerr.Key.EnvVar)
		assert.Equal(t, SourceEnv, cerr.Source)
		assert.Equal(t, "int", cerr.Type)

		var ecerr errext.HasExitCode
		require.True(t, errors.As(err, &ecerr))
		assert.Equal(t, exitcodes.ConversionFailed, ecerr.ExitCode())
	})

	t.Run("Float", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 0.75, Must(g.Float("psql.ratio", 0, "")))
		assert.Equal(t, 2.0, Must(g.Float("float_default", 0, "")))
		_, err := g.Float("psql.server", 0, "")
		require.Error(t, err)
	})

	t.Run("List", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"a.example.com", "b.example.com"}, Must(g.List("psql.hosts", nil, "")))
		assert.Equal(t, []string{"x", "y"}, Must(g.List("list_default", nil, "")))
		assert.Equal(t, []string{"a", "b"}, Must(g.ListSep("pipes", nil, "", "|")))

		def := []string{"z"}
		res := Must(g.List("unset", def, ""))
		res[0] = "changed"
		assert.Equal(t, []string{"z"}, def)

		_, err := g.List("bad_list", nil, "")
		require.Error(t, err)
	})

	t.Run("Duration", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, 90*time.Second, Must(g.Duration("psql.timeout", 0, "")))
		assert.Equal(t, 45*time.Second, Must(g.Duration("dur_default", 0, "")))
		assert.Equal(t, time.Minute, Must(g.Duration("unset", time.Minute, "")))
		_, err := g.Duration("psql.server", 0, "")
		require.Error(t, err)
	})

	t.Run("String", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "7", Must(g.String("int_default", "", "")))
		assert.Equal(t, "x,y", Must(g.String("list_default", "", "")))
	})
}

func TestNullGetters(t *testing.T) {
	t.Parallel()

	g := newTestGetter(t, testConfig{
		files: map[string]string{"/etc/blusers/settings.ini": settingsINI},
		paths: []string{"/etc/blusers/settings.ini"},
	})

	assert.Equal(t, null.StringFrom("db.example.com:5432"), Must(g.NullString("psql.server", "")))
	assert.Equal(t, null.String{}, Must(g.NullString("psql.unset", "")))
	assert.Equal(t, null.IntFrom(5432), Must(g.NullInt("psql.port", "")))
	assert.Equal(t, null.Int{}, Must(g.NullInt("psql.unset", "")))
	assert.Equal(t, null.BoolFrom(false), Must(g.NullBool("debug", "")))
	assert.Equal(t, null.Bool{}, Must(g.NullBool("unset", "")))
	assert.Equal(t, null.FloatFrom(0.75), Must(g.NullFloat("psql.ratio", "")))
	assert.Equal(t, types.NullDurationFrom(90*time.Second), Must(g.NullDuration("psql.timeout", "")))
	assert.False(t, Must(g.NullDuration("psql.unset", "")).Valid)

	v, err := g.NullInt("psql.server", "")
	require.Error(t, err)
	assert.False(t, v.Valid)
}

func TestMustPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { Must(0, errors.New("boom")) })
	assert.NotPanics(t, func() { Must(1, nil) })
}

func TestListKeys(t *testing.T) {
	t.Parallel()

	g := newTestGetter(t, testConfig{})
	_, _ = g.String("psql.server", "", "database address")
	_, _ = g.String("psql.server", "localhost", "database address")
	_, _ = g.Int("psql.port", 5432, "")
	_, _ = g.Bool("debug", false, "enable debug mode")
	_, _, _ = g.Lookup("psql.user")
	_, _ = g.Section("cache").Get("ttl")

	assert.Equal(t, []Key{
		{Section: DefaultSection, Entry: "debug", EnvVar: "BLUSERS_DEBUG", Doc: "enable debug mode"},
		{Section: "cache", Entry: "ttl", EnvVar: "BLUSERS_CACHE_TTL"},
		{Section: "psql", Entry: "port", EnvVar: "BLUSERS_PSQL_PORT"},
		{Section: "psql", Entry: "server", EnvVar: "BLUSERS_PSQL_SERVER", Doc: "database address"},
		{Section: "psql", Entry: "user", EnvVar: "BLUSERS_PSQL_USER"},
	}, g.ListKeys())
}

func TestSection(t *testing.T) {
	t.Parallel()

	g := newTestGetter(t, testConfig{
		files: map[string]string{"/etc/blusers/settings.ini": settingsINI},
		paths: []string{"/etc/blusers/settings.ini"},
		env:   map[string]string{"BLUSERS_PSQL_PORT": "6543"},
	})
	psql := g.Section("psql")

	assert.Equal(t, "psql", psql.Name())
	assert.Equal(t, "db.example.com:5432", Must(psql.Get("server")))
	assert.Equal(t, "", Must(psql.Get("unset")))
	assert.Equal(t, "from_file", Must(psql.String("secret_key", "", "")))
	assert.Equal(t, 6543, Must(psql.Int("port", 0, "")))
	assert.Equal(t, []string{"a.example.com", "b.example.com"}, Must(psql.List("hosts", nil, "")))
	assert.False(t, Must(psql.Bool("debug", true, "")))
	assert.Equal(t, 0.75, Must(psql.Float("ratio", 0, "")))
	assert.Equal(t, 90*time.Second, Must(psql.Duration("timeout", 0, "")))
}

func TestDeprecatedGet(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	g := newTestGetter(t, testConfig{
		files: map[string]string{"/etc/blusers/settings.ini": settingsINI},
		paths: []string{"/etc/blusers/settings.ini"},
	}, WithLogger(logger))

	assert.Equal(t, "db.example.com:5432", Must(g.Get("psql.server", "", "")))
	assert.Equal(t, "fallback", Must(g.Get("psql.unset", "fallback", "")))

	var warnings int
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
			assert.Contains(t, entry.Message, "deprecated")
		}
	}
	assert.Equal(t, 1, warnings)
}

func TestLoadLogged(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	newTestGetter(t, testConfig{
		files: map[string]string{"/etc/blusers/settings.ini": settingsINI},
		paths: []string{"/etc/blusers/settings.ini"},
	}, WithLogger(logger))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "Successfully loaded configuration", entry.Message)
	assert.Equal(t, []string{"/etc/blusers/settings.ini"}, entry.Data["files"])
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	g := newTestGetter(t, testConfig{
		files: map[string]string{"/etc/blusers/settings.ini": settingsINI},
		paths: []string{"/etc/blusers/settings.ini"},
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = g.String(fmt.Sprintf("section%d.entry%d", i%4, j%5), "", "")
				_, _ = g.Int("psql.port", 0, "")
				_ = g.ListKeys()
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, g.ListKeys(), 4*5+1)
}
