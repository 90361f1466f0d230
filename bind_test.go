package getconf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v3"

	"github.com/bors-ltd/getconf/lib/types"
)

const bindINI = `
[DEFAULT]
secret_key = s3cr3t
debug = true

[psql]
server = db.example.com:5432
port = 5432
hosts = a.example.com,b.example.com
timeout = 1m30s
broken = %(nope)s
`

type bindSettings struct {
	Server  string             `envconfig:"psql.server"`
	Port    int                `envconfig:"psql.port"`
	Hosts   []string           `envconfig:"psql.hosts"`
	Timeout time.Duration      `envconfig:"psql.timeout"`
	Idle    types.NullDuration `envconfig:"psql.idle"`
	User    string             `envconfig:"psql.user" default:"app"`
	Secret  null.String        `envconfig:"secret_key"`
	Missing null.Int           `envconfig:"psql.missing"`
	Debug   bool
}

func TestBind(t *testing.T) {
	t.Parallel()

	g := newTestGetter(t, testConfig{
		files: map[string]string{"/etc/blusers/settings.ini": bindINI},
		paths: []string{"/etc/blusers/settings.ini"},
		env: map[string]string{
			"BLUSERS_PSQL_PORT": "6543",
			"BLUSERS_PSQL_IDLE": "2d",
		},
	})

	var s bindSettings
	require.NoError(t, g.Bind(&s))

	assert.Equal(t, bindSettings{
		Server:  "db.example.com:5432",
		Port:    6543,
		Hosts:   []string{"a.example.com", "b.example.com"},
		Timeout: 90 * time.Second,
		Idle:    types.NullDurationFrom(48 * time.Hour),
		User:    "app",
		Secret:  null.StringFrom("s3cr3t"),
		Debug:   true,
	}, s)

	keys := g.ListKeys()
	assert.Contains(t, keys, Key{Section: "psql", Entry: "server", EnvVar: "BLUSERS_PSQL_SERVER"})
	assert.Contains(t, keys, Key{Section: DefaultSection, Entry: "debug", EnvVar: "BLUSERS_DEBUG"})
}

func TestBindErrors(t *testing.T) {
	t.Parallel()

	g := newTestGetter(t, testConfig{
		files: map[string]string{"/etc/blusers/settings.ini": bindINI},
		paths: []string{"/etc/blusers/settings.ini"},
	})

	t.Run("required", func(t *testing.T) {
		t.Parallel()
		var s struct {
			Password string `envconfig:"psql.password" required:"true"`
		}
		require.Error(t, g.Bind(&s))
	})

	t.Run("conversion", func(t *testing.T) {
		t.Parallel()
		var s struct {
			Port int `envconfig:"psql.server"`
		}
		require.Error(t, g.Bind(&s))
	})

	t.Run("interpolation", func(t *testing.T) {
		t.Parallel()
		var s struct {
			Broken string `envconfig:"psql.broken"`
		}
		require.Error(t, g.Bind(&s))
	})

	t.Run("not a pointer", func(t *testing.T) {
		t.Parallel()
		require.Error(t, g.Bind(bindSettings{}))
	})
}
