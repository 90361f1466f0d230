package cmd

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"

	"github.com/bors-ltd/getconf"
	"github.com/bors-ltd/getconf/lib/fsext"
	"github.com/bors-ltd/getconf/log"
)

// globalFlags contains the options that apply to every sub-command. The
// envconfig tags name the GETCONF_* variables they are read from.
type globalFlags struct {
	Namespace string   `envconfig:"namespace"`
	Files     []string `envconfig:"files"`
	Verbose   bool     `envconfig:"verbose"`
	NoColor   bool     `envconfig:"no_color"`
	LogOutput string   `envconfig:"log_output"`
	LogFormat string   `envconfig:"log_format"`
}

func getDefaultFlags() globalFlags {
	return globalFlags{
		LogOutput: "stderr",
		LogFormat: log.FormatText,
	}
}

// consolidateFlags overrides defaults with the GETCONF_* environment
// variables and the file named in GETCONF_CONFIG, read with getconf itself.
func consolidateFlags(defaults globalFlags, fs fsext.Fs, env map[string]string, cwd string) (globalFlags, error) {
	result := defaults

	g, err := getconf.New("getconf",
		getconf.WithFs(fs), getconf.WithEnv(env), getconf.WithWorkDir(cwd),
		getconf.WithLogger(log.NewNullLogger()))
	if err != nil {
		return result, err
	}
	if err := g.Bind(&result); err != nil {
		return result, err
	}

	// Support https://no-color.org/, even an empty value disables colors.
	if _, ok := env["NO_COLOR"]; ok {
		result.NoColor = true
	}
	return result, nil
}

// globalState holds everything the commands touch outside of their
// arguments, so tests can swap it.
type globalState struct {
	ctx  context.Context
	args []string

	fs    fsext.Fs
	getwd func() (string, error)
	env   map[string]string

	defaultFlags, flags globalFlags

	outMutex       *sync.Mutex
	stdoutTTY      bool
	stderrTTY      bool
	stdOut, stdErr *consoleWriter

	osExit         func(int)
	logger         *logrus.Logger
	fallbackLogger logrus.FieldLogger
}

func newGlobalState(ctx context.Context) *globalState {
	isTTY := func(f *os.File) bool {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	stdoutTTY, stderrTTY := isTTY(os.Stdout), isTTY(os.Stderr)

	outMutex := &sync.Mutex{}
	stdOut := &consoleWriter{colorable.NewColorableStdout(), stdoutTTY, outMutex}
	stdErr := &consoleWriter{colorable.NewColorableStderr(), stderrTTY, outMutex}

	logger := &logrus.Logger{
		Out:       stdErr,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}

	defaultFlags := getDefaultFlags()

	return &globalState{
		ctx:          ctx,
		args:         append([]string(nil), os.Args...),
		fs:           fsext.NewOsFs(),
		getwd:        os.Getwd,
		env:          buildEnvMap(os.Environ()),
		defaultFlags: defaultFlags,
		flags:        defaultFlags,
		outMutex:     outMutex,
		stdoutTTY:    stdoutTTY,
		stderrTTY:    stderrTTY,
		stdOut:       stdOut,
		stdErr:       stdErr,
		osExit:       os.Exit,
		logger:       logger,
		fallbackLogger: &logrus.Logger{
			Out:       stdErr,
			Formatter: new(logrus.TextFormatter),
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.InfoLevel,
		},
	}
}

func buildEnvMap(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v := parseEnvKeyValue(kv)
		env[k] = v
	}
	return env
}

func parseEnvKeyValue(kv string) (string, string) {
	if idx := strings.IndexRune(kv, '='); idx != -1 {
		return kv[:idx], kv[idx+1:]
	}
	return kv, ""
}

// newGetter builds the Getter the sub-commands read from.
func (gs *globalState) newGetter(opts ...getconf.Option) (*getconf.Getter, error) {
	cwd, err := gs.getwd()
	if err != nil {
		return nil, err
	}
	return getconf.New(gs.flags.Namespace, append([]getconf.Option{
		getconf.WithFiles(gs.flags.Files...),
		getconf.WithFs(gs.fs),
		getconf.WithEnv(gs.env),
		getconf.WithWorkDir(cwd),
		getconf.WithLogger(gs.logger),
	}, opts...)...)
}
