// Package cmd implements the getconf command line tool.
package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bors-ltd/getconf/errext"
	"github.com/bors-ltd/getconf/errext/exitcodes"
	"github.com/bors-ltd/getconf/lib/consts"
	"github.com/bors-ltd/getconf/log"
)

const waitLoggerCloseTimeout = time.Second * 5

// This is to keep all fields needed for the main/root getconf command
type rootCommand struct {
	globalState *globalState

	cmd            *cobra.Command
	loggerStopped  <-chan struct{}
	loggerIsRemote bool
}

func newRootCommand(gs *globalState) *rootCommand {
	c := &rootCommand{globalState: gs}
	// the base command when called without any subcommands.
	rootCmd := &cobra.Command{
		Use:   "getconf",
		Short: "read layered configuration values",
		Long: `Read configuration values the way applications using the getconf library do:
from NAMESPACE_SECTION_ENTRY environment variables, then from the configuration
files, then from defaults.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.persistentPreRunE,
		Version:           consts.FullVersion(),
	}

	rootCmd.PersistentFlags().AddFlagSet(rootCmdPersistentFlagSet(gs))
	rootCmd.SetArgs(gs.args[1:])
	rootCmd.SetOut(gs.stdOut)
	rootCmd.SetErr(gs.stdErr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidUsage)
	})

	subCommands := []func(*globalState) *cobra.Command{
		getCmdGet, getCmdLookup, getCmdEnv, getCmdFiles, getCmdDump, getCmdVersion,
	}
	for _, sc := range subCommands {
		rootCmd.AddCommand(sc(gs))
	}

	c.cmd = rootCmd
	return c
}

func (c *rootCommand) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	gs := c.globalState

	cwd, err := gs.getwd()
	if err != nil {
		return err
	}
	envFlags, err := consolidateFlags(gs.defaultFlags, gs.fs, gs.env, cwd)
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
	}
	applyEnvFlags(cmd.Flags(), &gs.flags, envFlags)

	c.loggerStopped, err = c.setupLoggers(cwd)
	if err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.InvalidUsage)
	}
	select {
	case <-c.loggerStopped:
	default:
		c.loggerIsRemote = true
	}

	if gs.flags.NoColor {
		gs.stdOut.Writer = colorable.NewNonColorable(gs.stdOut.Writer)
		gs.stdErr.Writer = colorable.NewNonColorable(gs.stdErr.Writer)
	}
	gs.logger.Debugf("getconf version: %s", consts.FullVersion())
	return nil
}

// applyEnvFlags copies the values consolidated from the environment into
// the flags that weren't set on the command line.
func applyEnvFlags(flags *pflag.FlagSet, dst *globalFlags, env globalFlags) {
	if !flags.Changed("namespace") {
		dst.Namespace = env.Namespace
	}
	if !flags.Changed("file") {
		dst.Files = env.Files
	}
	if !flags.Changed("log-output") {
		dst.LogOutput = env.LogOutput
	}
	if !flags.Changed("log-format") {
		dst.LogFormat = env.LogFormat
	}
	dst.Verbose = dst.Verbose || env.Verbose
	dst.NoColor = dst.NoColor || env.NoColor
}

// Execute adds all child commands to the root command sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	executeWithGlobalState(newGlobalState(ctx))
}

func executeWithGlobalState(gs *globalState) {
	ctx, cancel := context.WithCancel(gs.ctx)
	defer cancel()
	gs.ctx = ctx

	c := newRootCommand(gs)
	err := c.cmd.Execute()
	if err == nil {
		cancel()
		c.waitRemoteLogger()
		return
	}

	exitCode := -1
	if code, ok := errext.ExitCodeOf(err); ok {
		exitCode = int(code)
	} else if isUsageError(err) {
		exitCode = int(exitcodes.InvalidUsage)
	}

	errText, fields := errext.Format(err)
	gs.logger.WithFields(fields).Error(errText)
	if c.loggerIsRemote {
		gs.fallbackLogger.WithFields(fields).Error(errText)
		cancel()
		c.waitRemoteLogger()
	}

	gs.osExit(exitCode)
}

// isUsageError tells apart the errors cobra returns for bad invocations.
func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{"unknown command", "accepts ", "requires at least", "invalid argument"} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

func (c *rootCommand) waitRemoteLogger() {
	if c.loggerIsRemote {
		select {
		case <-c.loggerStopped:
		case <-time.After(waitLoggerCloseTimeout):
			c.globalState.fallbackLogger.Errorf("The log file wasn't closed in %s", waitLoggerCloseTimeout)
		}
	}
}

func rootCmdPersistentFlagSet(gs *globalState) *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)

	flags.StringVarP(&gs.flags.Namespace, "namespace", "n", gs.flags.Namespace,
		"prefix of the environment variables, and of the NAMESPACE_CONFIG variable naming an extra file")
	flags.StringArrayVarP(&gs.flags.Files, "file", "f", gs.flags.Files,
		"configuration file, directory or glob pattern; can be repeated, later ones take precedence")
	flags.BoolVarP(&gs.flags.Verbose, "verbose", "v", gs.flags.Verbose, "enable debug logging")
	flags.BoolVar(&gs.flags.NoColor, "no-color", gs.flags.NoColor, "disable colored output")
	flags.StringVar(&gs.flags.LogOutput, "log-output", gs.flags.LogOutput,
		"change the output for getconf logs, possible values are stderr,stdout,none,file=./path.log[,level=info]")
	flags.StringVar(&gs.flags.LogFormat, "log-format", gs.flags.LogFormat, "log output format: text, json or raw")

	return flags
}

// The returned channel will be closed when the logger has finished flushing
// after the context is done. It is already closed if the logger doesn't
// buffer anything.
func (c *rootCommand) setupLoggers(cwd string) (<-chan struct{}, error) {
	gs := c.globalState
	return log.Setup(gs.ctx, gs.logger, gs.fallbackLogger, gs.fs,
		func() (string, error) { return cwd, nil },
		log.Config{
			Output:      gs.flags.LogOutput,
			Format:      gs.flags.LogFormat,
			Verbose:     gs.flags.Verbose,
			NoColor:     gs.flags.NoColor,
			ForceColors: gs.stderrTTY,
		},
		gs.stdOut, gs.stdErr,
	)
}

// fprintf panics when where's an error writing to the supplied io.Writer
func fprintf(w io.Writer, format string, a ...interface{}) (n int) {
	n, err := fmt.Fprintf(w, format, a...)
	if err != nil {
		panic(err.Error())
	}
	return n
}
