package cmd

import (
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"

	"github.com/bors-ltd/getconf"
	"github.com/bors-ltd/getconf/log"
)

type cmdEnv struct {
	gs     *globalState
	export bool
}

func (c *cmdEnv) run(_ *cobra.Command, args []string) error {
	// No files: the names only depend on the namespace.
	g, err := getconf.New(c.gs.flags.Namespace,
		getconf.WithFs(c.gs.fs),
		getconf.WithEnv(map[string]string{}),
		getconf.WithWorkDir("/"),
		getconf.WithLogger(log.NewNullLogger()))
	if err != nil {
		return err
	}

	c.gs.logger.Debugf("Environment variables of namespace %q", g.Namespace())
	for _, name := range args {
		envVar := g.Key(name).EnvVar
		if c.export {
			fprintf(c.gs.stdOut, "export %s=%s\n", envVar, shellquote.Join(c.gs.env[envVar]))
			continue
		}
		fprintf(c.gs.stdOut, "%s\n", envVar)
	}
	return nil
}

func getCmdEnv(gs *globalState) *cobra.Command {
	c := &cmdEnv{gs: gs}

	cmd := &cobra.Command{
		Use:   "env KEY...",
		Short: "Print the environment variables overriding configuration keys",
		Example: `
  # prints BLUSERS_PSQL_SERVER
  getconf -n blusers env psql.server`[1:],
		Args: minimumArgs(1),
		RunE: c.run,
	}
	cmd.Flags().BoolVar(&c.export, "export", false, "print export statements with the current values")
	return cmd
}
