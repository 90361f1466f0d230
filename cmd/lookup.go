package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bors-ltd/getconf"
	"github.com/bors-ltd/getconf/errext"
	"github.com/bors-ltd/getconf/errext/exitcodes"
)

type cmdLookup struct {
	gs *globalState
}

func (c *cmdLookup) run(_ *cobra.Command, args []string) error {
	g, err := c.gs.newGetter()
	if err != nil {
		return err
	}

	th := newTheme(!c.gs.flags.NoColor && c.gs.stdoutTTY)
	missing := 0
	for _, name := range args {
		k := g.Key(name)
		value, src, err := g.Lookup(name)
		if errors.Is(err, getconf.ErrNotFound) {
			missing++
			value = th.muted.Sprint("-")
		} else if err != nil {
			return err
		}
		fprintf(c.gs.stdOut, "%s = %s %s\n",
			th.key.Sprint(k.Name()), value, th.muted.Sprintf("(%s, %s)", th.source.Sprint(src), k.EnvVar))
	}

	if missing > 0 {
		return errext.WithExitCodeIfNone(
			fmt.Errorf("%d of %d keys not found", missing, len(args)), exitcodes.KeyNotFound)
	}
	return nil
}

func getCmdLookup(gs *globalState) *cobra.Command {
	c := &cmdLookup{gs: gs}

	return &cobra.Command{
		Use:   "lookup KEY...",
		Short: "Show where configuration keys get their values from",
		Long: `Show the value of each key along with the layer providing it (env, file or
defaults) and the environment variable overriding it.`,
		Example: `
  getconf -n blusers -f /etc/blusers/ lookup psql.server debug`[1:],
		Args: minimumArgs(1),
		RunE: c.run,
	}
}
