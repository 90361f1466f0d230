package cmd

import (
	"github.com/spf13/cobra"
)

type cmdFiles struct {
	gs *globalState
}

func (c *cmdFiles) run(_ *cobra.Command, _ []string) error {
	g, err := c.gs.newGetter()
	if err != nil {
		return err
	}

	th := newTheme(!c.gs.flags.NoColor && c.gs.stdoutTTY)
	fprintf(c.gs.stdOut, "%s\n", th.muted.Sprint("search:"))
	for _, pattern := range g.SearchFiles() {
		fprintf(c.gs.stdOut, "  %s\n", pattern)
	}
	fprintf(c.gs.stdOut, "%s\n", th.muted.Sprint("loaded:"))
	for _, file := range g.FoundFiles() {
		fprintf(c.gs.stdOut, "  %s\n", th.key.Sprint(file))
	}
	return nil
}

func getCmdFiles(gs *globalState) *cobra.Command {
	c := &cmdFiles{gs: gs}

	return &cobra.Command{
		Use:   "files",
		Short: "List the searched patterns and the configuration files read",
		Long: `List the configuration file patterns that are searched, after "~" expansion,
and the files that were actually read, in reading order. Later files take precedence.`,
		Args: exactArgs(0),
		RunE: c.run,
	}
}
