package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"github.com/bors-ltd/getconf/errext"
	"github.com/bors-ltd/getconf/errext/exitcodes"
)

// Dump formats.
const (
	dumpINI  = "ini"
	dumpYAML = "yaml"
	dumpJSON = "json"
)

type cmdDump struct {
	gs     *globalState
	format string
}

func (c *cmdDump) run(_ *cobra.Command, _ []string) error {
	g, err := c.gs.newGetter()
	if err != nil {
		return err
	}

	sections := g.Sections()
	values := make(map[string]map[string]string, len(sections))
	for _, section := range sections {
		if values[section], err = g.Entries(section); err != nil {
			return errext.WithExitCodeIfNone(err, exitcodes.InvalidConfig)
		}
	}

	var out []byte
	switch c.format {
	case dumpINI:
		out, err = marshalINI(sections, values)
	case dumpYAML:
		out, err = yaml.Marshal(values)
	case dumpJSON:
		out, err = json.MarshalIndent(values, "", "  ")
		out = append(out, '\n')
	default:
		return errext.WithExitCodeIfNone(fmt.Errorf("unsupported dump format '%s'", c.format), exitcodes.InvalidUsage)
	}
	if err != nil {
		return fmt.Errorf("couldn't marshal the configuration as %s: %w", c.format, err)
	}

	_, err = c.gs.stdOut.Write(out)
	return err
}

// marshalINI writes the sections in file order. Values are already
// interpolated, so "%" is escaped for the output to read back the same.
func marshalINI(sections []string, values map[string]map[string]string) ([]byte, error) {
	f := ini.Empty()
	for _, name := range sections {
		section, err := f.NewSection(name)
		if err != nil {
			return nil, err
		}
		entries := values[name]
		for _, entry := range sortedNames(entries) {
			if _, err := section.NewKey(entry, strings.ReplaceAll(entries[entry], "%", "%%")); err != nil {
				return nil, err
			}
		}
	}

	var sb strings.Builder
	if _, err := f.WriteTo(&sb); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func getCmdDump(gs *globalState) *cobra.Command {
	c := &cmdDump{gs: gs}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the merged configuration files",
		Long: `Print the values of every section of the configuration files, merged in reading
order and interpolated. Environment variables and defaults are not included.`,
		Args: exactArgs(0),
		RunE: c.run,
	}
	cmd.Flags().StringVar(&c.format, "format", dumpINI, "output format: ini, yaml or json")
	return cmd
}
