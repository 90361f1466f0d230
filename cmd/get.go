package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bors-ltd/getconf"
	"github.com/bors-ltd/getconf/errext"
	"github.com/bors-ltd/getconf/errext/exitcodes"
)

// Value types accepted by --type.
const (
	typeString   = "string"
	typeList     = "list"
	typeBool     = "bool"
	typeInt      = "int"
	typeFloat    = "float"
	typeDuration = "duration"
)

type cmdGet struct {
	gs *globalState

	def     string
	valType string
	null    bool
	sep     string
}

func (c *cmdGet) run(cmd *cobra.Command, args []string) error {
	if err := c.validate(cmd); err != nil {
		return err
	}

	key := args[0]
	var opts []getconf.Option
	if cmd.Flags().Changed("default") {
		opts = append(opts, getconf.WithDefaults(defaultsFor(key, c.def)))
	}
	g, err := c.gs.newGetter(opts...)
	if err != nil {
		return err
	}

	value, found, err := c.get(g, key)
	if err != nil {
		return err
	}
	if !found {
		return errext.WithExitCodeIfNone(&getconf.NotFoundError{Key: g.Key(key)}, exitcodes.KeyNotFound)
	}
	fprintf(c.gs.stdOut, "%s\n", value)
	return nil
}

func (c *cmdGet) validate(cmd *cobra.Command) error {
	switch c.valType {
	case typeString, typeList, typeBool, typeInt, typeFloat, typeDuration:
	default:
		return errext.WithExitCodeIfNone(fmt.Errorf("unsupported value type '%s'", c.valType), exitcodes.InvalidUsage)
	}
	if c.null && cmd.Flags().Changed("default") {
		return errext.WithExitCodeIfNone(
			fmt.Errorf("--null and --default can't be used together"), exitcodes.InvalidUsage)
	}
	return nil
}

// get returns the formatted value of key. found is false only with --null,
// when no layer provides the key.
func (c *cmdGet) get(g *getconf.Getter, key string) (string, bool, error) {
	switch c.valType {
	case typeList:
		var def []string
		if !c.null {
			def = []string{}
		}
		l, err := g.ListSep(key, def, "", c.sep)
		return strings.Join(l, "\n"), l != nil, err
	case typeBool:
		v, err := g.NullBool(key, "")
		return strconv.FormatBool(v.Bool), v.Valid || !c.null, err
	case typeInt:
		v, err := g.NullInt(key, "")
		return strconv.FormatInt(v.Int64, 10), v.Valid || !c.null, err
	case typeFloat:
		v, err := g.NullFloat(key, "")
		return strconv.FormatFloat(v.Float64, 'g', -1, 64), v.Valid || !c.null, err
	case typeDuration:
		v, err := g.NullDuration(key, "")
		return v.Duration.String(), v.Valid || !c.null, err
	default:
		v, err := g.NullString(key, "")
		return v.String, v.Valid || !c.null, err
	}
}

// defaultsFor returns the defaults layer holding def for key.
func defaultsFor(key, def string) getconf.Defaults {
	section, entry := getconf.DefaultSection, key
	if i := strings.IndexByte(key, '.'); i >= 0 {
		section, entry = key[:i], key[i+1:]
	}
	return getconf.Defaults{section: {entry: def}}
}

func getCmdGet(gs *globalState) *cobra.Command {
	c := &cmdGet{gs: gs}

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Print the value of a configuration key",
		Long: `Print the value of a configuration key, "section.entry" or "entry" for the
DEFAULT section. Values are converted to --type; lists are printed one item per line.`,
		Example: `
  # the [psql] server entry, or BLUSERS_PSQL_SERVER
  getconf -n blusers -f /etc/blusers/settings.ini get psql.server

  # fail with exit code 3 when nothing sets the key
  getconf -n blusers get --null --type int psql.port`[1:],
		Args: exactArgs(1),
		RunE: c.run,
	}

	flags := cmd.Flags()
	flags.StringVarP(&c.def, "default", "d", "", "value used when no layer provides the key")
	flags.StringVarP(&c.valType, "type", "t", typeString, "value type: string, list, bool, int, float or duration")
	flags.BoolVar(&c.null, "null", false, "exit with an error when no layer provides the key")
	flags.StringVar(&c.sep, "sep", ",", "list separator")

	return cmd
}

// exactArgs is cobra.ExactArgs with the usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return errext.WithExitCodeIfNone(cobra.ExactArgs(n)(cmd, args), exitcodes.InvalidUsage)
	}
}

// minimumArgs is cobra.MinimumNArgs with the usage exit code.
func minimumArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return errext.WithExitCodeIfNone(cobra.MinimumNArgs(n)(cmd, args), exitcodes.InvalidUsage)
	}
}
