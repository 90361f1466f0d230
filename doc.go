// Package getconf reads configuration values from, in decreasing priority,
// environment variables, configuration files and a defaults mapping.
//
// A Getter is built once per application namespace:
//
//	config, err := getconf.New("blusers",
//		getconf.WithFiles("/etc/blusers/settings.ini", "/etc/blusers/conf.d"),
//		getconf.WithDefaults(getconf.Defaults{"psql": {"server": "localhost:5432"}}),
//	)
//	server, err := config.String("psql.server", "", "database address")
//
// The lookup of "psql.server" tries, in order:
//   - the environment variable BLUSERS_PSQL_SERVER;
//   - entry "server" of section [psql] in the file named by BLUSERS_CONFIG,
//     then in the configured files, the last file read winning;
//   - Defaults["psql"]["server"];
//   - the default passed to the getter.
//
// A key without a dot, such as "secret_key", lives in the DEFAULT section:
// BLUSERS_SECRET_KEY, then [DEFAULT] secret_key, then
// Defaults["DEFAULT"]["secret_key"].
//
// Every key requested through a Getter is remembered, so ListKeys can
// document the configuration an application actually reads.
package getconf
