package getconf

import (
	"strings"

	"github.com/mstoykov/envconfig"
)

// Bind fills the fields of the struct pointed to by spec. Each field is
// looked up like any other key, its name coming from the envconfig tag:
//
//	type Settings struct {
//		Server  string        `envconfig:"psql.server" default:"localhost:5432"`
//		Timeout time.Duration `envconfig:"psql.timeout"`
//		Debug   bool          // the "debug" entry of the DEFAULT section
//	}
//
// Names are matched case insensitively, so sections bound this way must be
// lower case. The default and required tags of envconfig apply, and so do
// its conversions, including encoding.TextUnmarshaler for the null types.
func (g *Getter) Bind(spec interface{}) error {
	var lookupErr error
	err := envconfig.Process("", spec, func(name string) (string, bool) {
		v, found, err := lookupAs(g, strings.ToLower(name), "", "string", toString)
		if err != nil && lookupErr == nil {
			lookupErr = err
		}
		return v, found && err == nil
	})
	if lookupErr != nil {
		return lookupErr
	}
	return err
}
