package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a configuration file syntax.
type Format string

// Supported formats.
const (
	FormatINI  Format = "ini"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf picks the format from the file extension. Anything that isn't
// recognised is read as INI.
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatINI
	}
}

// Decode parses data according to the format of filename.
func Decode(filename string, data []byte) (*Document, error) {
	var (
		doc *Document
		err error
	)
	format := FormatOf(filename)
	switch format {
	case FormatTOML:
		doc, err = decodeTOML(data)
	case FormatYAML:
		doc, err = decodeYAML(data)
	case FormatJSON:
		doc, err = decodeJSON(data)
	default:
		doc, err = decodeINI(data)
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't parse %s as %s: %w", filename, format, err)
	}
	return doc, nil
}
