package parser

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Structured formats map onto sections like this: top-level scalars go to
// the default section, top-level tables become sections, deeper tables
// become dotted entry names and arrays are joined with commas.

func decodeTOML(data []byte) (*Document, error) {
	tree := make(map[string]interface{})
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return fromTree(tree)
}

func decodeYAML(data []byte) (*Document, error) {
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return fromTree(tree)
}

func decodeJSON(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewDocument(), nil
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, errors.New("the top-level JSON value must be an object")
	}

	doc := NewDocument()
	root.ForEach(func(key, value gjson.Result) bool {
		if value.IsObject() {
			doc.AddSection(key.String())
			flattenJSON(doc, key.String(), "", value)
		} else if value.Type != gjson.Null {
			doc.Set(DefaultSection, key.String(), Entry{Value: jsonScalar(value)})
		}
		return true
	})
	return doc, nil
}

func flattenJSON(doc *Document, section, prefix string, obj gjson.Result) {
	obj.ForEach(func(key, value gjson.Result) bool {
		name := prefix + key.String()
		switch {
		case value.IsObject():
			flattenJSON(doc, section, name+".", value)
		case value.Type == gjson.Null:
		default:
			doc.Set(section, name, Entry{Value: jsonScalar(value)})
		}
		return true
	})
}

func jsonScalar(value gjson.Result) string {
	if !value.IsArray() {
		return value.String()
	}
	items := value.Array()
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, item.String())
	}
	return strings.Join(parts, ",")
}

func fromTree(tree map[string]interface{}) (*Document, error) {
	doc := NewDocument()
	for _, key := range sortedKeys(tree) {
		value := tree[key]
		if table, ok := asTable(value); ok {
			doc.AddSection(key)
			if err := flattenTree(doc, key, "", table); err != nil {
				return nil, err
			}
			continue
		}
		if value == nil {
			continue
		}
		s, err := scalar(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		doc.Set(DefaultSection, key, Entry{Value: s})
	}
	return doc, nil
}

func flattenTree(doc *Document, section, prefix string, table map[string]interface{}) error {
	for _, key := range sortedKeys(table) {
		name := prefix + key
		value := table[key]
		if nested, ok := asTable(value); ok {
			if err := flattenTree(doc, section, name+".", nested); err != nil {
				return err
			}
			continue
		}
		if value == nil {
			continue
		}
		s, err := scalar(value)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", section, name, err)
		}
		doc.Set(section, name, Entry{Value: s})
	}
	return nil
}

func asTable(value interface{}) (map[string]interface{}, bool) {
	switch t := value.(type) {
	case map[string]interface{}:
		return t, true
	case map[interface{}]interface{}:
		res := make(map[string]interface{}, len(t))
		for k, v := range t {
			res[fmt.Sprint(k)] = v
		}
		return res, true
	default:
		return nil, false
	}
}

func scalar(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case time.Time:
		return v.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return v.String(), nil
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if _, ok := asTable(item); ok {
				return "", errors.New("arrays of tables are not supported")
			}
			s, err := scalar(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), nil
	case []map[string]interface{}:
		return "", errors.New("arrays of tables are not supported")
	default:
		return fmt.Sprint(v), nil
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
