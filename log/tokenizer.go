package log

import (
	"fmt"
	"strings"
)

type token struct {
	key, value string
	inside     rune // the opening bracket if the value was a list
}

// tokenize splits "key=value,key2=[a,b]" style configuration lines.
func tokenize(line string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(line); i++ {
		start := i
		for i < len(line) && line[i] != '=' && line[i] != ',' {
			i++
		}
		t := token{key: line[start:i]}
		if i == len(line) || line[i] == ',' {
			tokens = append(tokens, t)
			continue
		}

		i++ // '='
		if i == len(line) {
			return nil, fmt.Errorf("key `%s=` with no value", t.key)
		}
		if line[i] == '[' {
			end := strings.IndexByte(line[i:], ']')
			if end < 0 {
				return nil, fmt.Errorf("key `%s` has an unclosed `[`", t.key)
			}
			t.value, t.inside = line[i+1:i+end], '['
			i += end + 1
			if i < len(line) && line[i] != ',' {
				return nil, fmt.Errorf("expected `,` after `%s`", line[:i])
			}
		} else {
			start = i
			for i < len(line) && line[i] != ',' {
				i++
			}
			t.value = line[start:i]
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}
