package script

import (
	"fmt"
	"regexp"
	"strings"
)

// splitWords splits a directive line on whitespace. A word may be wrapped in
// single quotes to keep spaces; inside quotes '' stands for one quote.
func splitWords(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		inQuote bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuote:
			if c != '\'' {
				cur.WriteByte(c)
				continue
			}
			if i+1 < len(line) && line[i+1] == '\'' {
				cur.WriteByte('\'')
				i++
				continue
			}
			inQuote = false
		case c == '\'':
			inQuote = true
			inWord = true
		case c == ' ' || c == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteByte(c)
			inWord = true
		}
	}

	if inQuote {
		return nil, fmt.Errorf("unterminated quoted string")
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}

var varRef = regexp.MustCompile(`\$(\{[A-Za-z_][A-Za-z0-9_]*\}|[A-Za-z_][A-Za-z0-9_]*)`)

// Expand replaces $NAME and ${NAME} with their values. References to
// unknown names are left alone so regexp anchors survive.
func Expand(s string, vars map[string]string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return varRef.ReplaceAllStringFunc(s, func(ref string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(ref[1:], "{"), "}")
		if v, ok := vars[name]; ok {
			return v
		}
		return ref
	})
}

// unescape decodes \n, \t and \\ in exact-match values
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	r := strings.NewReplacer(`\\`, `\`, `\n`, "\n", `\t`, "\t")
	return r.Replace(s)
}
