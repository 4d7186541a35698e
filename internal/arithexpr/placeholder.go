package arithexpr

import (
	"fmt"
	"strings"
)

// AccessorName is the function placeholders are rewritten to.
const AccessorName = "data"

// namespaces whose `ns.fn(` calls are folded onto the bare function table.
var functionNamespaces = map[string]bool{
	"np":    true,
	"numpy": true,
	"math":  true,
}

// Placeholder is a `{name}` token found in a raw expression.
type Placeholder struct {
	Name   string
	Offset int // byte offset of the opening brace in the raw text
}

// rewrite turns a raw user expression into HCL expression source. `{{` and
// `}}` stand for literal braces.
func rewrite(raw string) (string, []Placeholder, error) {
	var (
		out          strings.Builder
		placeholders []Placeholder
	)
	out.Grow(len(raw) + 16)

	for i := 0; i < len(raw); {
		c := raw[i]
		switch {
		case c == '{' && strings.HasPrefix(raw[i:], "{{"):
			out.WriteByte('{')
			i += 2

		case c == '{':
			end := strings.IndexAny(raw[i+1:], "{}")
			if end < 0 || raw[i+1+end] == '{' {
				return "", nil, &ParseError{Message: fmt.Sprintf("unterminated placeholder starting at column %d", i+1)}
			}
			name := raw[i+1 : i+1+end]
			if strings.TrimSpace(name) == "" {
				return "", nil, &ParseError{Message: fmt.Sprintf("empty placeholder at column %d", i+1)}
			}
			placeholders = append(placeholders, Placeholder{Name: name, Offset: i})
			out.WriteString(AccessorName)
			out.WriteByte('(')
			out.WriteString(quoteLiteral(name))
			out.WriteByte(')')
			i += end + 2

		case c == '}' && strings.HasPrefix(raw[i:], "}}"):
			out.WriteByte('}')
			i += 2

		case c == '}':
			return "", nil, &ParseError{Message: fmt.Sprintf("unmatched '}' at column %d", i+1)}

		case isIdentStart(c):
			j := i + 1
			for j < len(raw) && isIdentPart(raw[j]) {
				j++
			}
			ident := raw[i:j]
			if fn, next, ok := namespacedCall(raw, ident, j); ok {
				out.WriteString(fn)
				i = next
				continue
			}
			out.WriteString(ident)
			if j < len(raw) && raw[j] == '-' {
				// HCL identifiers may contain dashes; keep `pi-1` a subtraction.
				out.WriteByte(' ')
			}
			i = j

		case c >= '0' && c <= '9':
			// Consume the whole numeric literal so exponents like 1e5 are not
			// mistaken for identifiers.
			j := i + 1
			for j < len(raw) && (isIdentPart(raw[j]) || raw[j] == '.' ||
				((raw[j] == '+' || raw[j] == '-') && (raw[j-1] == 'e' || raw[j-1] == 'E'))) {
				j++
			}
			out.WriteString(raw[i:j])
			i = j

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), placeholders, nil
}

// namespacedCall recognises `ns.fn(` where ns is a known namespace and returns
// the bare function name plus the offset just past it.
func namespacedCall(raw, ident string, pos int) (string, int, bool) {
	if !functionNamespaces[ident] || pos >= len(raw) || raw[pos] != '.' {
		return "", 0, false
	}
	start := pos + 1
	if start >= len(raw) || !isIdentStart(raw[start]) {
		return "", 0, false
	}
	end := start + 1
	for end < len(raw) && isIdentPart(raw[end]) {
		end++
	}
	k := end
	for k < len(raw) && (raw[k] == ' ' || raw[k] == '\t') {
		k++
	}
	if k >= len(raw) || raw[k] != '(' {
		// Not a call: leave `np.pi` style constants to the evaluator.
		return "", 0, false
	}
	return raw[start:end], end, true
}

// quoteLiteral renders s as an HCL string literal with no interpolation.
func quoteLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"', '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '$', '%':
			b.WriteByte(c)
			if i+1 < len(s) && s[i+1] == '{' {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
