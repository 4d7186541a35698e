package arithexpr

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// maskOperators maps the numpy mask operators onto the HCL logical ones.
var maskOperators = map[hclsyntax.TokenType]string{
	hclsyntax.TokenBitwiseAnd: "&&",
	hclsyntax.TokenBitwiseOr:  "||",
	hclsyntax.TokenBitwiseNot: "!",
}

// translateOperators rewrites the operators HCL lacks into forms the
// evaluator understands: `**` becomes power() and `&`, `|`, `~` become the
// logical operators. HCL comments (`//`, `#`, `/* */`) are a *ParseError.
func translateOperators(src string) (string, error) {
	src, err := translateMaskOperators(src)
	if err != nil {
		return "", err
	}
	return translatePower(src)
}

func lex(src string) hclsyntax.Tokens {
	// Lexer diagnostics are reported again by the parser.
	toks, _ := hclsyntax.LexExpression([]byte(src), "<expression>", hcl.InitialPos)
	return toks
}

func translateMaskOperators(src string) (string, error) {
	var (
		out  strings.Builder
		last int
	)
	for _, tok := range lex(src) {
		if tok.Type == hclsyntax.TokenComment {
			if strings.HasPrefix(string(tok.Bytes), "//") {
				return "", &ParseError{Message: "floor division '//' is not supported, use floor(a / b)"}
			}
			return "", &ParseError{Message: "comments are not supported"}
		}
		repl, ok := maskOperators[tok.Type]
		if !ok {
			continue
		}
		out.WriteString(src[last:tok.Range.Start.Byte])
		out.WriteString(repl)
		last = tok.Range.End.Byte
	}
	if last == 0 {
		return src, nil
	}
	out.WriteString(src[last:])
	return out.String(), nil
}

// translatePower replaces the leftmost `a ** b` with power(a, b) until none
// remain. The right operand absorbs any further `**`, so the operator is
// right associative, and unary minus on the left applies to the result.
func translatePower(src string) (string, error) {
	// Each pass consumes one `**`.
	for n := strings.Count(src, "**"); n > 0; n-- {
		toks := lex(src)
		k := -1
		for i := 0; i+1 < len(toks); i++ {
			if isPower(toks, i) {
				k = i
				break
			}
		}
		if k < 0 {
			return src, nil
		}

		start := operandStart(toks, k-1)
		end := operandEnd(toks, k+2)
		if start < 0 || end < 0 {
			return "", &ParseError{Message: "'**' needs an operand on both sides"}
		}

		lhs := src[toks[start].Range.Start.Byte:toks[k].Range.Start.Byte]
		rhs := src[toks[k+1].Range.End.Byte:toks[end-1].Range.End.Byte]
		var b strings.Builder
		b.WriteString(src[:toks[start].Range.Start.Byte])
		b.WriteString("power(")
		b.WriteString(strings.TrimSpace(lhs))
		b.WriteString(", ")
		b.WriteString(strings.TrimSpace(rhs))
		b.WriteString(")")
		b.WriteString(src[toks[end-1].Range.End.Byte:])
		src = b.String()
	}
	return src, nil
}

func isPower(toks hclsyntax.Tokens, i int) bool {
	return toks[i].Type == hclsyntax.TokenStar &&
		toks[i+1].Type == hclsyntax.TokenStar &&
		toks[i].Range.End.Byte == toks[i+1].Range.Start.Byte
}

// operandStart returns the index of the first token of the operand ending
// at toks[i], or -1.
func operandStart(toks hclsyntax.Tokens, i int) int {
	for i >= 0 {
		start := i
		switch toks[i].Type {
		case hclsyntax.TokenNumberLit, hclsyntax.TokenIdent:
		case hclsyntax.TokenCParen, hclsyntax.TokenCBrack, hclsyntax.TokenCQuote:
			start = matchBack(toks, i)
			if start < 0 {
				return -1
			}
			if toks[i].Type == hclsyntax.TokenCParen && start > 0 && toks[start-1].Type == hclsyntax.TokenIdent {
				start--
			}
		default:
			return -1
		}

		switch {
		case toks[start].Type == hclsyntax.TokenIdent && start >= 2 &&
			toks[start-1].Type == hclsyntax.TokenDot && endsOperand(toks[start-2].Type):
			i = start - 2
		case toks[start].Type == hclsyntax.TokenOBrack && start >= 1 && endsOperand(toks[start-1].Type):
			i = start - 1
		default:
			return start
		}
	}
	return -1
}

// operandEnd returns the index just past the operand starting at toks[i],
// or -1.
func operandEnd(toks hclsyntax.Tokens, i int) int {
	for i < len(toks) && (toks[i].Type == hclsyntax.TokenMinus || toks[i].Type == hclsyntax.TokenPlus || toks[i].Type == hclsyntax.TokenBang) {
		i++
	}
	if i >= len(toks) {
		return -1
	}

	var end int
	switch toks[i].Type {
	case hclsyntax.TokenNumberLit:
		end = i + 1
	case hclsyntax.TokenIdent:
		end = i + 1
		if end < len(toks) && toks[end].Type == hclsyntax.TokenOParen {
			m := matchForward(toks, end)
			if m < 0 {
				return -1
			}
			end = m + 1
		}
	case hclsyntax.TokenOParen, hclsyntax.TokenOBrack, hclsyntax.TokenOQuote:
		m := matchForward(toks, i)
		if m < 0 {
			return -1
		}
		end = m + 1
	default:
		return -1
	}

	for end < len(toks) {
		if toks[end].Type == hclsyntax.TokenDot && end+1 < len(toks) && toks[end+1].Type == hclsyntax.TokenIdent {
			end += 2
			continue
		}
		if toks[end].Type == hclsyntax.TokenOBrack {
			m := matchForward(toks, end)
			if m < 0 {
				return -1
			}
			end = m + 1
			continue
		}
		break
	}

	if end+1 < len(toks) && isPower(toks, end) {
		return operandEnd(toks, end+2)
	}
	return end
}

var pairs = map[hclsyntax.TokenType]hclsyntax.TokenType{
	hclsyntax.TokenOParen: hclsyntax.TokenCParen,
	hclsyntax.TokenOBrack: hclsyntax.TokenCBrack,
	hclsyntax.TokenOQuote: hclsyntax.TokenCQuote,
}

func matchForward(toks hclsyntax.Tokens, i int) int {
	open := toks[i].Type
	closing := pairs[open]
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j].Type {
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func matchBack(toks hclsyntax.Tokens, i int) int {
	closing := toks[i].Type
	var open hclsyntax.TokenType
	for o, c := range pairs {
		if c == closing {
			open = o
		}
	}
	depth := 0
	for j := i; j >= 0; j-- {
		switch toks[j].Type {
		case closing:
			depth++
		case open:
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func endsOperand(t hclsyntax.TokenType) bool {
	switch t {
	case hclsyntax.TokenIdent, hclsyntax.TokenNumberLit, hclsyntax.TokenCParen,
		hclsyntax.TokenCBrack, hclsyntax.TokenCQuote:
		return true
	}
	return false
}
