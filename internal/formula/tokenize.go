package formula

import "strings"

// isOperator reports whether r separates variable terms in a model formula.
func isOperator(r rune) bool {
	return r == '~' || r == '+' || r == '*' || r == ':'
}

// Tokenize extracts the unique variable identifiers referenced by a formula,
// in first-occurrence order. The formula is split on the operator characters
// `~ + * :`; operators inside backtick-quoted segments are treated as part
// of the quoted name, which keeps Rewrite idempotent on its own output.
//
// Parenthesized transformation wrappers and nested interaction terms are not
// parsed; such expressions pass through as single opaque tokens.
func Tokenize(formula string) []string {
	var (
		tokens  []string
		seen    = make(map[string]struct{})
		current strings.Builder
		quoted  bool
	)

	flush := func() {
		tok := strings.TrimSpace(current.String())
		current.Reset()
		if tok == "" {
			return
		}
		if _, dup := seen[tok]; dup {
			return
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}

	for _, r := range formula {
		switch {
		case r == '`':
			quoted = !quoted
			current.WriteRune(r)
		case !quoted && isOperator(r):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()

	return tokens
}
