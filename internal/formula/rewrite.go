package formula

import (
	"regexp"
	"sort"
	"strings"

	"minerva/pkg/errors"
)

// needsQuoting matches any character that R formulas cannot carry in a bare
// identifier reference.
var needsQuoting = regexp.MustCompile(`[^A-Za-z0-9_.]`)

// substitution is a planned token replacement within a formula.
type substitution struct {
	token       string
	replacement string
	order       int
}

// Rewrite resolves every variable in formula against cm and returns the
// formula with each variable replaced by its raw column name, backtick-quoted
// when the raw name is not a plain identifier. It fails fast on the first
// unresolvable variable so the caller can correct the formula and retry.
func Rewrite(formula string, cm *ColumnMap) (string, error) {
	tokens := Tokenize(formula)
	if len(tokens) == 0 {
		return "", errors.Wrapf(errors.ErrMalformedFormula, "no variable terms in %q", formula)
	}

	subs := make([]substitution, 0, len(tokens))
	for i, tok := range tokens {
		if isQuoted(tok) {
			// Already resolved on a previous pass.
			continue
		}

		raw, ok := cm.Resolve(Normalize(tok))
		if !ok {
			return "", errors.Wrapf(errors.ErrColumnNotFound, "variable %q", tok)
		}

		replacement := raw
		if needsQuoting.MatchString(raw) {
			replacement = "`" + raw + "`"
		}
		if replacement == tok {
			continue
		}

		subs = append(subs, substitution{token: tok, replacement: replacement, order: i})
	}

	// Longer tokens substitute first so a short token never clobbers a
	// longer one that contains it (e.g. var_1 inside var_10).
	sort.SliceStable(subs, func(i, j int) bool {
		if len(subs[i].token) != len(subs[j].token) {
			return len(subs[i].token) > len(subs[j].token)
		}
		return subs[i].order < subs[j].order
	})

	out := formula
	for _, sub := range subs {
		out = substitute(out, sub.token, sub.replacement)
	}
	return out, nil
}

// isQuoted reports whether tok is already a backtick-quoted reference.
func isQuoted(tok string) bool {
	return len(tok) >= 2 && strings.HasPrefix(tok, "`") && strings.HasSuffix(tok, "`")
}

// substitute replaces every word-boundary-anchored occurrence of token
// outside backtick-quoted segments.
func substitute(s, token, replacement string) string {
	pattern := regexp.QuoteMeta(token)
	if isWordChar(rune(token[0])) {
		pattern = `\b` + pattern
	}
	if isWordChar(rune(token[len(token)-1])) {
		pattern = pattern + `\b`
	}
	re := regexp.MustCompile(pattern)

	var b strings.Builder
	for len(s) > 0 {
		open := strings.IndexByte(s, '`')
		if open < 0 {
			b.WriteString(re.ReplaceAllLiteralString(s, replacement))
			break
		}
		b.WriteString(re.ReplaceAllLiteralString(s[:open], replacement))

		end := strings.IndexByte(s[open+1:], '`')
		if end < 0 {
			// Unbalanced quote; leave the tail untouched.
			b.WriteString(s[open:])
			break
		}
		b.WriteString(s[open : open+end+2])
		s = s[open+end+2:]
	}
	return b.String()
}

func isWordChar(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
