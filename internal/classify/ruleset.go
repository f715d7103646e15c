// Package classify collapses a messy categorical vocabulary into a small set
// of stable labels. Real-world class columns carry hundreds of overlapping
// raw codes; an ordered rule set maps each code to a coarse label in a
// single pass.
package classify

import (
	"regexp"
	"strings"

	"minerva/pkg/errors"
)

// UnknownLabel is returned for missing input. It is distinct from the rule
// set's default label, which marks a present-but-unmatched code.
const UnknownLabel = "Unknown"

// Rule maps codes matching at least one include pattern, and none of the
// exclude patterns, to a label. Rules are evaluated in file order; earlier
// rules take precedence.
type Rule struct {
	label    string
	includes []*regexp.Regexp
	excludes []*regexp.Regexp
}

// Label returns the label this rule assigns.
func (r Rule) Label() string { return r.label }

// matches reports whether the uppercased code satisfies this rule.
func (r Rule) matches(code string) bool {
	included := false
	for _, re := range r.includes {
		if re.MatchString(code) {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, re := range r.excludes {
		if re.MatchString(code) {
			return false
		}
	}
	return true
}

// RuleSet is an ordered sequence of rules plus a default label. It is built
// once per session and read-only afterwards; Classify is safe to call
// concurrently across rows.
type RuleSet struct {
	rules        []Rule
	defaultLabel string
}

// NewRuleSet compiles an ordered rule set. Patterns are compiled once here
// and reused across every Classify call; an invalid pattern fails the whole
// set rather than a single row.
//
// Include patterns are anchored at the start of the code: "L" matches "L6"
// but not "PALLASITE". Exclude patterns veto on a match anywhere in the
// code.
func NewRuleSet(specs []RuleSpec, defaultLabel string) (*RuleSet, error) {
	rs := &RuleSet{
		rules:        make([]Rule, 0, len(specs)),
		defaultLabel: defaultLabel,
	}

	for _, spec := range specs {
		rule := Rule{label: spec.Label}
		for _, p := range spec.Patterns {
			re, err := regexp.Compile("^(?:" + p + ")")
			if err != nil {
				return nil, errors.Wrapf(err, "rule %q: include pattern %q", spec.Label, p)
			}
			rule.includes = append(rule.includes, re)
		}
		for _, p := range spec.Excludes {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, errors.Wrapf(err, "rule %q: exclude pattern %q", spec.Label, p)
			}
			rule.excludes = append(rule.excludes, re)
		}
		rs.rules = append(rs.rules, rule)
	}

	return rs, nil
}

// DefaultLabel returns the label assigned when no rule matches.
func (rs *RuleSet) DefaultLabel() string { return rs.defaultLabel }

// Len returns the number of rules.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// Classify maps a raw categorical code to its coarse label. A missing code
// yields UnknownLabel unconditionally; otherwise the first matching rule
// wins and later rules are never consulted.
func (rs *RuleSet) Classify(rawCode string) string {
	code := strings.ToUpper(strings.TrimSpace(rawCode))
	if code == "" {
		return UnknownLabel
	}

	for _, rule := range rs.rules {
		if rule.matches(code) {
			return rule.label
		}
	}
	return rs.defaultLabel
}
