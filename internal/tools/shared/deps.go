package shared

import (
	"minerva/internal/classify"
	"minerva/internal/dataset"
	"minerva/internal/stats"
	"minerva/pkg/logger"
)

// Deps bundles dependencies required by concrete tool implementations.
type Deps struct {
	Store   *dataset.Store
	Rules   *classify.RuleSet // nil when the rule-set config is absent
	Stats   stats.Runner
	WorkDir string
	Log     *logger.Logger
}

// HasRules reports whether a classification rule set is loaded.
func (d Deps) HasRules() bool {
	return d.Rules != nil
}

// HasStats reports whether the statistical collaborator is wired.
func (d Deps) HasStats() bool {
	return d.Stats != nil
}
