// Package analysis implements the concrete tools an agent calls to analyze
// the session dataset. Statistical computation is delegated to the R
// collaborator; these tools prepare resolved column references and relay
// results.
package analysis

import (
	"strings"

	"minerva/internal/dataset"
	"minerva/internal/formula"
	"minerva/internal/metrics"
	"minerva/internal/tools/shared"
	"minerva/pkg/errors"
)

// stringArg extracts a required string argument.
func stringArg(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", errors.Wrapf(errors.ErrInvalidInput, "argument %q is required", key)
	}
	return strings.TrimSpace(v), nil
}

// optStringArg extracts an optional string argument with a default.
func optStringArg(args map[string]interface{}, key, def string) string {
	if v, ok := args[key].(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

// intArg extracts an integer argument. JSON numbers decode as float64.
func intArg(args map[string]interface{}, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return def
}

// boolArg extracts a boolean argument with a default.
func boolArg(args map[string]interface{}, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// stringSliceArg extracts a list-of-strings argument.
func stringSliceArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

// currentDataset fetches the session dataset.
func currentDataset(deps shared.Deps) (*dataset.Dataset, error) {
	d, err := deps.Store.Current()
	if err != nil {
		return nil, errors.Wrap(err, "load a dataset first with load_dataset")
	}
	return d, nil
}

// rewriteFormula resolves a formula against the dataset's column map and
// records the outcome.
func rewriteFormula(d *dataset.Dataset, raw string) (string, error) {
	resolved, err := formula.Rewrite(raw, d.ColumnMap())
	switch {
	case err == nil:
		metrics.FormulaRewrites.WithLabelValues("success").Inc()
	case errors.Is(err, errors.ErrColumnNotFound):
		metrics.FormulaRewrites.WithLabelValues("unresolved").Inc()
	default:
		metrics.FormulaRewrites.WithLabelValues("malformed").Inc()
	}
	return resolved, err
}

// resolveColumn maps a raw or canonical variable name to the dataset's raw
// column name, failing fast so the agent can correct itself.
func resolveColumn(d *dataset.Dataset, name string) (string, error) {
	raw, ok := d.ColumnMap().Resolve(formula.Normalize(name))
	if !ok {
		return "", errors.Wrapf(errors.ErrColumnNotFound, "variable %q", name)
	}
	return raw, nil
}
