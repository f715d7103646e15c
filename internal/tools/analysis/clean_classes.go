package analysis

import (
	"context"

	"minerva/internal/dataset"
	"minerva/internal/tools/shared"
)

// NewCleanClassesTool collapses a raw class column into coarse labels and
// appends the result as a new column. When no rule set is configured the
// dataset passes through untouched; enrichment is not correctness-critical.
func NewCleanClassesTool(deps shared.Deps) *shared.BuiltTool {
	return shared.NewToolBuilder("clean_classes",
		"Collapse a raw class column into coarse labels using the rule set",
		func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			column, err := stringArg(args, "column")
			if err != nil {
				return nil, err
			}

			d, err := currentDataset(deps)
			if err != nil {
				return nil, err
			}

			if !deps.HasRules() {
				deps.Log.Warnw("classification rule set not configured; skipping class cleaning",
					"column", column)
				return map[string]interface{}{
					"skipped": true,
					"reason":  "classification rule set not configured",
				}, nil
			}

			values, err := d.Column(column)
			if err != nil {
				return nil, err
			}

			labels := make([]string, len(values))
			counts := make(map[string]int)
			for i, v := range values {
				if dataset.IsMissing(v) {
					labels[i] = deps.Rules.Classify("")
				} else {
					labels[i] = deps.Rules.Classify(v)
				}
				counts[labels[i]]++
			}

			cleanName := column + "_clean"
			if err := d.AddColumn(cleanName, labels); err != nil {
				return nil, err
			}
			if d.Path != "" {
				if err := d.Save(); err != nil {
					return nil, err
				}
			}

			deps.Log.Infow("class column cleaned", "column", column, "labels", len(counts))

			return map[string]interface{}{
				"column":       cleanName,
				"distribution": counts,
			}, nil
		}).Build()
}
