package analysis

import (
	"context"

	"minerva/internal/tools/shared"
)

// NewRunEDATool summarizes the loaded dataset and, when requested, asks the
// statistical collaborator for a correlation matrix over chosen variables.
func NewRunEDATool(deps shared.Deps) *shared.BuiltTool {
	return shared.NewToolBuilder("run_eda",
		"Per-column summary statistics and optional correlation matrix",
		func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			d, err := currentDataset(deps)
			if err != nil {
				return nil, err
			}

			summaries := d.Summary()
			out := make([]map[string]interface{}, 0, len(summaries))
			for _, s := range summaries {
				entry := map[string]interface{}{
					"column":    s.Name,
					"canonical": s.Canonical,
					"kind":      s.Kind,
					"missing":   s.Missing,
					"unique":    s.Unique,
				}
				if s.Kind == "numeric" {
					entry["min"] = s.Min
					entry["max"] = s.Max
					entry["mean"] = s.Mean
				}
				out = append(out, entry)
			}

			result := map[string]interface{}{
				"file":        d.Name,
				"rows":        d.NumRows(),
				"summary":     out,
				"description": d.Describe(),
			}

			if boolArg(args, "correlations", false) && deps.HasStats() {
				vars := stringSliceArg(args, "variables")
				resolved := make([]string, 0, len(vars))
				for _, v := range vars {
					raw, err := resolveColumn(d, v)
					if err != nil {
						return nil, err
					}
					resolved = append(resolved, raw)
				}

				corr, err := deps.Stats.Run(ctx, "eda", map[string]interface{}{
					"file":      d.Name,
					"variables": resolved,
				})
				if err != nil {
					return nil, err
				}
				result["correlations"] = map[string]interface{}(corr)
			}

			return result, nil
		}).WithTimeout(defaultScriptTimeout).Build()
}
