package analysis

import (
	"context"

	"minerva/internal/tools/shared"
	"minerva/pkg/errors"
)

// NewRunClusteringTool runs k-means over resolved numeric columns through
// the statistical collaborator.
func NewRunClusteringTool(deps shared.Deps) *shared.BuiltTool {
	return shared.NewToolBuilder("run_clustering",
		"K-means clustering over numeric columns; appends a cluster label column",
		func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			vars := stringSliceArg(args, "variables")
			if len(vars) == 0 {
				return nil, errors.Wrap(errors.ErrInvalidInput, "argument \"variables\" is required")
			}
			k := intArg(args, "k", 3)
			if k < 2 {
				return nil, errors.Wrapf(errors.ErrInvalidInput, "k must be at least 2, got %d", k)
			}

			d, err := currentDataset(deps)
			if err != nil {
				return nil, err
			}
			if !deps.HasStats() {
				return nil, errors.Wrap(errors.ErrExternal, "statistical collaborator is not configured")
			}

			resolved := make([]string, 0, len(vars))
			for _, v := range vars {
				raw, err := resolveColumn(d, v)
				if err != nil {
					return nil, err
				}
				resolved = append(resolved, raw)
			}

			result, err := deps.Stats.Run(ctx, "clustering", map[string]interface{}{
				"file":      d.Name,
				"variables": resolved,
				"k":         k,
				"output":    optStringArg(args, "output_file", "clustered.csv"),
			})
			if err != nil {
				return nil, err
			}

			result["k"] = k
			return result, nil
		}).WithTimeout(defaultScriptTimeout).Build()
}
