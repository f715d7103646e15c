package analysis

import (
	"context"
	"time"

	"minerva/internal/tools/shared"
	"minerva/pkg/errors"
)

const defaultScriptTimeout = 90 * time.Second

// NewFitLinearModelTool resolves a model formula against the dataset and
// fits it through the statistical collaborator.
func NewFitLinearModelTool(deps shared.Deps) *shared.BuiltTool {
	return shared.NewToolBuilder("fit_linear_model",
		"Fit a linear regression model for a formula and return coefficients with diagnostics",
		func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			rawFormula, err := stringArg(args, "formula")
			if err != nil {
				return nil, err
			}

			d, err := currentDataset(deps)
			if err != nil {
				return nil, err
			}
			if !deps.HasStats() {
				return nil, errors.Wrap(errors.ErrExternal, "statistical collaborator is not configured")
			}

			resolved, err := rewriteFormula(d, rawFormula)
			if err != nil {
				return nil, err
			}
			deps.Log.Infow("formula resolved", "input", rawFormula, "resolved", resolved)

			// An empty plot path tells the script to skip diagnostics.
			plotFile := ""
			if boolArg(args, "plot", true) {
				plotFile = optStringArg(args, "plot_file", "lm_diagnostics.png")
			}

			result, err := deps.Stats.Run(ctx, "linear_model", map[string]interface{}{
				"file":    d.Name,
				"formula": resolved,
				"plot":    plotFile,
			})
			if err != nil {
				return nil, err
			}

			result["formula"] = resolved
			return result, nil
		}).WithTimeout(defaultScriptTimeout).Build()
}
