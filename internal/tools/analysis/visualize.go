package analysis

import (
	"context"

	"minerva/internal/tools/shared"
	"minerva/pkg/errors"
)

// NewVisualizeTool renders a plot PNG through the statistical collaborator.
func NewVisualizeTool(deps shared.Deps) *shared.BuiltTool {
	return shared.NewToolBuilder("visualize",
		"Render a scatter, histogram or boxplot PNG",
		func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			kind := optStringArg(args, "kind", "scatter")
			switch kind {
			case "scatter", "histogram", "boxplot":
			default:
				return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown plot kind %q", kind)
			}

			x, err := stringArg(args, "x")
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

			rawX, err := resolveColumn(d, x)
			if err != nil {
				return nil, err
			}

			scriptArgs := map[string]interface{}{
				"file":   d.Name,
				"kind":   kind,
				"x":      rawX,
				"output": optStringArg(args, "output_file", "plot_"+kind+".png"),
			}

			// Scatter plots need a second variable; the others take it
			// optionally as a grouping.
			if y := optStringArg(args, "y", ""); y != "" {
				rawY, err := resolveColumn(d, y)
				if err != nil {
					return nil, err
				}
				scriptArgs["y"] = rawY
			} else if kind == "scatter" {
				return nil, errors.Wrap(errors.ErrInvalidInput, "argument \"y\" is required for scatter plots")
			}

			return deps.Stats.Run(ctx, "visualize", scriptArgs)
		}).WithTimeout(defaultScriptTimeout).Build()
}
