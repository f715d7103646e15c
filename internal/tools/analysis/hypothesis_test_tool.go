package analysis

import (
	"context"

	"minerva/internal/tools/shared"
	"minerva/pkg/errors"
)

// NewRunHypothesisTestTool resolves two variables and runs a t-test or
// correlation test through the statistical collaborator.
func NewRunHypothesisTestTool(deps shared.Deps) *shared.BuiltTool {
	return shared.NewToolBuilder("run_hypothesis_test",
		"Run a t-test or correlation test between two variables",
		func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			test := optStringArg(args, "test", "t_test")
			if test != "t_test" && test != "correlation" {
				return nil, errors.Wrapf(errors.ErrInvalidInput, "unknown test %q", test)
			}

			var1, err := stringArg(args, "var1")
			if err != nil {
				return nil, err
			}
			var2, err := stringArg(args, "var2")
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

			raw1, err := resolveColumn(d, var1)
			if err != nil {
				return nil, err
			}
			raw2, err := resolveColumn(d, var2)
			if err != nil {
				return nil, err
			}

			result, err := deps.Stats.Run(ctx, "hypothesis_test", map[string]interface{}{
				"file": d.Name,
				"test": test,
				"var1": raw1,
				"var2": raw2,
			})
			if err != nil {
				return nil, err
			}

			result["test"] = test
			return result, nil
		}).WithTimeout(defaultScriptTimeout).Build()
}
