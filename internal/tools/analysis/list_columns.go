package analysis

import (
	"context"

	"minerva/internal/formula"
	"minerva/internal/tools/shared"
)

// NewListColumnsTool reports the loaded dataset's raw headers together with
// the canonical names formulas may use for them.
func NewListColumnsTool(deps shared.Deps) *shared.BuiltTool {
	return shared.NewToolBuilder("list_columns",
		"List raw and canonical column names of the loaded dataset",
		func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			d, err := currentDataset(deps)
			if err != nil {
				return nil, err
			}

			columns := make([]map[string]interface{}, 0, len(d.Headers()))
			for _, h := range d.Headers() {
				columns = append(columns, map[string]interface{}{
					"raw":       h,
					"canonical": formula.Normalize(h),
				})
			}

			return map[string]interface{}{
				"file":    d.Name,
				"columns": columns,
			}, nil
		}).Build()
}
