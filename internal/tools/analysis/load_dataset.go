package analysis

import (
	"context"
	"path/filepath"

	"minerva/internal/dataset"
	"minerva/internal/tools/shared"
)

// NewLoadDatasetTool loads a CSV from the session working directory and
// makes it the current dataset.
func NewLoadDatasetTool(deps shared.Deps) *shared.BuiltTool {
	return shared.NewToolBuilder("load_dataset",
		"Load a CSV dataset from the working directory and build its column map",
		func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			file, err := stringArg(args, "file")
			if err != nil {
				return nil, err
			}

			path := file
			if !filepath.IsAbs(path) {
				path = filepath.Join(deps.WorkDir, file)
			}

			d, err := dataset.Load(path)
			if err != nil {
				return nil, err
			}

			// Collisions are resolved first-occurrence-wins but must stay
			// observable.
			var warnings []string
			for _, c := range d.ColumnMap().Collisions() {
				collisionErr := c.Err()
				deps.Log.Warnw("ambiguous column name",
					"canonical", c.Canonical, "kept", c.Kept, "dropped", c.Dropped,
					"error", collisionErr)
				warnings = append(warnings, collisionErr.Error())
			}

			deps.Store.Set(d)
			deps.Log.Infow("dataset loaded", "file", d.Name, "rows", d.NumRows(), "columns", len(d.Headers()))

			result := map[string]interface{}{
				"file":    d.Name,
				"rows":    d.NumRows(),
				"columns": d.Headers(),
			}
			if len(warnings) > 0 {
				result["warnings"] = warnings
			}
			return result, nil
		}).Build()
}
