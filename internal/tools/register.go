package tools

import (
	"minerva/internal/tools/analysis"
	"minerva/internal/tools/shared"
)

// RegisterAllTools registers all available tools in the registry.
//
// Tools are built via shared.NewToolBuilder() with metrics instrumentation
// always on; tools that shell out to the statistical collaborator also carry
// an execution timeout.
func RegisterAllTools(registry *Registry, deps shared.Deps) {
	log := deps.Log.With("component", "tool_registration")

	// Dataset tools
	registry.Register("load_dataset", analysis.NewLoadDatasetTool(deps))
	registry.Register("list_columns", analysis.NewListColumnsTool(deps))
	log.Debug("Registered dataset tools")

	// Analysis tools
	registry.Register("run_eda", analysis.NewRunEDATool(deps))
	registry.Register("fit_linear_model", analysis.NewFitLinearModelTool(deps))
	registry.Register("run_hypothesis_test", analysis.NewRunHypothesisTestTool(deps))
	registry.Register("run_clustering", analysis.NewRunClusteringTool(deps))
	log.Debug("Registered analysis tools")

	// Visualization and cleaning tools
	registry.Register("visualize", analysis.NewVisualizeTool(deps))
	registry.Register("clean_classes", analysis.NewCleanClassesTool(deps))
	log.Debug("Registered visualization and cleaning tools")
}
