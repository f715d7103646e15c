package tools

// Definition describes a tool's metadata for registration and documentation.
// Parameters is a JSON schema object shared by every transport that exposes
// the tool (LLM function calling, MCP).
type Definition struct {
	Name        string
	Description string
	Category    string
	Parameters  map[string]interface{}
}

func objectSchema(required []string, props map[string]interface{}) map[string]interface{} {
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func prop(typ, desc string) map[string]interface{} {
	return map[string]interface{}{"type": typ, "description": desc}
}

func stringArray(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": desc,
	}
}

// Catalog enumerates every analysis tool the system exposes.
var Catalog = []Definition{
	{
		Name:        "load_dataset",
		Description: "Load a CSV dataset from the working directory and build its column map",
		Category:    "dataset",
		Parameters: objectSchema([]string{"file"}, map[string]interface{}{
			"file": prop("string", "CSV file name relative to the working directory"),
		}),
	},
	{
		Name:        "list_columns",
		Description: "List raw and canonical column names of the loaded dataset",
		Category:    "dataset",
		Parameters:  objectSchema(nil, map[string]interface{}{}),
	},
	{
		Name:        "run_eda",
		Description: "Per-column summary statistics and optional correlation matrix",
		Category:    "analysis",
		Parameters: objectSchema(nil, map[string]interface{}{
			"correlations": prop("boolean", "Compute a correlation matrix over the given variables"),
			"variables":    stringArray("Variables for the correlation matrix, raw or canonical names"),
		}),
	},
	{
		Name:        "fit_linear_model",
		Description: "Fit a linear regression model for a formula and return coefficients with diagnostics",
		Category:    "analysis",
		Parameters: objectSchema([]string{"formula"}, map[string]interface{}{
			"formula":   prop("string", "Model formula such as 'mass_g ~ year', using raw or canonical column names"),
			"plot":      prop("boolean", "Render diagnostic plots; defaults to true"),
			"plot_file": prop("string", "PNG file name for the diagnostic plots"),
		}),
	},
	{
		Name:        "run_hypothesis_test",
		Description: "Run a t-test or correlation test between two variables",
		Category:    "analysis",
		Parameters: objectSchema([]string{"var1", "var2"}, map[string]interface{}{
			"test": prop("string", "Either 't_test' or 'correlation'; defaults to 't_test'"),
			"var1": prop("string", "First variable, raw or canonical name"),
			"var2": prop("string", "Second variable, raw or canonical name"),
		}),
	},
	{
		Name:        "run_clustering",
		Description: "K-means clustering over numeric columns; appends a cluster label column",
		Category:    "analysis",
		Parameters: objectSchema([]string{"variables"}, map[string]interface{}{
			"variables":   stringArray("Numeric variables to cluster on"),
			"k":           prop("integer", "Number of clusters, at least 2; defaults to 3"),
			"output_file": prop("string", "CSV file to write the clustered dataset to"),
		}),
	},
	{
		Name:        "visualize",
		Description: "Render a scatter, histogram or boxplot PNG",
		Category:    "visualization",
		Parameters: objectSchema([]string{"x"}, map[string]interface{}{
			"kind":        prop("string", "Plot kind: 'scatter', 'histogram' or 'boxplot'"),
			"x":           prop("string", "X-axis variable, raw or canonical name"),
			"y":           prop("string", "Y-axis variable; required for scatter plots"),
			"output_file": prop("string", "PNG file name for the rendered plot"),
		}),
	},
	{
		Name:        "clean_classes",
		Description: "Collapse a raw class column into coarse labels using the rule set",
		Category:    "cleaning",
		Parameters: objectSchema([]string{"column"}, map[string]interface{}{
			"column": prop("string", "Column holding raw class codes, raw or canonical name"),
		}),
	},
}
