package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"minerva/internal/formula"
)

// Column kinds inferred from cell values.
const (
	KindNumeric     = "numeric"
	KindCategorical = "categorical"
	KindText        = "text"
)

// categoricalMaxUnique bounds how many distinct values a non-numeric column
// may have and still count as categorical.
const categoricalMaxUnique = 50

// ColumnSummary describes one column of a loaded dataset.
type ColumnSummary struct {
	Name      string  `json:"name"`
	Canonical string  `json:"canonical"`
	Kind      string  `json:"kind"`
	Missing   int     `json:"missing"`
	Unique    int     `json:"unique"`
	Min       float64 `json:"min,omitempty"`
	Max       float64 `json:"max,omitempty"`
	Mean      float64 `json:"mean,omitempty"`
}

// Summary computes per-column kind inference and basic statistics.
func (d *Dataset) Summary() []ColumnSummary {
	out := make([]ColumnSummary, 0, len(d.headers))

	for idx, name := range d.headers {
		s := ColumnSummary{
			Name:      name,
			Canonical: formula.Normalize(name),
			Min:       math.Inf(1),
			Max:       math.Inf(-1),
		}

		distinct := make(map[string]struct{})
		var sum float64
		var numeric, present int

		for _, row := range d.rows {
			var v string
			if idx < len(row) {
				v = row[idx]
			}
			if IsMissing(v) {
				s.Missing++
				continue
			}
			present++
			distinct[v] = struct{}{}

			if x, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				numeric++
				sum += x
				s.Min = math.Min(s.Min, x)
				s.Max = math.Max(s.Max, x)
			}
		}

		s.Unique = len(distinct)
		switch {
		case present > 0 && numeric == present:
			s.Kind = KindNumeric
			s.Mean = sum / float64(numeric)
		case s.Unique <= categoricalMaxUnique:
			s.Kind = KindCategorical
		default:
			s.Kind = KindText
		}
		if s.Kind != KindNumeric {
			s.Min, s.Max, s.Mean = 0, 0, 0
		}

		out = append(out, s)
	}

	return out
}

// Describe renders a short human-readable account of the dataset.
func (d *Dataset) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s rows x %d columns\n",
		d.Name, humanize.Comma(int64(len(d.rows))), len(d.headers))

	for _, s := range d.Summary() {
		switch s.Kind {
		case KindNumeric:
			fmt.Fprintf(&b, "  %s (%s): min=%.4g max=%.4g mean=%.4g missing=%d\n",
				s.Name, s.Kind, s.Min, s.Max, s.Mean, s.Missing)
		default:
			fmt.Fprintf(&b, "  %s (%s): unique=%d missing=%d\n",
				s.Name, s.Kind, s.Unique, s.Missing)
		}
	}
	return b.String()
}
