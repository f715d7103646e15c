// Package dataset holds the session's tabular data in memory. A dataset is
// loaded once from CSV, its headers are frozen, and the formula engine's
// column map is built from them at load time.
package dataset

import (
	"strings"
	"sync"

	"minerva/internal/formula"
	"minerva/pkg/errors"
)

// Dataset is an in-memory table: ordered raw headers plus string cells.
// Headers are immutable after load; AddColumn appends derived columns
// produced by cleaning passes.
type Dataset struct {
	Name    string
	Path    string // source file; empty for datasets built in memory
	headers []string
	rows    [][]string
	columns *formula.ColumnMap
	sep     rune // field delimiter of the backing file
}

// New builds a dataset from raw headers and rows and derives its column map.
func New(name string, headers []string, rows [][]string) *Dataset {
	return &Dataset{
		Name:    name,
		headers: headers,
		rows:    rows,
		columns: formula.NewColumnMap(headers),
		sep:     ',',
	}
}

// Headers returns the raw header names in file order.
func (d *Dataset) Headers() []string {
	out := make([]string, len(d.headers))
	copy(out, d.headers)
	return out
}

// NumRows returns the number of data rows.
func (d *Dataset) NumRows() int { return len(d.rows) }

// ColumnMap returns the canonical-to-raw lookup for this dataset.
func (d *Dataset) ColumnMap() *formula.ColumnMap { return d.columns }

// Row returns one data row.
func (d *Dataset) Row(i int) []string { return d.rows[i] }

// Column returns the values of a column addressed by raw or canonical name.
func (d *Dataset) Column(name string) ([]string, error) {
	idx, err := d.columnIndex(name)
	if err != nil {
		return nil, err
	}

	values := make([]string, len(d.rows))
	for i, row := range d.rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values, nil
}

// AddColumn appends a derived column. The value count must match the row
// count.
func (d *Dataset) AddColumn(name string, values []string) error {
	if len(values) != len(d.rows) {
		return errors.Newf("column %q has %d values for %d rows", name, len(values), len(d.rows))
	}

	d.headers = append(d.headers, name)
	for i := range d.rows {
		d.rows[i] = append(d.rows[i], values[i])
	}
	d.columns = formula.NewColumnMap(d.headers)
	return nil
}

func (d *Dataset) columnIndex(name string) (int, error) {
	for i, h := range d.headers {
		if h == name {
			return i, nil
		}
	}

	// Fall back to canonical resolution.
	if raw, ok := d.columns.Resolve(formula.Normalize(name)); ok {
		for i, h := range d.headers {
			if h == raw {
				return i, nil
			}
		}
	}
	return 0, errors.Wrapf(errors.ErrColumnNotFound, "column %q", name)
}

// IsMissing reports whether a cell value counts as missing.
func IsMissing(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "na", "n/a", "nan", "null":
		return true
	}
	return false
}

// Store keeps the dataset currently loaded in an analysis session.
// The dataset itself is read-mostly; the store guards the swap.
type Store struct {
	mu      sync.RWMutex
	current *Dataset
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the current dataset.
func (s *Store) Set(d *Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = d
}

// Current returns the loaded dataset, or ErrDatasetNotLoaded.
func (s *Store) Current() (*Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, errors.ErrDatasetNotLoaded
	}
	return s.current, nil
}
