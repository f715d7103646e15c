package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minerva/pkg/errors"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, "name,mass (g),Year,recclass\nAachen,21,1880,L5\nAarhus,720,1951,H6\nAbee,107000,1952,EH4\n")

	d, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "mass (g)", "Year", "recclass"}, d.Headers())
	assert.Equal(t, 3, d.NumRows())

	raw, ok := d.ColumnMap().Resolve("mass_g")
	require.True(t, ok)
	assert.Equal(t, "mass (g)", raw)
}

func TestLoad_SemicolonDelimiter(t *testing.T) {
	path := writeCSV(t, "a;b;c\n1;2;3\n")

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, d.Headers())
	assert.Equal(t, 1, d.NumRows())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestLoad_PadsShortRows(t *testing.T) {
	path := writeCSV(t, "a,b,c\n1,2\n")

	d, err := Load(path)
	require.NoError(t, err)

	col, err := d.Column("c")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, col)
}

func TestColumn_ByCanonicalName(t *testing.T) {
	d := New("t", []string{"Mass (g)", "Year"}, [][]string{{"21", "1880"}, {"720", "1951"}})

	col, err := d.Column("mass_g")
	require.NoError(t, err)
	assert.Equal(t, []string{"21", "720"}, col)

	_, err = d.Column("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrColumnNotFound))
}

func TestAddColumn(t *testing.T) {
	d := New("t", []string{"recclass"}, [][]string{{"L6"}, {"Iron"}})

	require.NoError(t, d.AddColumn("recclass_clean", []string{"Chondrite (Ordinary)", "Iron"}))

	col, err := d.Column("recclass_clean")
	require.NoError(t, err)
	assert.Equal(t, []string{"Chondrite (Ordinary)", "Iron"}, col)

	// Derived column is resolvable through the refreshed column map.
	_, ok := d.ColumnMap().Resolve("recclass_clean")
	assert.True(t, ok)

	assert.Error(t, d.AddColumn("bad", []string{"only one"}))
}

func TestSummary(t *testing.T) {
	d := New("t",
		[]string{"mass (g)", "recclass", "notes"},
		[][]string{
			{"21", "L5", "first find"},
			{"720", "H6", "second find near the river"},
			{"", "L5", "third"},
		})

	sums := d.Summary()
	require.Len(t, sums, 3)

	mass := sums[0]
	assert.Equal(t, "mass_g", mass.Canonical)
	assert.Equal(t, KindNumeric, mass.Kind)
	assert.Equal(t, 1, mass.Missing)
	assert.InDelta(t, 21.0, mass.Min, 1e-9)
	assert.InDelta(t, 720.0, mass.Max, 1e-9)
	assert.InDelta(t, 370.5, mass.Mean, 1e-9)

	class := sums[1]
	assert.Equal(t, KindCategorical, class.Kind)
	assert.Equal(t, 2, class.Unique)
}

func TestSave_KeepsDelimiter(t *testing.T) {
	path := writeCSV(t, "a;b\n1;2\n")

	d, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, d.AddColumn("c", []string{"3"}))
	require.NoError(t, d.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a;b;c\n1;2;3\n", string(raw))

	// Round-trip: the saved file loads back with the same delimiter.
	d2, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, d2.Headers())
}

func TestDescribe(t *testing.T) {
	d := New("meteorites.csv",
		[]string{"mass (g)", "recclass"},
		[][]string{{"21", "L5"}, {"720", "H6"}})

	text := d.Describe()
	assert.Contains(t, text, "meteorites.csv: 2 rows x 2 columns")
	assert.Contains(t, text, "mass (g) (numeric)")
	assert.Contains(t, text, "recclass (categorical)")
}

func TestStore(t *testing.T) {
	s := NewStore()

	_, err := s.Current()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDatasetNotLoaded))

	d := New("t", []string{"a"}, nil)
	s.Set(d)

	got, err := s.Current()
	require.NoError(t, err)
	assert.Same(t, d, got)
}
