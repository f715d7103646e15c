package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"minerva/pkg/errors"
)

// Load reads a CSV file into memory. The delimiter is auto-detected among
// comma, semicolon and tab from the header line. Short rows are padded so
// every row has one cell per header.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "dataset %s", path)
		}
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()

	sep := sniffDelimiter(path)
	r := csv.NewReader(f)
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "dataset %s is empty", path)
		}
		return nil, errors.Wrapf(err, "read header of %s", path)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errors.Wrapf(err, "read row %d of %s", len(rows)+2, path)
		}
		row := make([]string, len(header))
		copy(row, rec)
		rows = append(rows, row)
	}

	d := New(filepath.Base(path), header, rows)
	d.Path = path
	d.sep = sep
	return d, nil
}

// Save writes the dataset back to its source file, keeping the delimiter
// detected at load time, so external collaborators see columns appended by
// cleaning passes.
func (d *Dataset) Save() error {
	if d.Path == "" {
		return errors.Wrap(errors.ErrInvalidInput, "dataset has no backing file")
	}

	f, err := os.Create(d.Path)
	if err != nil {
		return errors.Wrapf(err, "write dataset %s", d.Path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if d.sep != 0 {
		w.Comma = d.sep
	}
	if err := w.Write(d.headers); err != nil {
		return errors.Wrapf(err, "write header of %s", d.Path)
	}
	for _, row := range d.rows {
		if err := w.Write(row); err != nil {
			return errors.Wrapf(err, "write row of %s", d.Path)
		}
	}
	w.Flush()
	return w.Error()
}

// sniffDelimiter picks the delimiter that splits the first line into the
// most fields.
func sniffDelimiter(path string) rune {
	f, err := os.Open(path)
	if err != nil {
		return ','
	}
	defer f.Close()

	buf := make([]byte, 4096)
	n, _ := f.Read(buf)
	line := string(buf[:n])
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	best, bestCount := ',', strings.Count(line, ",")
	for _, cand := range []rune{';', '\t'} {
		if c := strings.Count(line, string(cand)); c > bestCount {
			best, bestCount = cand, c
		}
	}
	return best
}
