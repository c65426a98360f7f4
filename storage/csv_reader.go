package storage

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"earring-market/models"
)

// CSVReader loads raw listings from a delimited export.
type CSVReader struct {
	path  string
	comma rune
}

// NewCSVReader creates a reader for path. Files ending in .tsv are tab-separated.
func NewCSVReader(path string) *CSVReader {
	comma := ','
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		comma = '\t'
	}
	return &CSVReader{path: path, comma: comma}
}

// Read parses the header and every non-empty data row.
func (r *CSVReader) Read() ([]*models.RawListing, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, &models.InputError{Path: r.path, Err: eris.Wrap(err, "csv: open")}
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = r.comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &models.InputError{Path: r.path, Err: eris.New("csv: file is empty")}
	}
	if err != nil {
		return nil, &models.InputError{Path: r.path, Err: eris.Wrap(err, "csv: read header")}
	}

	idx, err := mapColumns(r.path, header)
	if err != nil {
		return nil, err
	}

	var rows []*models.RawListing
	rowNum := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &models.InputError{Path: r.path, Err: eris.Wrapf(err, "csv: read row %d", rowNum+1)}
		}
		rowNum++
		if isEmptyRow(record) {
			continue
		}
		rows = append(rows, rowToRaw(rowNum, record, idx))
	}
	return rows, nil
}
