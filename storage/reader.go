package storage

import (
	"path/filepath"
	"strings"
)

// NewListingReader picks a reader from the file extension: .xlsx and
// .xlsm go through excelize, everything else is read as delimited text.
func NewListingReader(path string) ListingReader {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return NewXLSXReader(path)
	default:
		return NewCSVReader(path)
	}
}
