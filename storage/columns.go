package storage

import (
	"strings"

	"earring-market/models"
)

// Canonical column keys.
const (
	colTitle    = "title"
	colBrand    = "brand"
	colPrice    = "price"
	colUnits    = "units"
	colSaleDate = "sale_date"
)

// requiredColumns lists every column the loader needs, in report order.
var requiredColumns = []string{colTitle, colBrand, colPrice, colUnits, colSaleDate}

// columnAliases maps accepted header spellings to canonical keys.
var columnAliases = map[string][]string{
	colTitle:    {"タイトル", "title", "item title", "name"},
	colBrand:    {"ブランド", "brand"},
	colPrice:    {"価格", "price", "sold price", "price (usd)"},
	colUnits:    {"販売数", "units sold", "units", "quantity", "qty", "sold"},
	colSaleDate: {"販売日", "sale date", "sold date", "date"},
}

// mapColumns resolves the header row to column indexes. The first header
// matching an alias wins.
func mapColumns(path string, header []string) (map[string]int, error) {
	lookup := make(map[string]string)
	for key, aliases := range columnAliases {
		for _, a := range aliases {
			lookup[normaliseHeader(a)] = key
		}
	}

	idx := make(map[string]int)
	for i, h := range header {
		key, ok := lookup[normaliseHeader(h)]
		if !ok {
			continue
		}
		if _, seen := idx[key]; !seen {
			idx[key] = i
		}
	}

	for _, key := range requiredColumns {
		if _, ok := idx[key]; !ok {
			return nil, &models.InputError{Path: path, Column: columnAliases[key][0]}
		}
	}
	return idx, nil
}

func normaliseHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ReplaceAll(h, "_", " ")
	return strings.ToLower(strings.TrimSpace(h))
}

// rowToRaw picks the mapped cells out of one record. Short rows yield empty cells.
func rowToRaw(rowNum int, record []string, idx map[string]int) *models.RawListing {
	cell := func(key string) string {
		i := idx[key]
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	return &models.RawListing{
		Row:       rowNum,
		Title:     cell(colTitle),
		Brand:     cell(colBrand),
		RawPrice:  cell(colPrice),
		RawUnits:  cell(colUnits),
		RawSaleAt: cell(colSaleDate),
	}
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
