package storage

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"earring-market/models"
)

// XLSXReader loads raw listings from the first sheet of a workbook.
type XLSXReader struct {
	path string
}

func NewXLSXReader(path string) *XLSXReader {
	return &XLSXReader{path: path}
}

// Read parses the header and every non-empty data row of the first sheet.
func (r *XLSXReader) Read() ([]*models.RawListing, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, &models.InputError{Path: r.path, Err: eris.Wrap(err, "xlsx: open")}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &models.InputError{Path: r.path, Err: eris.New("xlsx: workbook has no sheets")}
	}

	// Raw values keep date cells as serial numbers instead of their display format.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &models.InputError{Path: r.path, Err: eris.Wrapf(err, "xlsx: read sheet %s", sheets[0])}
	}
	if len(rows) == 0 {
		return nil, &models.InputError{Path: r.path, Err: eris.New("xlsx: sheet is empty")}
	}

	idx, err := mapColumns(r.path, rows[0])
	if err != nil {
		return nil, err
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	var out []*models.RawListing
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		raw := rowToRaw(i+1, row, idx)
		raw.RawSaleAt = serialToDate(raw.RawSaleAt, date1904)
		out = append(out, raw)
	}
	return out, nil
}

// serialToDate rewrites an Excel date serial as "2006-01-02" (or with the
// time of day when it has one). Any other cell is returned unchanged.
func serialToDate(cell string, date1904 bool) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || serial <= 0 {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return cell
	}
	t = t.Round(time.Second)
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
