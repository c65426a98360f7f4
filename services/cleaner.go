package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/rotisserie/eris"

	"earring-market/models"
	"earring-market/utils"
)

var (
	// priceRegexp captures a plain decimal after currency symbols and separators are removed
	priceRegexp = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	// unitsRegexp accepts non-negative integers and decimals; decimals truncate
	unitsRegexp = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
)

// saleDateLayouts are tried in order against the sale date cell.
var saleDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006/1/2",
	"2006-1-2",
	"01/02/2006",
	"2006年1月2日",
}

// Cleaner transforms RawListings into typed Listings.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// Clean converts every raw row. A price that cannot be parsed aborts the
// whole run with a DataFormatError; bad unit counts are coerced to 1 and
// bad dates are left zero.
func (c *Cleaner) Clean(raw []*models.RawListing) ([]*models.Listing, error) {
	result := make([]*models.Listing, 0, len(raw))
	var coercedUnits, missingDates int

	for _, r := range raw {
		price, err := c.parsePrice(r.RawPrice)
		if err != nil {
			return nil, &models.DataFormatError{Row: r.Row, Field: "price", Value: r.RawPrice, Err: err}
		}

		units, ok := c.parseUnits(r.RawUnits)
		if !ok {
			coercedUnits++
			c.logger.Debug("[cleaner] Row %d: units %q coerced to 1", r.Row, r.RawUnits)
		}

		saleDate, ok := c.parseSaleDate(r.RawSaleAt)
		if !ok {
			missingDates++
		}

		result = append(result, &models.Listing{
			Row:         r.Row,
			Title:       normaliseText(r.Title),
			SourceBrand: normaliseText(r.Brand),
			Price:       price,
			UnitsSold:   units,
			SaleDate:    saleDate,
		})
	}

	if coercedUnits > 0 {
		c.logger.Warn("[cleaner] %d rows had non-numeric units sold, counted as 1", coercedUnits)
	}
	if missingDates > 0 {
		c.logger.Warn("[cleaner] %d rows have no usable sale date", missingDates)
	}
	c.logger.Info("[cleaner] Cleaned %d listings", len(result))
	return result, nil
}

// parsePrice reads a non-negative USD amount such as "120", "$1,200.50" or "USD 99".
func (c *Cleaner) parsePrice(raw string) (float64, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.TrimPrefix(s, "USD")
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
	if s == "" {
		return 0, eris.New("empty price")
	}
	if !priceRegexp.MatchString(s) {
		return 0, eris.New("not a non-negative number")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrap(err, "parse price")
	}
	return v, nil
}

// parseUnits returns the unit count and whether the cell was numeric.
// Anything else counts as one unit sold.
func (c *Cleaner) parseUnits(raw string) (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if !unitsRegexp.MatchString(s) {
		return 1, false
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 1, false
	}
	return n, true
}

// parseSaleDate tries each known layout; false means the cell is unusable.
func (c *Cleaner) parseSaleDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
