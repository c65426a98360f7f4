package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earring-market/models"
	"earring-market/utils"
)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

func TestCleanerParsePrice(t *testing.T) {
	c := NewCleaner(newTestLogger())

	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"120", 120, false},
		{"$1,200.50", 1200.50, false},
		{"USD 99", 99, false},
		{" 0 ", 0, false},
		{"", 0, true},
		{"free", 0, true},
		{"-5", 0, true},
		{"12.5.3", 0, true},
	}

	for _, tt := range tests {
		got, err := c.parsePrice(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "parsePrice(%q)", tt.raw)
			continue
		}
		require.NoError(t, err, "parsePrice(%q)", tt.raw)
		assert.InDelta(t, tt.want, got, 1e-9, "parsePrice(%q)", tt.raw)
	}
}

func TestCleanerParseUnits(t *testing.T) {
	c := NewCleaner(newTestLogger())

	tests := []struct {
		raw    string
		want   int
		wantOk bool
	}{
		{"3", 3, true},
		{"1,200", 1200, true},
		{"2.0", 2, true},
		{"0", 0, true},
		{"", 1, false},
		{"many", 1, false},
		{"2.5", 2, true},
		{"0.9", 0, true},
		{"-1", 1, false},
	}

	for _, tt := range tests {
		got, ok := c.parseUnits(tt.raw)
		assert.Equal(t, tt.want, got, "parseUnits(%q)", tt.raw)
		assert.Equal(t, tt.wantOk, ok, "parseUnits(%q)", tt.raw)
	}
}

func TestCleanerParseSaleDate(t *testing.T) {
	c := NewCleaner(newTestLogger())

	got, ok := c.parseSaleDate("2024-03-15")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got)

	got, ok = c.parseSaleDate("2024/3/5")
	require.True(t, ok)
	assert.Equal(t, time.March, got.Month())

	_, ok = c.parseSaleDate("")
	assert.False(t, ok)
	_, ok = c.parseSaleDate("last tuesday")
	assert.False(t, ok)
}

func TestCleanerClean(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawListing{
		{Row: 1, Title: "  CHANEL   GOLD STUD ", Brand: " CHANEL ", RawPrice: "$120", RawUnits: "x", RawSaleAt: "2024-01-02"},
		{Row: 2, Title: "HOOP", RawPrice: "40", RawUnits: "3", RawSaleAt: "bad"},
	}

	got, err := c.Clean(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "CHANEL GOLD STUD", got[0].Title)
	assert.Equal(t, "CHANEL", got[0].SourceBrand)
	assert.Equal(t, 1, got[0].UnitsSold)
	assert.True(t, got[0].HasSaleDate())

	assert.Equal(t, 3, got[1].UnitsSold)
	assert.False(t, got[1].HasSaleDate())
	assert.Equal(t, 2, got[1].Row)
}

func TestCleanerBadPriceIsDataFormatError(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawListing{
		{Row: 1, Title: "ok", RawPrice: "10"},
		{Row: 7, Title: "broken", RawPrice: "n/a"},
	}

	_, err := c.Clean(raw)
	require.Error(t, err)

	var dfe *models.DataFormatError
	require.True(t, errors.As(err, &dfe))
	assert.Equal(t, 7, dfe.Row)
	assert.Equal(t, "price", dfe.Field)
	assert.Equal(t, "n/a", dfe.Value)
	assert.Contains(t, err.Error(), "row 7")
}

func TestNormaliseText(t *testing.T) {
	assert.Equal(t, "a b c", normaliseText("  a \t b\n c  "))
	assert.Equal(t, "", normaliseText("   "))
}
