package models

import (
	"math"
	"time"
)

// UnknownBrand is the sentinel the source export uses for a missing brand.
// Resolution leaves a listing with this value when nothing matches.
const UnknownBrand = "(不明)"

// RawListing holds one unprocessed input row, cell by cell.
// Row is the 1-based data row number (header excluded) for error messages.
type RawListing struct {
	Row       int
	Title     string
	Brand     string
	RawPrice  string
	RawUnits  string
	RawSaleAt string
}

// Listing is a typed sale record plus the fields derived from it.
// Source fields are set by the cleaner; Derived is filled once by the deriver.
type Listing struct {
	Row         int
	Title       string
	SourceBrand string
	Price       float64
	UnitsSold   int
	SaleDate    time.Time

	Derived
}

// Derived holds every field computed from a listing's own title and brand.
type Derived struct {
	Brand           string
	BrandCategory   string
	ItemType        string
	Material        string
	IsBulk          bool
	IsNovelty       bool
	HasBox          bool
	Revenue         float64
	PurchaseCeiling float64
}

// HasSaleDate reports whether the sale date column parsed.
func (l *Listing) HasSaleDate() bool {
	return !l.SaleDate.IsZero()
}

// Pricing carries the purchase-ceiling constants. It is passed by value
// and never changed after startup.
type Pricing struct {
	ExchangeRate float64
	ShippingJPY  float64
	FeeRate      float64
}

// PurchaseCeiling is the highest JPY acquisition cost that still clears
// fees and shipping when the item resells at price (USD).
func (p Pricing) PurchaseCeiling(price float64) float64 {
	return price*p.ExchangeRate*(1-p.FeeRate) - p.ShippingJPY
}

// FlooredCeiling is the integer yen figure shown in the dashboard.
// The in-page recalculation uses the same expression with Math.floor.
func (p Pricing) FlooredCeiling(price float64) int64 {
	return int64(math.Floor(p.PurchaseCeiling(price)))
}

// FeePercent is the fee rate as the percent shown in the controls. Only float
// noise is rounded away (0.07 gives 7, 0.123456 gives 12.3456).
func (p Pricing) FeePercent() float64 {
	return math.Round(p.FeeRate*1e12) / 1e10
}
