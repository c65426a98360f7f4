package models

import (
	"fmt"
	"math"
	"time"
)

// Item types, in classification priority order.
const (
	ItemStud       = "Stud"
	ItemHoop       = "Hoop"
	ItemDrop       = "Drop/Dangle"
	ItemClipOn     = "Clip-on"
	ItemHuggie     = "Huggie"
	ItemThreader   = "Threader"
	ItemEarCuff    = "Ear Cuff"
	ItemLeverback  = "Leverback"
	ItemChandelier = "Chandelier"
	ItemOther      = "Other"
)

// Brand categories.
const (
	CategoryHighBrand = "HighBrand"
	CategoryDesigner  = "Designer"
	CategoryCharacter = "Character"
	CategoryNoBrand   = "NoBrand"
	CategoryOther     = "Other"
)

// BrandCategories is the display order used by the dashboard.
var BrandCategories = []string{
	CategoryHighBrand, CategoryNoBrand, CategoryDesigner, CategoryCharacter, CategoryOther,
}

// GroupStats summarises the listings that share one aggregation key.
type GroupStats struct {
	Key                   string
	Count                 int
	UnitsSold             int
	Revenue               float64
	MeanPrice             float64
	MedianPrice           float64
	MinPrice              float64
	MaxPrice              float64
	CV                    float64
	MedianPurchaseCeiling float64
}

// Share returns this group's units as a percentage of total.
func (g GroupStats) Share(total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(g.UnitsSold) / float64(total) * 100
}

// BrandStats is a brand's group statistics plus ranking data.
type BrandStats struct {
	GroupStats
	Category  string
	Score     float64
	Stability string
}

// PriceTier is a half-open price bin [Min, Max). Max is +Inf for the last tier.
type PriceTier struct {
	Label string
	Min   float64
	Max   float64
}

// Contains reports whether price falls inside the tier.
func (t PriceTier) Contains(price float64) bool {
	return price >= t.Min && price < t.Max
}

// PriceTiers are the eleven fixed bins every histogram is built over.
var PriceTiers = buildTiers([]float64{0, 50, 100, 150, 200, 250, 300, 400, 500, 700, 1000})

func buildTiers(bounds []float64) []PriceTier {
	tiers := make([]PriceTier, 0, len(bounds))
	for i, lo := range bounds {
		if i == len(bounds)-1 {
			tiers = append(tiers, PriceTier{Label: fmt.Sprintf("$%.0f+", lo), Min: lo, Max: math.Inf(1)})
			break
		}
		hi := bounds[i+1]
		tiers = append(tiers, PriceTier{Label: fmt.Sprintf("$%.0f-%.0f", lo, hi-1), Min: lo, Max: hi})
	}
	return tiers
}

// TierCount is one bar of a price-tier histogram.
type TierCount struct {
	Tier  PriceTier
	Count int
}

// MonthlyRow holds one calendar month ("2006-01"): group statistics per
// item type sold that month plus the unit totals the trend chart plots.
type MonthlyRow struct {
	Month           string
	ItemTypes       map[string]GroupStats
	UnitsByItemType map[string]int
	TotalUnits      int
}

// SubsetSection describes a flag-selected slice of the table (novelty, bulk).
type SubsetSection struct {
	Stats    GroupStats
	TopItems []*Listing
}

// ItemTypeSection is the per item type deep-dive.
type ItemTypeSection struct {
	ItemType string
	Stats    GroupStats
	Brands   []BrandStats
}

// BrandProfile is the deep-dive for one focus brand.
type BrandProfile struct {
	Name           string
	Category       string
	Stats          GroupStats
	Stability      string
	NoveltyPremium float64
	BoxPremium     float64
	Tiers          []TierCount
	TopItems       []*Listing
	Motifs         []GroupStats
}

// InsightReport holds everything the dashboard renders.
type InsightReport struct {
	ID          string
	GeneratedAt time.Time
	SourcePath  string
	Pricing     Pricing

	TotalListings int
	PeriodStart   time.Time
	PeriodEnd     time.Time

	Overall         GroupStats
	ItemTypes       []GroupStats
	BrandCategories []GroupStats
	Materials       []GroupStats
	Tiers           []TierCount
	TierStats       []GroupStats
	Monthly         []MonthlyRow

	// AllBrands has one entry per resolved brand, the unknown sentinel
	// included, ranked by units. Brands is its leaderboard cut.
	AllBrands       []BrandStats
	Brands          []BrandStats
	Recommendations []BrandStats
	ItemTypeDetails []ItemTypeSection
	Novelty         SubsetSection
	Bulk            SubsetSection
	FocusBrands     []BrandProfile
}
