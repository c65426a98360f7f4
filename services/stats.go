package services

import (
	"math"
	"sort"

	"earring-market/models"
)

// ComputeStats summarises listings under key. An empty slice yields a
// zeroed record carrying only the key.
func ComputeStats(key string, listings []*models.Listing) models.GroupStats {
	s := models.GroupStats{Key: key}
	if len(listings) == 0 {
		return s
	}

	prices := make([]float64, len(listings))
	ceilings := make([]float64, len(listings))
	s.MinPrice = listings[0].Price
	s.MaxPrice = listings[0].Price
	var total float64
	for i, l := range listings {
		prices[i] = l.Price
		ceilings[i] = l.PurchaseCeiling
		total += l.Price
		s.UnitsSold += l.UnitsSold
		s.Revenue += l.Revenue
		if l.Price < s.MinPrice {
			s.MinPrice = l.Price
		}
		if l.Price > s.MaxPrice {
			s.MaxPrice = l.Price
		}
	}

	s.Count = len(listings)
	s.MeanPrice = total / float64(len(listings))
	s.MedianPrice = Median(prices)
	s.CV = CoefficientOfVariation(prices)
	s.MedianPurchaseCeiling = Median(ceilings)
	return s
}

// Median of values; 0 for an empty slice. The input is not modified.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// CoefficientOfVariation is the sample standard deviation over the mean.
// It is 0 for fewer than two values or a zero mean.
func CoefficientOfVariation(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)
	if mean == 0 {
		return 0
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq/float64(n-1)) / mean
}

// Group is one aggregation key and its listings.
type Group struct {
	Key      string
	Listings []*models.Listing
}

// GroupBy partitions listings by key, keeping keys in first-seen order.
func GroupBy(listings []*models.Listing, key func(*models.Listing) string) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, l := range listings {
		k := key(l)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k})
		}
		groups[i].Listings = append(groups[i].Listings, l)
	}
	return groups
}

// StatsForKeys computes stats for each key in order, zeroed when absent.
func StatsForKeys(listings []*models.Listing, keys []string, key func(*models.Listing) string) []models.GroupStats {
	byKey := make(map[string][]*models.Listing)
	for _, g := range GroupBy(listings, key) {
		byKey[g.Key] = g.Listings
	}
	out := make([]models.GroupStats, 0, len(keys))
	for _, k := range keys {
		out = append(out, ComputeStats(k, byKey[k]))
	}
	return out
}

// Filter returns the listings for which keep is true.
func Filter(listings []*models.Listing, keep func(*models.Listing) bool) []*models.Listing {
	var out []*models.Listing
	for _, l := range listings {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

// TierOf returns the index of the fixed price tier holding price.
func TierOf(price float64) int {
	for i, t := range models.PriceTiers {
		if t.Contains(price) {
			return i
		}
	}
	return 0
}

// TierHistogram counts listings per fixed price tier. Every tier is
// present, including those with no listings.
func TierHistogram(listings []*models.Listing) []models.TierCount {
	out := make([]models.TierCount, len(models.PriceTiers))
	for i, t := range models.PriceTiers {
		out[i].Tier = t
	}
	for _, l := range listings {
		out[TierOf(l.Price)].Count++
	}
	return out
}

// TierStats computes group statistics per fixed price tier.
func TierStats(listings []*models.Listing) []models.GroupStats {
	buckets := make([][]*models.Listing, len(models.PriceTiers))
	for _, l := range listings {
		i := TierOf(l.Price)
		buckets[i] = append(buckets[i], l)
	}
	out := make([]models.GroupStats, len(models.PriceTiers))
	for i, t := range models.PriceTiers {
		out[i] = ComputeStats(t.Label, buckets[i])
	}
	return out
}

// Premium is the percentage median-price uplift of flagged listings over
// the rest. It is 0 when either side has fewer than two listings or the
// unflagged median is 0.
func Premium(listings []*models.Listing, flag func(*models.Listing) bool) float64 {
	var with, without []float64
	for _, l := range listings {
		if flag(l) {
			with = append(with, l.Price)
		} else {
			without = append(without, l.Price)
		}
	}
	if len(with) < 2 || len(without) < 2 {
		return 0
	}
	base := Median(without)
	if base == 0 {
		return 0
	}
	return (Median(with) - base) / base * 100
}

// Stability maps a coefficient of variation to a star rating.
func Stability(cv float64) string {
	switch {
	case cv <= 0.3:
		return "★★★"
	case cv <= 0.5:
		return "★★☆"
	case cv <= 0.7:
		return "★☆☆"
	default:
		return "☆☆☆"
	}
}

// RankByUnits sorts brands by units sold, descending, then name ascending.
func RankByUnits(brands []models.BrandStats) {
	sort.SliceStable(brands, func(i, j int) bool {
		if brands[i].UnitsSold != brands[j].UnitsSold {
			return brands[i].UnitsSold > brands[j].UnitsSold
		}
		return brands[i].Key < brands[j].Key
	})
}

// RankByScore sorts brands by recommendation score, descending, then name ascending.
func RankByScore(brands []models.BrandStats) {
	sort.SliceStable(brands, func(i, j int) bool {
		if brands[i].Score != brands[j].Score {
			return brands[i].Score > brands[j].Score
		}
		return brands[i].Key < brands[j].Key
	})
}

// TopListings returns up to n listings ordered by units sold, descending.
// Ties keep input order.
func TopListings(listings []*models.Listing, n int) []*models.Listing {
	sorted := append([]*models.Listing(nil), listings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UnitsSold > sorted[j].UnitsSold
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// MonthlyItemTypes computes group statistics per calendar month and item
// type. Listings without a sale date are left out. Months are ascending.
func MonthlyItemTypes(listings []*models.Listing) []models.MonthlyRow {
	byMonth := GroupBy(Filter(listings, func(l *models.Listing) bool { return l.HasSaleDate() }),
		func(l *models.Listing) string { return l.SaleDate.Format("2006-01") })

	out := make([]models.MonthlyRow, 0, len(byMonth))
	for _, m := range byMonth {
		row := models.MonthlyRow{
			Month:           m.Key,
			ItemTypes:       make(map[string]models.GroupStats),
			UnitsByItemType: make(map[string]int),
		}
		for _, g := range GroupBy(m.Listings, func(l *models.Listing) string { return l.ItemType }) {
			st := ComputeStats(g.Key, g.Listings)
			row.ItemTypes[g.Key] = st
			row.UnitsByItemType[g.Key] = st.UnitsSold
			row.TotalUnits += st.UnitsSold
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
