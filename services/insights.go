package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"earring-market/models"
	"earring-market/utils"
)

// InsightOptions bounds the ranked tables in a report.
type InsightOptions struct {
	TopBrands          int
	TopRecommendations int
	TopItems           int
	TopNovelty         int
}

// DefaultInsightOptions mirrors the dashboard's usual table sizes.
func DefaultInsightOptions() InsightOptions {
	return InsightOptions{TopBrands: 30, TopRecommendations: 20, TopItems: 15, TopNovelty: 20}
}

// InsightService aggregates derived listings into an InsightReport.
type InsightService struct {
	logger  *utils.Logger
	rules   *Rules
	pricing models.Pricing
	opts    InsightOptions
	now     func() time.Time
}

func NewInsightService(logger *utils.Logger, rules *Rules, pricing models.Pricing, opts InsightOptions) *InsightService {
	return &InsightService{logger: logger, rules: rules, pricing: pricing, opts: opts, now: time.Now}
}

// Generate builds the full report. It never fails: empty input produces a
// report with zeroed statistics.
func (s *InsightService) Generate(listings []*models.Listing, sourcePath string) *models.InsightReport {
	report := &models.InsightReport{
		ID:            uuid.NewString(),
		GeneratedAt:   s.now(),
		SourcePath:    sourcePath,
		Pricing:       s.pricing,
		TotalListings: len(listings),
	}

	report.PeriodStart, report.PeriodEnd = period(listings)
	report.Overall = ComputeStats("All", listings)
	report.ItemTypes = StatsForKeys(listings, s.rules.ItemTypes.Labels(), func(l *models.Listing) string { return l.ItemType })
	report.BrandCategories = StatsForKeys(listings, models.BrandCategories, func(l *models.Listing) string { return l.BrandCategory })
	report.Materials = StatsForKeys(listings, s.rules.Materials.Labels(), func(l *models.Listing) string { return l.Material })
	report.Tiers = TierHistogram(listings)
	report.TierStats = TierStats(listings)
	report.Monthly = MonthlyItemTypes(listings)

	report.AllBrands = groupBrands(listings)
	RankByUnits(report.AllBrands)
	known := s.knownBrands(report.AllBrands)
	report.Brands = limitBrands(known, s.opts.TopBrands)

	recs := append([]models.BrandStats(nil), known...)
	RankByScore(recs)
	report.Recommendations = limitBrands(recs, s.opts.TopRecommendations)

	report.ItemTypeDetails = s.itemTypeDetails(listings)

	novelty := Filter(listings, func(l *models.Listing) bool { return l.IsNovelty })
	report.Novelty = models.SubsetSection{
		Stats:    ComputeStats("Novelty", novelty),
		TopItems: TopListings(novelty, s.opts.TopNovelty),
	}
	bulk := Filter(listings, func(l *models.Listing) bool { return l.IsBulk })
	report.Bulk = models.SubsetSection{
		Stats:    ComputeStats("Bulk", bulk),
		TopItems: TopListings(bulk, s.opts.TopItems),
	}

	report.FocusBrands = s.focusBrands(listings)

	s.logger.Info("[insights] Aggregated %d listings into %d brands, %d months",
		len(listings), len(report.AllBrands), len(report.Monthly))
	return report
}

// brandStats computes stats for every resolved brand, unknown excluded.
func (s *InsightService) brandStats(listings []*models.Listing) []models.BrandStats {
	return s.knownBrands(groupBrands(listings))
}

func (s *InsightService) knownBrands(brands []models.BrandStats) []models.BrandStats {
	out := make([]models.BrandStats, 0, len(brands))
	for _, b := range brands {
		if b.Key != "" && b.Key != s.rules.UnknownBrand {
			out = append(out, b)
		}
	}
	return out
}

// groupBrands computes stats for every resolved brand, unknown included,
// in first-seen order.
func groupBrands(listings []*models.Listing) []models.BrandStats {
	groups := GroupBy(listings, func(l *models.Listing) string { return l.Brand })

	out := make([]models.BrandStats, 0, len(groups))
	for _, g := range groups {
		st := ComputeStats(g.Key, g.Listings)
		out = append(out, models.BrandStats{
			GroupStats: st,
			Category:   g.Listings[0].BrandCategory,
			Score:      float64(st.UnitsSold) * st.MedianPrice,
			Stability:  Stability(st.CV),
		})
	}
	return out
}

func (s *InsightService) itemTypeDetails(listings []*models.Listing) []models.ItemTypeSection {
	var out []models.ItemTypeSection
	for _, itemType := range s.rules.ItemTypeSections {
		subset := Filter(listings, func(l *models.Listing) bool { return l.ItemType == itemType })
		if len(subset) == 0 {
			continue
		}
		brands := s.brandStats(subset)
		RankByUnits(brands)
		out = append(out, models.ItemTypeSection{
			ItemType: itemType,
			Stats:    ComputeStats(itemType, subset),
			Brands:   limitBrands(brands, s.opts.TopItems),
		})
	}
	return out
}

func (s *InsightService) focusBrands(listings []*models.Listing) []models.BrandProfile {
	var out []models.BrandProfile
	for _, fb := range s.rules.FocusBrands {
		subset := Filter(listings, func(l *models.Listing) bool { return fb.Selects(l.Brand) })
		if len(subset) == 0 {
			continue
		}
		st := ComputeStats(fb.Name, subset)
		profile := models.BrandProfile{
			Name:           fb.Name,
			Category:       subset[0].BrandCategory,
			Stats:          st,
			Stability:      Stability(st.CV),
			NoveltyPremium: Premium(subset, func(l *models.Listing) bool { return l.IsNovelty }),
			BoxPremium:     Premium(subset, func(l *models.Listing) bool { return l.HasBox }),
			Tiers:          TierHistogram(subset),
			TopItems:       TopListings(subset, s.opts.TopItems),
		}
		if fb.Motifs != nil {
			profile.Motifs = motifStats(subset, *fb.Motifs)
		}
		out = append(out, profile)
	}
	return out
}

// motifStats groups a brand's listings by title motif, most units first.
func motifStats(listings []*models.Listing, table RuleTable) []models.GroupStats {
	groups := GroupBy(listings, func(l *models.Listing) string {
		return table.Classify(strings.ToUpper(l.Title))
	})
	brands := make([]models.BrandStats, 0, len(groups))
	for _, g := range groups {
		brands = append(brands, models.BrandStats{GroupStats: ComputeStats(g.Key, g.Listings)})
	}
	RankByUnits(brands)
	out := make([]models.GroupStats, len(brands))
	for i, b := range brands {
		out[i] = b.GroupStats
	}
	return out
}

func period(listings []*models.Listing) (start, end time.Time) {
	for _, l := range listings {
		if !l.HasSaleDate() {
			continue
		}
		if start.IsZero() || l.SaleDate.Before(start) {
			start = l.SaleDate
		}
		if end.IsZero() || l.SaleDate.After(end) {
			end = l.SaleDate
		}
	}
	return start, end
}

func limitBrands(brands []models.BrandStats, n int) []models.BrandStats {
	if n > 0 && len(brands) > n {
		return brands[:n]
	}
	return brands
}

// Print writes the run summary to stdout.
func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📊 EARRING MARKET INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Listings       : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Units sold     : \033[1m%d\033[0m\n", r.Overall.UnitsSold)
	fmt.Printf("  Revenue        : \033[1;32m$%.0f\033[0m\n", r.Overall.Revenue)
	if r.TotalListings > 0 {
		fmt.Printf("  Mean price     : \033[1;32m$%.2f\033[0m\n", r.Overall.MeanPrice)
		fmt.Printf("  Median price   : \033[1;32m$%.2f\033[0m\n", r.Overall.MedianPrice)
	}
	if !r.PeriodStart.IsZero() {
		fmt.Printf("  Period         : %s ~ %s\n", r.PeriodStart.Format("2006-01-02"), r.PeriodEnd.Format("2006-01-02"))
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Top Brands by Units Sold\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.Brands) == 0 {
		fmt.Printf("  No brand data\n")
	}
	for i, b := range r.Brands {
		if i == 10 {
			break
		}
		fmt.Printf("  \033[1m%2d.\033[0m %-28s %5d units  %s\n", i+1, truncate(b.Key, 28), b.UnitsSold, b.Stability)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Recommended Listing Order\033[0m\n")
	fmt.Printf("  %s\n", thin)
	for i, b := range r.Recommendations {
		if i == 5 {
			break
		}
		fmt.Printf("  \033[1m%d.\033[0m %-28s score %.0f\n", i+1, truncate(b.Key, 28), b.Score)
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
