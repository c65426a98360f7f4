package render

import (
	"fmt"
	"time"

	"earring-market/models"
)

// page is the template's view of a report.
type page struct {
	Report      *models.InsightReport
	GeneratedAt string
	Period      string
	Charts      chartData
	Categories  []categoryRow
	Focus       []focusTab
	ItemTypes   []itemTypeTab
	TopNovelty  []itemRow
}

type chartData struct {
	ItemTypeLabels []string       `json:"itemTypeLabels"`
	ItemTypeUnits  []int          `json:"itemTypeUnits"`
	CategoryLabels []string       `json:"categoryLabels"`
	CategoryUnits  []int          `json:"categoryUnits"`
	TierLabels     []string       `json:"tierLabels"`
	TierCounts     []int          `json:"tierCounts"`
	Months         []string       `json:"months"`
	MonthlySeries  []monthlyTrace `json:"monthlySeries"`
	FocusTiers     []focusTiers   `json:"focusTiers"`
}

type monthlyTrace struct {
	Name  string `json:"name"`
	Units []int  `json:"units"`
}

type focusTiers struct {
	ElementID string `json:"elementId"`
	Counts    []int  `json:"counts"`
}

type categoryRow struct {
	models.GroupStats
	Share float64
}

// itemRow is a listing with its floored purchase ceiling precomputed.
type itemRow struct {
	*models.Listing
	Ceiling float64
	CheckID string
}

type itemTypeTab struct {
	ID string
	models.ItemTypeSection
}

type focusTab struct {
	ID        string
	ChartID   string
	Profile   models.BrandProfile
	Items     []itemRow
	HasMotifs bool
}

func newPage(r *models.InsightReport) page {
	p := page{
		Report:      r,
		GeneratedAt: r.GeneratedAt.Format("2006-01-02 15:04:05"),
		Period:      formatPeriod(r.PeriodStart, r.PeriodEnd),
	}

	for _, g := range r.ItemTypes {
		p.Charts.ItemTypeLabels = append(p.Charts.ItemTypeLabels, g.Key)
		p.Charts.ItemTypeUnits = append(p.Charts.ItemTypeUnits, g.UnitsSold)
	}
	for _, g := range r.BrandCategories {
		p.Charts.CategoryLabels = append(p.Charts.CategoryLabels, g.Key)
		p.Charts.CategoryUnits = append(p.Charts.CategoryUnits, g.UnitsSold)
		if g.Count > 0 {
			p.Categories = append(p.Categories, categoryRow{GroupStats: g, Share: g.Share(r.Overall.UnitsSold)})
		}
	}
	for _, t := range r.Tiers {
		p.Charts.TierLabels = append(p.Charts.TierLabels, t.Tier.Label)
		p.Charts.TierCounts = append(p.Charts.TierCounts, t.Count)
	}
	p.Charts.Months, p.Charts.MonthlySeries = monthlyTraces(r.Monthly, p.Charts.ItemTypeLabels)

	for i, s := range r.ItemTypeDetails {
		p.ItemTypes = append(p.ItemTypes, itemTypeTab{ID: fmt.Sprintf("type-%d", i), ItemTypeSection: s})
	}

	p.TopNovelty = itemRows(r.Novelty.TopItems, r.Pricing, "novelty")

	for i, fp := range r.FocusBrands {
		id := fmt.Sprintf("brand-%d", i)
		tab := focusTab{
			ID:        id,
			ChartID:   id + "-tiers",
			Profile:   fp,
			Items:     itemRows(fp.TopItems, r.Pricing, id),
			HasMotifs: len(fp.Motifs) > 0,
		}
		counts := make([]int, len(fp.Tiers))
		for j, t := range fp.Tiers {
			counts[j] = t.Count
		}
		p.Charts.FocusTiers = append(p.Charts.FocusTiers, focusTiers{ElementID: tab.ChartID, Counts: counts})
		p.Focus = append(p.Focus, tab)
	}
	return p
}

func itemRows(listings []*models.Listing, pricing models.Pricing, prefix string) []itemRow {
	rows := make([]itemRow, len(listings))
	for i, l := range listings {
		rows[i] = itemRow{
			Listing: l,
			Ceiling: float64(pricing.FlooredCeiling(l.Price)),
			CheckID: fmt.Sprintf("%s-%d", prefix, l.Row),
		}
	}
	return rows
}

// monthlyTraces turns monthly rows into one series per item type that sold.
func monthlyTraces(rows []models.MonthlyRow, itemTypes []string) ([]string, []monthlyTrace) {
	months := make([]string, len(rows))
	for i, r := range rows {
		months[i] = r.Month
	}
	var traces []monthlyTrace
	for _, it := range itemTypes {
		units := make([]int, len(rows))
		var total int
		for i, r := range rows {
			units[i] = r.UnitsByItemType[it]
			total += units[i]
		}
		if total > 0 {
			traces = append(traces, monthlyTrace{Name: it, Units: units})
		}
	}
	return months, traces
}

func formatPeriod(start, end time.Time) string {
	if start.IsZero() {
		return "n/a"
	}
	return start.Format("2006-01-02") + " ~ " + end.Format("2006-01-02")
}
