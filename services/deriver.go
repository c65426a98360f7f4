package services

import (
	"strings"

	"earring-market/models"
	"earring-market/utils"
)

// Deriver attaches the derived fields to each listing. Every derivation
// reads only the listing's own title and brand plus the rule tables and
// pricing, so listings can be processed in any order.
type Deriver struct {
	rules   *Rules
	pricing models.Pricing
	logger  *utils.Logger
	workers int

	highBrands      []string
	designerBrands  []string
	characterBrands []string
	allBrands       []string
}

// NewDeriver creates a Deriver. workers bounds the goroutines used by Derive.
func NewDeriver(rules *Rules, pricing models.Pricing, logger *utils.Logger, workers int) *Deriver {
	return &Deriver{
		rules:           rules,
		pricing:         pricing,
		logger:          logger,
		workers:         workers,
		highBrands:      upperAll(rules.Brands.High),
		designerBrands:  upperAll(rules.Brands.Designer),
		characterBrands: upperAll(rules.Brands.Character),
		allBrands:       rules.Brands.All(),
	}
}

// Derive fills Derived on every listing and returns the same slice.
func (d *Deriver) Derive(listings []*models.Listing) []*models.Listing {
	pool := utils.NewWorkerPool(d.workers)
	for _, span := range utils.Chunks(len(listings), pool.Size()) {
		part := listings[span[0]:span[1]]
		pool.Submit(func() {
			for _, l := range part {
				l.Derived = d.DeriveOne(l)
			}
		})
	}
	pool.Wait()

	d.logger.Info("[deriver] Derived fields for %d listings using %d workers", len(listings), pool.Size())
	return listings
}

// DeriveOne computes the derived fields of a single listing.
func (d *Deriver) DeriveOne(l *models.Listing) models.Derived {
	upper := strings.ToUpper(l.Title)
	brand := d.ResolveBrand(l.SourceBrand, l.Title)
	return models.Derived{
		Brand:           brand,
		BrandCategory:   d.BrandCategory(brand),
		ItemType:        d.rules.ItemTypes.Classify(upper),
		Material:        d.rules.Materials.Classify(upper),
		IsBulk:          d.rules.Flags.Bulk.Matches(upper),
		IsNovelty:       d.rules.Flags.Novelty.Matches(upper),
		HasBox:          d.rules.Flags.Box.Matches(upper),
		Revenue:         l.Price * float64(l.UnitsSold),
		PurchaseCeiling: d.pricing.PurchaseCeiling(l.Price),
	}
}

// ItemType classifies a title; the first matching keyword group wins.
func (d *Deriver) ItemType(title string) string {
	return d.rules.ItemTypes.Classify(strings.ToUpper(title))
}

// Material classifies a title's material; the first matching rule wins.
func (d *Deriver) Material(title string) string {
	return d.rules.Materials.Classify(strings.ToUpper(title))
}

// IsUnknownBrand reports whether brand is empty or the unknown sentinel.
func (d *Deriver) IsUnknownBrand(brand string) bool {
	b := strings.TrimSpace(brand)
	return b == "" || b == d.rules.UnknownBrand
}

// ResolveBrand keeps a present brand unchanged and otherwise infers one
// from the title: aliases first, then the brand lists in priority order.
// Nothing matching yields the unknown sentinel.
func (d *Deriver) ResolveBrand(brand, title string) string {
	if !d.IsUnknownBrand(brand) {
		return brand
	}
	upper := strings.ToUpper(title)
	for _, a := range d.rules.Brands.Aliases {
		if containsAny(upper, a.Any) {
			return a.Brand
		}
	}
	for _, b := range d.allBrands {
		if strings.Contains(upper, strings.ToUpper(b)) {
			return b
		}
	}
	return d.rules.UnknownBrand
}

// BrandCategory buckets a resolved brand. The lists are scanned high,
// designer, character; a brand matches a list entry by substring.
func (d *Deriver) BrandCategory(brand string) string {
	if d.IsUnknownBrand(brand) {
		return models.CategoryNoBrand
	}
	upper := strings.ToUpper(brand)
	switch {
	case containsAny(upper, d.highBrands):
		return models.CategoryHighBrand
	case containsAny(upper, d.designerBrands):
		return models.CategoryDesigner
	case containsAny(upper, d.characterBrands):
		return models.CategoryCharacter
	}
	return models.CategoryOther
}
