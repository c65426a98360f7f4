package render

import (
	"bytes"
	"embed"
	"html/template"
	"math"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"earring-market/models"
)

//go:embed templates/dashboard.html.tmpl
var templateFS embed.FS

// HTMLRenderer turns an InsightReport into a self-contained dashboard page.
type HTMLRenderer struct {
	tmpl    *template.Template
	printer *message.Printer
}

// NewHTMLRenderer parses the embedded dashboard template.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	r := &HTMLRenderer{printer: message.NewPrinter(language.English)}
	tmpl, err := template.New("dashboard.html.tmpl").Funcs(r.funcs()).ParseFS(templateFS, "templates/dashboard.html.tmpl")
	if err != nil {
		return nil, eris.Wrap(err, "render: parse template")
	}
	r.tmpl = tmpl
	return r, nil
}

// Render executes the template for report.
func (r *HTMLRenderer) Render(report *models.InsightReport) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, newPage(report)); err != nil {
		return nil, eris.Wrap(err, "render: execute template")
	}
	return buf.Bytes(), nil
}

func (r *HTMLRenderer) funcs() template.FuncMap {
	return template.FuncMap{
		"usd":      r.USD,
		"yen":      r.Yen,
		"num":      r.Number,
		"pct":      r.Percent,
		"signed":   r.SignedPercent,
		"inc":      func(i int) int { return i + 1 },
		"ebay":     EbayURL,
		"mercari":  MercariURL,
		"short":    shorten,
		"rankMark": rankClass,
	}
}

// USD formats a dollar amount without cents: $1,234.
func (r *HTMLRenderer) USD(v float64) string {
	return r.printer.Sprintf("$%d", int64(math.Round(v)))
}

// Yen formats a floored yen amount: ¥12,180.
func (r *HTMLRenderer) Yen(v float64) string {
	return r.printer.Sprintf("¥%d", int64(math.Floor(v)))
}

// Number formats an integer with thousands separators.
func (r *HTMLRenderer) Number(n int) string {
	return r.printer.Sprintf("%d", n)
}

// Percent formats a share with one decimal.
func (r *HTMLRenderer) Percent(v float64) string {
	return r.printer.Sprintf("%.1f%%", v)
}

// SignedPercent formats a premium with an explicit sign.
func (r *HTMLRenderer) SignedPercent(v float64) string {
	if v > 0 {
		return "+" + r.Percent(v)
	}
	return r.Percent(v)
}

// SearchTerm is the marketplace search query for a brand: lowercase,
// query-escaped, so spaces become '+'.
func SearchTerm(brand string) string {
	return url.QueryEscape(strings.ToLower(brand))
}

// EbayURL links to sold eBay listings for brand earrings.
func EbayURL(brand string) template.URL {
	return template.URL("https://www.ebay.com/sch/i.html?_nkw=" + SearchTerm(brand) + "+earrings&LH_Sold=1&LH_Complete=1")
}

// MercariURL links to a Mercari search for brand earrings.
func MercariURL(brand string) template.URL {
	return template.URL("https://jp.mercari.com/search?keyword=" + SearchTerm(brand) + "+%E3%82%A4%E3%83%A4%E3%83%AA%E3%83%B3%E3%82%B0")
}

func shorten(s string) string {
	r := []rune(s)
	if len(r) <= 50 {
		return s
	}
	return string(r[:50]) + "..."
}

func rankClass(i int) string {
	switch i {
	case 0:
		return "rank-gold"
	case 1:
		return "rank-silver"
	case 2:
		return "rank-bronze"
	}
	return ""
}
