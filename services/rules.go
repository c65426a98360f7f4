package services

import (
	_ "embed"
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"earring-market/models"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// KeywordRule matches when the text contains at least one Any keyword (or Any
// is empty) and every All keyword.
type KeywordRule struct {
	Label string   `yaml:"label"`
	Any   []string `yaml:"any"`
	All   []string `yaml:"all"`
}

// Matches tests an already uppercased text.
func (r KeywordRule) Matches(upper string) bool {
	if len(r.Any) == 0 && len(r.All) == 0 {
		return false
	}
	if len(r.Any) > 0 && !containsAny(upper, r.Any) {
		return false
	}
	for _, kw := range r.All {
		if !strings.Contains(upper, kw) {
			return false
		}
	}
	return true
}

// RuleTable is an ordered list of rules with a fallback label.
type RuleTable struct {
	Fallback string        `yaml:"fallback"`
	Rules    []KeywordRule `yaml:"rules"`
}

// Classify returns the label of the first matching rule, or the fallback.
func (t RuleTable) Classify(upper string) string {
	for _, r := range t.Rules {
		if r.Matches(upper) {
			return r.Label
		}
	}
	return t.Fallback
}

// Labels returns every label in priority order, fallback last.
func (t RuleTable) Labels() []string {
	seen := make(map[string]struct{}, len(t.Rules)+1)
	out := make([]string, 0, len(t.Rules)+1)
	for _, r := range t.Rules {
		if _, ok := seen[r.Label]; ok {
			continue
		}
		seen[r.Label] = struct{}{}
		out = append(out, r.Label)
	}
	if _, ok := seen[t.Fallback]; !ok {
		out = append(out, t.Fallback)
	}
	return out
}

// BrandAlias maps title keywords straight to a canonical brand.
type BrandAlias struct {
	Brand string   `yaml:"brand"`
	Any   []string `yaml:"any"`
}

// BrandTables lists known brands per category, in priority order.
type BrandTables struct {
	High      []string     `yaml:"high"`
	Designer  []string     `yaml:"designer"`
	Character []string     `yaml:"character"`
	Other     []string     `yaml:"other"`
	Aliases   []BrandAlias `yaml:"aliases"`
}

// All returns every brand in scan order.
func (b BrandTables) All() []string {
	out := make([]string, 0, len(b.High)+len(b.Designer)+len(b.Character)+len(b.Other))
	out = append(out, b.High...)
	out = append(out, b.Designer...)
	out = append(out, b.Character...)
	return append(out, b.Other...)
}

// FlagRule is satisfied by any keyword or any regular expression.
type FlagRule struct {
	Any      []string `yaml:"any"`
	Patterns []string `yaml:"patterns"`

	compiled []*regexp.Regexp
}

// Matches tests an already uppercased text.
func (f FlagRule) Matches(upper string) bool {
	if containsAny(upper, f.Any) {
		return true
	}
	for _, re := range f.compiled {
		if re.MatchString(upper) {
			return true
		}
	}
	return false
}

// FlagRules groups the boolean title tests.
type FlagRules struct {
	Bulk    FlagRule `yaml:"bulk"`
	Novelty FlagRule `yaml:"novelty"`
	Box     FlagRule `yaml:"box"`
}

// FocusBrand selects the listings for one brand deep-dive, either by
// case-insensitive equality with Name or, when Contains is set, by substring.
type FocusBrand struct {
	Name     string     `yaml:"name"`
	Contains string     `yaml:"contains"`
	Motifs   *RuleTable `yaml:"motifs"`
}

// Selects reports whether a resolved brand belongs to this focus brand.
func (f FocusBrand) Selects(brand string) bool {
	upper := strings.ToUpper(brand)
	if f.Contains != "" {
		return strings.Contains(upper, f.Contains)
	}
	return upper == strings.ToUpper(f.Name)
}

// Rules is the full set of classification tables driving the deriver.
type Rules struct {
	UnknownBrand     string       `yaml:"unknown_brand"`
	ItemTypes        RuleTable    `yaml:"item_types"`
	ItemTypeSections []string     `yaml:"item_type_sections"`
	Brands           BrandTables  `yaml:"brands"`
	Flags            FlagRules    `yaml:"flags"`
	Materials        RuleTable    `yaml:"materials"`
	FocusBrands      []FocusBrand `yaml:"focus_brands"`
}

// DefaultRules returns the tables bundled with the binary.
func DefaultRules() (*Rules, error) {
	return ParseRules(defaultRulesYAML)
}

// LoadRules reads tables from path, or the bundled defaults when path is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "rules: read %s", path)
	}
	return ParseRules(data)
}

// ParseRules decodes, normalises and validates a YAML rule document.
func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrap(err, "rules: parse")
	}
	if err := r.prepare(); err != nil {
		return nil, err
	}
	return &r, nil
}

// prepare uppercases every keyword once and compiles the patterns.
func (r *Rules) prepare() error {
	if r.UnknownBrand == "" {
		r.UnknownBrand = models.UnknownBrand
	}
	if r.ItemTypes.Fallback == "" {
		r.ItemTypes.Fallback = models.ItemOther
	}
	if r.Materials.Fallback == "" {
		r.Materials.Fallback = "Other"
	}
	if len(r.ItemTypes.Rules) == 0 {
		return eris.New("rules: item_types has no rules")
	}
	if len(r.Brands.All()) == 0 {
		return eris.New("rules: brands lists are empty")
	}

	if err := upperTable(&r.ItemTypes, "item_types"); err != nil {
		return err
	}
	if err := upperTable(&r.Materials, "materials"); err != nil {
		return err
	}
	for i := range r.Brands.Aliases {
		a := &r.Brands.Aliases[i]
		if a.Brand == "" || len(a.Any) == 0 {
			return eris.Errorf("rules: brand alias %d needs a brand and keywords", i)
		}
		a.Any = upperAll(a.Any)
	}
	for _, f := range []*FlagRule{&r.Flags.Bulk, &r.Flags.Novelty, &r.Flags.Box} {
		f.Any = upperAll(f.Any)
		f.compiled = f.compiled[:0]
		for _, p := range f.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return eris.Wrapf(err, "rules: compile pattern %q", p)
			}
			f.compiled = append(f.compiled, re)
		}
	}
	for i := range r.FocusBrands {
		fb := &r.FocusBrands[i]
		if fb.Name == "" {
			return eris.Errorf("rules: focus brand %d has no name", i)
		}
		fb.Contains = strings.ToUpper(fb.Contains)
		if fb.Motifs != nil {
			if fb.Motifs.Fallback == "" {
				fb.Motifs.Fallback = "Other"
			}
			if err := upperTable(fb.Motifs, "motifs for "+fb.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func upperTable(t *RuleTable, name string) error {
	for i := range t.Rules {
		rule := &t.Rules[i]
		if rule.Label == "" {
			return eris.Errorf("rules: %s rule %d has no label", name, i)
		}
		if len(rule.Any) == 0 && len(rule.All) == 0 {
			return eris.Errorf("rules: %s rule %q has no keywords", name, rule.Label)
		}
		rule.Any = upperAll(rule.Any)
		rule.All = upperAll(rule.All)
	}
	return nil
}

func upperAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(s)
	}
	return out
}

func containsAny(upper string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}
