package specsheet

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// EmptyFurtherProcessing is stored when a further processing label is present
// without a value
const EmptyFurtherProcessing = "*"

// Mapper folds an ordered pair sequence into a structured record
type Mapper struct {
	rules *RuleSet
}

// NewMapper creates a mapper with the default rule tables
func NewMapper() *Mapper {
	return NewMapperWithRules(DefaultRules())
}

// NewMapperWithRules creates a mapper with custom rule tables
func NewMapperWithRules(rules *RuleSet) *Mapper {
	return &Mapper{rules: rules}
}

// Map classifies the pairs into a fresh record. Unmatched fields are omitted.
func (m *Mapper) Map(pairs []Pair) *Record {
	rec := &Record{}

	identity := resolveGroup(pairs, m.rules.Identity)
	rec.ProductName = identity[FieldProductName]
	rec.BotanicalName = identity[FieldBotanicalName]
	rec.PlantPart = identity[FieldPlantPart]
	if country, ok := identity[FieldCountry]; ok {
		rec.Country = &Country{Code: m.countryCode(country), Name: country}
	}

	if g := resolveGroup(pairs, m.rules.Organoleptic); len(g) > 0 {
		rec.Organoleptic = []Organoleptic{{
			AppearanceFormat: g[FieldAppearanceFormat],
			Flavour:          g[FieldFlavour],
			Odour:            g[FieldOdour],
		}}
	}

	if g := resolveGroup(pairs, m.rules.Processing); len(g) > 0 {
		p := Processing{DryingMethod: capitalize(g[FieldDryingMethod])}
		if fp, ok := g[FieldFurtherProcessing]; ok {
			p.FurtherProcessing = fp
			if p.FurtherProcessing == "" {
				p.FurtherProcessing = EmptyFurtherProcessing
			}
		}
		rec.Processing = []Processing{p}
	}

	if g := resolveGroup(pairs, m.rules.Microbiological); len(g) > 0 {
		rec.Microbiological = []Microbiological{{
			TVC:               g[FieldTVC],
			Salmonella:        g[FieldSalmonella],
			EColi:             g[FieldEColi],
			YeastAndMould:     g[FieldYeastAndMould],
			Enterobacteriacae: g[FieldEnterobacteriacae],
		}}
	}

	if g := resolveGroup(pairs, m.rules.Contaminants); len(g) > 0 {
		rec.Contaminants = []Contaminants{{
			Pesticides:             g[FieldPesticides],
			Mycotoxins:             g[FieldMycotoxins],
			PyrrolizidineAlkaloids: g[FieldPyrrolizidineAlkaloids],
		}}
	}

	if g := resolveGroup(pairs, m.rules.MetalDetection); len(g) > 0 {
		rec.MetalDetection = []MetalDetection{{
			Fe:             g[FieldFe],
			NonFe:          g[FieldNonFe],
			StainlessSteel: g[FieldStainlessSteel],
		}}
	}

	if g := resolveGroup(pairs, m.rules.KiloPacks); len(g) > 0 {
		rec.KiloPacks = []Packaging{packagingFrom(g)}
	}
	if g := resolveGroup(pairs, m.rules.BulkPacks); len(g) > 0 {
		rec.BulkPacks = []Packaging{packagingFrom(g)}
	}

	if g := resolveGroup(pairs, m.rules.Declaration); len(g) > 0 {
		rec.Declaration = &Declaration{
			IssuedBy: g[FieldIssuedBy],
			Position: g[FieldPosition],
		}
	}

	return rec
}

// resolveGroup resolves every rule of a group and returns only the fields
// that matched. Rules are independent, so one pair can fill several fields.
func resolveGroup(pairs []Pair, rules []FieldRule) map[string]string {
	found := make(map[string]string)
	for _, rule := range rules {
		if value, ok := resolve(pairs, rule); ok {
			found[rule.Field] = value
		}
	}
	return found
}

// resolve runs the exact-label pass and, only when that finds nothing, the
// fallback pass. Both passes are first match wins.
func resolve(pairs []Pair, rule FieldRule) (string, bool) {
	for _, p := range pairs {
		for _, label := range rule.Labels {
			if p.Key == label {
				return p.Value, true
			}
		}
	}

	for _, p := range pairs {
		key := strings.ToLower(p.Key)
		if containsAny(key, rule.Exclude) {
			continue
		}
		for _, alt := range rule.Fallback {
			if len(alt) > 0 && containsAll(key, alt) {
				return p.Value, true
			}
		}
	}

	return "", false
}

func (m *Mapper) countryCode(name string) string {
	lowered := strings.ToLower(name)
	for _, cc := range m.rules.CountryCodes {
		if strings.Contains(lowered, cc.Fragment) {
			return cc.Code
		}
	}
	return ""
}

func packagingFrom(g map[string]string) Packaging {
	return Packaging{
		OuterLiner: g[FieldOuterLiner],
		OuterSeal:  g[FieldOuterSeal],
		InnerLiner: g[FieldInnerLiner],
		InnerSeal:  g[FieldInnerSeal],
	}
}

// capitalize upper-cases the first letter and lower-cases the rest
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
