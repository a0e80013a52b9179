package specsheet

import (
	"regexp"
	"strings"
)

// Target field names used by the mapper rule tables
const (
	FieldProductName   = "product_name"
	FieldBotanicalName = "botanical_name"
	FieldPlantPart     = "plant_part"
	FieldCountry       = "country"

	FieldAppearanceFormat = "appearance_format"
	FieldFlavour          = "flavour"
	FieldOdour            = "odour"

	FieldDryingMethod      = "drying_method"
	FieldFurtherProcessing = "further_processing"

	FieldTVC               = "tvc"
	FieldSalmonella        = "salmonella"
	FieldEColi             = "e_coli"
	FieldYeastAndMould     = "yeast_and_mould"
	FieldEnterobacteriacae = "enterobacteriacae"

	FieldPesticides             = "pesticides"
	FieldMycotoxins             = "mycotoxins"
	FieldPyrrolizidineAlkaloids = "pyrrolizidine_alkaloids"

	FieldFe             = "fe"
	FieldNonFe          = "non_fe"
	FieldStainlessSteel = "s_s"

	FieldOuterLiner = "outer_liner"
	FieldOuterSeal  = "outer_seal"
	FieldInnerLiner = "inner_liner"
	FieldInnerSeal  = "inner_seal"

	FieldIssuedBy = "issued_by"
	FieldPosition = "position"
)

// Fragments is one fallback alternative: every fragment must appear in the
// lower-cased key for the alternative to match.
type Fragments []string

// FieldRule maps source labels onto one target field
type FieldRule struct {
	Field string
	// Labels are matched by exact key equality in the first pass
	Labels []string
	// Fallback alternatives are tried only when no label matched
	Fallback []Fragments
	// Exclude rejects fallback candidates whose key contains any of these
	Exclude []string
}

// CountryCode maps a country name fragment onto its ISO code
type CountryCode struct {
	Fragment string
	Code     string
}

// RuleSet groups every rule table used by the mapper
type RuleSet struct {
	Identity        []FieldRule
	Organoleptic    []FieldRule
	Processing      []FieldRule
	Microbiological []FieldRule
	Contaminants    []FieldRule
	MetalDetection  []FieldRule
	KiloPacks       []FieldRule
	BulkPacks       []FieldRule
	Declaration     []FieldRule
	CountryCodes    []CountryCode
}

func frag(parts ...string) Fragments { return Fragments(parts) }

// DefaultRules returns the rule tables for the organic product
// specification template family
func DefaultRules() *RuleSet {
	return &RuleSet{
		Identity: []FieldRule{
			{Field: FieldProductName, Labels: []string{ProductNameKey}, Fallback: []Fragments{frag("product name")}},
			{Field: FieldBotanicalName, Labels: []string{"Botanical name"},
				Fallback: []Fragments{frag("botanical"), frag("scientific")}},
			{Field: FieldPlantPart, Labels: []string{"Part of Plant"}, Fallback: []Fragments{frag("part", "plant")}},
			{Field: FieldCountry, Labels: []string{"Typical country of origin"},
				Fallback: []Fragments{frag("country"), frag("origin")}},
		},
		Organoleptic: []FieldRule{
			{Field: FieldAppearanceFormat, Labels: []string{"Appearance Format"},
				Fallback: []Fragments{frag("appearance"), frag("look"), frag("color"), frag("colour")}},
			{Field: FieldFlavour, Labels: []string{"Flavour"},
				Fallback: []Fragments{frag("flavour"), frag("flavor"), frag("taste")}},
			{Field: FieldOdour, Labels: []string{"Odour"},
				Fallback: []Fragments{frag("odour"), frag("odor"), frag("smell"), frag("aroma")}},
		},
		Processing: []FieldRule{
			{Field: FieldDryingMethod, Labels: []string{"Drying method"}, Fallback: []Fragments{frag("drying")}},
			{Field: FieldFurtherProcessing, Labels: []string{"Further processing"},
				Fallback: []Fragments{frag("further processing")}},
		},
		Microbiological: []FieldRule{
			{Field: FieldTVC, Labels: []string{"TVC"},
				Fallback: []Fragments{frag("total viable count"), frag("total count")}},
			{Field: FieldSalmonella, Labels: []string{"Salmonella"}, Fallback: []Fragments{frag("salmonella")}},
			{Field: FieldEColi, Labels: []string{"E.coli"}, Fallback: []Fragments{frag("e.coli"), frag("e. coli")}},
			{Field: FieldYeastAndMould, Labels: []string{"Yeast and mould"},
				Fallback: []Fragments{frag("yeast", "mould"), frag("yeast", "mold")}},
			{Field: FieldEnterobacteriacae, Labels: []string{"Enterobacteriacae"},
				Fallback: []Fragments{frag("enterobacteriacae"), frag("enterobacteriaceae")}},
		},
		Contaminants: []FieldRule{
			{Field: FieldPesticides, Labels: []string{"Pesticides"}, Fallback: []Fragments{frag("pesticide")}},
			{Field: FieldMycotoxins, Labels: []string{"Mycotoxins"}, Fallback: []Fragments{frag("mycotoxin")}},
			{Field: FieldPyrrolizidineAlkaloids, Labels: []string{"Pyrrolizidine Alkaloids"},
				Fallback: []Fragments{frag("pyrrolizidine"), frag("alkaloid")}},
		},
		MetalDetection: []FieldRule{
			{Field: FieldFe, Labels: []string{"Fe"}, Fallback: []Fragments{frag("ferrous"), frag("iron")},
				Exclude: []string{"non"}},
			{Field: FieldNonFe, Labels: []string{"Non-Fe"}, Fallback: []Fragments{frag("non-ferrous"), frag("non ferrous")}},
			{Field: FieldStainlessSteel, Labels: []string{"S/S"},
				Fallback: []Fragments{frag("stainless steel"), frag("stainless-steel")}},
		},
		KiloPacks:   packagingRules("Kilo"),
		BulkPacks:   packagingRules("Bulk"),
		Declaration: []FieldRule{
			{Field: FieldIssuedBy, Labels: []string{"Issued by"}, Fallback: []Fragments{frag("issued by"), frag("author")}},
			{Field: FieldPosition, Labels: []string{"Position"},
				Fallback: []Fragments{frag("position"), frag("title"), frag("role")}},
		},
		CountryCodes: []CountryCode{
			{Fragment: "india", Code: "IN"},
			{Fragment: "china", Code: "CN"},
			{Fragment: "sri lanka", Code: "LK"},
		},
	}
}

func packagingRules(variant string) []FieldRule {
	parts := []struct {
		field string
		label string
	}{
		{FieldOuterLiner, "Outer Liner"},
		{FieldOuterSeal, "Outer Seal"},
		{FieldInnerLiner, "Inner Liner"},
		{FieldInnerSeal, "Inner Seal"},
	}

	rules := make([]FieldRule, 0, len(parts))
	for _, p := range parts {
		label := variant + " " + p.label
		rules = append(rules, FieldRule{
			Field:    p.field,
			Labels:   []string{label},
			Fallback: []Fragments{frag(strings.ToLower(variant), strings.ToLower(p.label))},
		})
	}
	return rules
}

// DefaultPackagingSplits returns the known combined packaging phrases of
// the template family
func DefaultPackagingSplits() []PackagingSplit {
	return []PackagingSplit{
		{
			Label:    "Outer Liner",
			Requires: []string{"Brown paper packet", "White polypropylene"},
			Kilo:     SplitPart{Pattern: regexp.MustCompile(`Brown paper packet`), Value: "Brown paper packet"},
			Bulk: SplitPart{
				Pattern: regexp.MustCompile(`White polypropylene sack/2 ply\s+paper`),
				Value:   "White polypropylene sack/2 ply paper",
			},
		},
		{
			Label:    "Outer Seal",
			Requires: []string{"Polypropylene tape", "Non re-sealable"},
			Kilo:     SplitPart{Pattern: regexp.MustCompile(`Polypropylene tape`), Value: "Polypropylene tape"},
			Bulk: SplitPart{
				Pattern: regexp.MustCompile(`Non re-sealable cable tie/stitching`),
				Value:   "Non re-sealable cable tie/stitching",
			},
		},
		{
			Label:    "Inner Liner",
			Requires: []string{"Food grade polythene liner"},
			Kilo:     SplitPart{Pattern: regexp.MustCompile(`Food grade polythene liner`), Value: "Food grade polythene liner"},
			Bulk:     SplitPart{Pattern: regexp.MustCompile(`Food grade polythene liner`), Value: "Food grade polythene liner"},
		},
		{
			Label:    "Inner Seal",
			Requires: []string{"Cellulose tape", "Releasable cable tie"},
			Kilo:     SplitPart{Pattern: regexp.MustCompile(`Cellulose tape`), Value: "Cellulose tape"},
			Bulk:     SplitPart{Pattern: regexp.MustCompile(`Releasable cable tie`), Value: "Releasable cable tie"},
		},
	}
}
