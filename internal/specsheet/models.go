package specsheet

// Pair is one extracted (label, value) fragment in source order.
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Country identifies the typical country of origin of a product
type Country struct {
	Code string `json:"Code"`
	Name string `json:"Name"`
}

// Organoleptic describes how the product looks, tastes and smells
type Organoleptic struct {
	AppearanceFormat string `json:"appearance_format,omitempty"`
	Flavour          string `json:"flavour,omitempty"`
	Odour            string `json:"odour,omitempty"`
}

// Processing describes how the raw material was treated after harvest
type Processing struct {
	DryingMethod      string `json:"drying_method,omitempty"`
	FurtherProcessing string `json:"further_processing,omitempty"`
}

// Microbiological holds the microbiological analysis limits
type Microbiological struct {
	TVC               string `json:"tvc,omitempty"`
	Salmonella        string `json:"salmonella,omitempty"`
	EColi             string `json:"e_coli,omitempty"`
	YeastAndMould     string `json:"yeast_and_mould,omitempty"`
	Enterobacteriacae string `json:"enterobacteriacae,omitempty"`
}

// Contaminants holds the contaminant compliance statements
type Contaminants struct {
	Pesticides             string `json:"pesticides,omitempty"`
	Mycotoxins             string `json:"mycotoxins,omitempty"`
	PyrrolizidineAlkaloids string `json:"pyrrolizidine_alkaloids,omitempty"`
}

// MetalDetection holds the metal detection test piece sizes
type MetalDetection struct {
	Fe             string `json:"fe,omitempty"`
	NonFe          string `json:"non_fe,omitempty"`
	StainlessSteel string `json:"s_s,omitempty"`
}

// Packaging describes one packaging variant (kilo-pack or bulk-pack)
type Packaging struct {
	OuterLiner string `json:"outer_liner,omitempty"`
	OuterSeal  string `json:"outer_seal,omitempty"`
	InnerLiner string `json:"inner_liner,omitempty"`
	InnerSeal  string `json:"inner_seal,omitempty"`
}

// Declaration names who issued the specification sheet
type Declaration struct {
	IssuedBy string `json:"issued_by,omitempty"`
	Position string `json:"position,omitempty"`
}

// Record is the structured product record produced from one document.
// Every field is optional; sub-records are one-element lists that are only
// present when at least one of their fields matched.
type Record struct {
	ProductName     string            `json:"product_name,omitempty"`
	BotanicalName   string            `json:"botanical_name,omitempty"`
	PlantPart       string            `json:"plant_part,omitempty"`
	Country         *Country          `json:"country,omitempty"`
	Organoleptic    []Organoleptic    `json:"organoleptic_description,omitempty"`
	Processing      []Processing      `json:"processing_details,omitempty"`
	Microbiological []Microbiological `json:"microbiological_analysis,omitempty"`
	Contaminants    []Contaminants    `json:"contaminants,omitempty"`
	MetalDetection  []MetalDetection  `json:"metal_detection,omitempty"`
	KiloPacks       []Packaging       `json:"kilo_packs,omitempty"`
	BulkPacks       []Packaging       `json:"bulk_packs,omitempty"`
	Declaration     *Declaration      `json:"declaration,omitempty"`
}

// IsEmpty reports whether no field of the record was populated
func (r *Record) IsEmpty() bool {
	return r.ProductName == "" && r.BotanicalName == "" && r.PlantPart == "" &&
		r.Country == nil && r.Declaration == nil &&
		len(r.Organoleptic) == 0 && len(r.Processing) == 0 &&
		len(r.Microbiological) == 0 && len(r.Contaminants) == 0 &&
		len(r.MetalDetection) == 0 && len(r.KiloPacks) == 0 && len(r.BulkPacks) == 0
}

// Result captures every intermediate stage of one pipeline run
type Result struct {
	Raw        string  `json:"-"`
	Normalized string  `json:"normalized"`
	Pairs      []Pair  `json:"pairs"`
	Record     *Record `json:"record"`
}
