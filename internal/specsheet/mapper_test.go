package specsheet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapper_Country(t *testing.T) {
	m := NewMapper()

	tests := []struct {
		name  string
		pairs []Pair
		want  *Country
	}{
		{
			name:  "exact label india",
			pairs: []Pair{{Key: "Typical country of origin", Value: "India"}},
			want:  &Country{Code: "IN", Name: "India"},
		},
		{
			name:  "fallback china",
			pairs: []Pair{{Key: "Country of Origin", Value: "Yunnan, China"}},
			want:  &Country{Code: "CN", Name: "Yunnan, China"},
		},
		{
			name:  "fallback sri lanka",
			pairs: []Pair{{Key: "Origin", Value: "Sri Lanka"}},
			want:  &Country{Code: "LK", Name: "Sri Lanka"},
		},
		{
			name:  "unknown country keeps name",
			pairs: []Pair{{Key: "Typical country of origin", Value: "Kenya"}},
			want:  &Country{Code: "", Name: "Kenya"},
		},
		{
			name:  "absent",
			pairs: []Pair{{Key: "Odour", Value: "Fresh"}},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.pairs).Country)
		})
	}
}

func TestMapper_EmptyPairs(t *testing.T) {
	rec := NewMapper().Map(nil)

	assert.True(t, rec.IsEmpty())

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestMapper_ExactBeatsEarlierFallback(t *testing.T) {
	rec := NewMapper().Map([]Pair{
		{Key: "Flavour note", Value: "Bitter"},
		{Key: "Flavour", Value: "Malty"},
	})

	require.Len(t, rec.Organoleptic, 1)
	assert.Equal(t, "Malty", rec.Organoleptic[0].Flavour)
}

func TestMapper_FallbackFirstMatchWins(t *testing.T) {
	rec := NewMapper().Map([]Pair{
		{Key: "Taste", Value: "Sweet"},
		{Key: "Flavor profile", Value: "Bitter"},
		{Key: "Colour", Value: "Dark brown"},
		{Key: "Aroma", Value: "Floral"},
	})

	require.Len(t, rec.Organoleptic, 1)
	assert.Equal(t, Organoleptic{
		AppearanceFormat: "Dark brown",
		Flavour:          "Sweet",
		Odour:            "Floral",
	}, rec.Organoleptic[0])
}

func TestMapper_OneKeyCanFillSeveralFields(t *testing.T) {
	rec := NewMapper().Map([]Pair{{Key: "Flavour and Odour", Value: "Malty"}})

	require.Len(t, rec.Organoleptic, 1)
	assert.Equal(t, Organoleptic{Flavour: "Malty", Odour: "Malty"}, rec.Organoleptic[0])
}

func TestMapper_Identity(t *testing.T) {
	rec := NewMapper().Map([]Pair{
		{Key: ProductNameKey, Value: `"Black Tea"`},
		{Key: "Scientific name", Value: "Camellia sinensis var. assamica"},
		{Key: "Plant part used", Value: "Leaf"},
	})

	assert.Equal(t, `"Black Tea"`, rec.ProductName)
	assert.Equal(t, "Camellia sinensis var. assamica", rec.BotanicalName)
	assert.Equal(t, "Leaf", rec.PlantPart)
	assert.Nil(t, rec.Country)
}

func TestMapper_Processing(t *testing.T) {
	tests := []struct {
		name  string
		pairs []Pair
		want  []Processing
	}{
		{
			name:  "drying method capitalized",
			pairs: []Pair{{Key: "Drying method", Value: "sun DRIED"}},
			want:  []Processing{{DryingMethod: "Sun dried"}},
		},
		{
			name: "empty further processing becomes placeholder",
			pairs: []Pair{
				{Key: "Drying method", Value: "air dried"},
				{Key: "Further processing", Value: ""},
			},
			want: []Processing{{DryingMethod: "Air dried", FurtherProcessing: EmptyFurtherProcessing}},
		},
		{
			name:  "further processing only",
			pairs: []Pair{{Key: "Further processing", Value: "Cut and sifted"}},
			want:  []Processing{{FurtherProcessing: "Cut and sifted"}},
		},
		{
			name:  "absent",
			pairs: []Pair{{Key: "TVC", Value: "100"}},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMapper().Map(tt.pairs).Processing)
		})
	}
}

func TestMapper_Microbiological(t *testing.T) {
	rec := NewMapper().Map([]Pair{
		{Key: "Total Viable Count", Value: "<105 cfu/g"},
		{Key: "Salmonella spp.", Value: "Absent in 25g"},
		{Key: "E. coli", Value: "<10 cfu/g"},
		{Key: "Yeasts & Moulds", Value: "<104 cfu/g"},
		{Key: "Enterobacteriaceae", Value: "<103 cfu/g"},
	})

	require.Len(t, rec.Microbiological, 1)
	assert.Equal(t, Microbiological{
		TVC:               "<105 cfu/g",
		Salmonella:        "Absent in 25g",
		EColi:             "<10 cfu/g",
		YeastAndMould:     "<104 cfu/g",
		Enterobacteriacae: "<103 cfu/g",
	}, rec.Microbiological[0])
}

func TestMapper_Contaminants(t *testing.T) {
	rec := NewMapper().Map([]Pair{
		{Key: "Pesticide residues", Value: "Complies"},
		{Key: "Aflatoxins / Mycotoxins", Value: "Complies with EC 1881/2006"},
	})

	require.Len(t, rec.Contaminants, 1)
	assert.Equal(t, Contaminants{
		Pesticides: "Complies",
		Mycotoxins: "Complies with EC 1881/2006",
	}, rec.Contaminants[0])
}

func TestMapper_MetalDetection(t *testing.T) {
	rec := NewMapper().Map([]Pair{
		{Key: "Non-ferrous", Value: "2.0mm"},
		{Key: "Ferrous", Value: "1.5mm"},
		{Key: "Stainless steel", Value: "2.5mm"},
	})

	require.Len(t, rec.MetalDetection, 1)
	assert.Equal(t, MetalDetection{
		Fe:             "1.5mm",
		NonFe:          "2.0mm",
		StainlessSteel: "2.5mm",
	}, rec.MetalDetection[0])
}

func TestMapper_Packaging(t *testing.T) {
	rec := NewMapper().Map([]Pair{
		{Key: "Outer Liner", Value: "Brown paper packet and White polypropylene sack/2 ply paper"},
		{Key: "Kilo Outer Liner", Value: "Brown paper packet"},
		{Key: "Bulk Outer Liner", Value: "White polypropylene sack/2 ply paper"},
		{Key: "Kilo pack inner seal", Value: "Cellulose tape"},
	})

	require.Len(t, rec.KiloPacks, 1)
	require.Len(t, rec.BulkPacks, 1)
	assert.Equal(t, Packaging{OuterLiner: "Brown paper packet", InnerSeal: "Cellulose tape"}, rec.KiloPacks[0])
	assert.Equal(t, Packaging{OuterLiner: "White polypropylene sack/2 ply paper"}, rec.BulkPacks[0])
}

func TestMapper_Declaration(t *testing.T) {
	rec := NewMapper().Map([]Pair{
		{Key: "Issued by", Value: "Jane Doe"},
		{Key: "Job title", Value: "Technical Manager"},
	})

	assert.Equal(t, &Declaration{IssuedBy: "Jane Doe", Position: "Technical Manager"}, rec.Declaration)
}

func TestMapper_UnmatchedGroupsAbsent(t *testing.T) {
	rec := NewMapper().Map([]Pair{{Key: "Botanical name", Value: "Camellia sinensis"}})

	assert.Equal(t, "Camellia sinensis", rec.BotanicalName)
	assert.Nil(t, rec.Organoleptic)
	assert.Nil(t, rec.Processing)
	assert.Nil(t, rec.Microbiological)
	assert.Nil(t, rec.Contaminants)
	assert.Nil(t, rec.MetalDetection)
	assert.Nil(t, rec.KiloPacks)
	assert.Nil(t, rec.BulkPacks)
	assert.Nil(t, rec.Declaration)
	assert.False(t, rec.IsEmpty())
}

func TestMapper_CustomRules(t *testing.T) {
	rules := DefaultRules()
	rules.CountryCodes = append(rules.CountryCodes, CountryCode{Fragment: "kenya", Code: "KE"})

	rec := NewMapperWithRules(rules).Map([]Pair{{Key: "Typical country of origin", Value: "Kenya"}})

	assert.Equal(t, &Country{Code: "KE", Name: "Kenya"}, rec.Country)
}

func TestRecord_JSONRoundTrip(t *testing.T) {
	rec := &Record{
		ProductName:   `"Black Tea"`,
		BotanicalName: "Camellia sinensis",
		Country:       &Country{Code: "IN", Name: "India"},
		Organoleptic:  []Organoleptic{{Flavour: "Malty"}},
		KiloPacks:     []Packaging{{OuterLiner: "Brown paper packet"}},
		Declaration:   &Declaration{IssuedBy: "Jane Doe"},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rec, &decoded)
}
