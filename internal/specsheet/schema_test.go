package specsheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaValidator_AcceptsMappedRecords(t *testing.T) {
	v, err := NewSchemaValidator()
	require.NoError(t, err)

	assert.NoError(t, v.Validate(blackTeaRecord()))
	assert.NoError(t, v.Validate(&Record{}))
	assert.NoError(t, v.Validate(&Record{Country: &Country{Name: "Kenya"}}))
}

func TestSchemaValidator_RejectsInvalidDocuments(t *testing.T) {
	v, err := NewSchemaValidator()
	require.NoError(t, err)

	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown top-level key", doc: `{"product_name": "x", "colour": "red"}`},
		{name: "sub-record list with two items", doc: `{"processing_details": [{"drying_method": "Air dried"}, {}]}`},
		{name: "empty sub-record list", doc: `{"kilo_packs": []}`},
		{name: "unknown sub-record key", doc: `{"metal_detection": [{"lead": "1mm"}]}`},
		{name: "country without code", doc: `{"country": {"Name": "India"}}`},
		{name: "lower case country code", doc: `{"country": {"Code": "in", "Name": "India"}}`},
		{name: "non-string value", doc: `{"botanical_name": 12}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, v.ValidateJSON([]byte(tt.doc)))
		})
	}
}

func TestSchemaValidator_MalformedJSON(t *testing.T) {
	v, err := NewSchemaValidator()
	require.NoError(t, err)

	err = v.ValidateJSON([]byte(`{"product_name":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal record")
}
