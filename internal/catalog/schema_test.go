package catalog

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_FixtureIsValid(t *testing.T) {
	data, err := os.ReadFile(fixturePath)
	require.NoError(t, err)

	schema, err := NewSchema()
	require.NoError(t, err)

	assert.Empty(t, schema.Check(data))
}

func TestSchema_Violations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "negative price", doc: `[{"id": "x", "type": "flat", "price": -1, "bedrooms": 1, "dateAdded": "2025-01-01", "postcode": "E1"}]`},
		{name: "fractional bedrooms", doc: `[{"id": "x", "type": "flat", "price": 1, "bedrooms": 1.5, "dateAdded": "2025-01-01", "postcode": "E1"}]`},
		{name: "bad date", doc: `[{"id": "x", "type": "flat", "price": 1, "bedrooms": 1, "dateAdded": "01/01/2025", "postcode": "E1"}]`},
		{name: "missing postcode", doc: `[{"id": "x", "type": "flat", "price": 1, "bedrooms": 1, "dateAdded": "2025-01-01"}]`},
		{name: "empty id", doc: `[{"id": "", "type": "flat", "price": 1, "bedrooms": 1, "dateAdded": "2025-01-01", "postcode": "E1"}]`},
		{name: "latitude out of range", doc: `[{"id": "x", "type": "flat", "price": 1, "bedrooms": 1, "dateAdded": "2025-01-01", "postcode": "E1", "coordinates": {"lat": 120, "lng": 0}}]`},
	}

	schema, err := NewSchema()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := schema.Check([]byte(tt.doc))
			require.NotEmpty(t, errs)

			var se *SchemaError
			require.True(t, errors.As(errs[0], &se))
			assert.Equal(t, 0, se.Index)
		})
	}
}

func TestSchema_ReportsEveryBadProperty(t *testing.T) {
	doc := `[
		{"id": "ok", "type": "flat", "price": 1, "bedrooms": 1, "dateAdded": "2025-01-01", "postcode": "E1"},
		{"id": "bad-1", "type": "flat", "price": -1, "bedrooms": 1, "dateAdded": "2025-01-01", "postcode": "E1"},
		{"id": "bad-2", "type": "flat", "price": 1, "bedrooms": -2, "dateAdded": "2025-01-01", "postcode": "E1"}
	]`

	schema, err := NewSchema()
	require.NoError(t, err)

	errs := schema.Check([]byte(doc))
	require.NotEmpty(t, errs)

	ids := map[int]string{}
	for _, err := range errs {
		var se *SchemaError
		require.True(t, errors.As(err, &se))
		ids[se.Index] = se.ID
	}
	assert.Equal(t, map[int]string{1: "bad-1", 2: "bad-2"}, ids)
}

func TestSchema_ExtraFieldsAllowed(t *testing.T) {
	doc := `[{"id": "x", "type": "flat", "price": 1, "bedrooms": 1, "dateAdded": "2025-01-01", "postcode": "E1", "agent": "NV Estates"}]`

	schema, err := NewSchema()
	require.NoError(t, err)

	assert.Empty(t, schema.Check([]byte(doc)))
}

func TestSchema_MalformedDocument(t *testing.T) {
	schema, err := NewSchema()
	require.NoError(t, err)

	errs := schema.Check([]byte(`{"properties": `))
	require.Len(t, errs, 1)
	assert.Equal(t, ErrCodeDecode, ErrorCode(errs[0]))
}
