package search

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCriteria_SetGet(t *testing.T) {
	var c Criteria
	require.NoError(t, c.Set("minPrice", "100"))
	require.NoError(t, c.Set("POSTCODE", "nw"))

	v, ok := c.Get("minprice")
	assert.True(t, ok)
	assert.Equal(t, "100", v)
	assert.Equal(t, "nw", c.Postcode)

	err := c.Set("garden", "yes")
	var ce *CriteriaError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "garden", ce.Field)
}

func TestCriteria_IsEmptyAndMap(t *testing.T) {
	assert.True(t, Criteria{}.IsEmpty())

	c := Criteria{Type: "flat", MaxBedrooms: "2"}
	assert.False(t, c.IsEmpty())
	assert.Equal(t, map[string]string{"type": "flat", "maxBedrooms": "2"}, c.Map())
}

func TestFromMap(t *testing.T) {
	c, err := FromMap(map[string]any{
		"type":        "flat",
		"minPrice":    300000,
		"maxPrice":    450000.5,
		"minBedrooms": int64(2),
		"maxBedrooms": nil,
		"dateFrom":    time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		"postcode":    "",
	})
	require.NoError(t, err)
	assert.Equal(t, Criteria{
		Type:        "flat",
		MinPrice:    "300000",
		MaxPrice:    "450000.5",
		MinBedrooms: "2",
		DateFrom:    "2025-08-01",
	}, c)
}

func TestFromMap_YAML(t *testing.T) {
	var m map[string]any
	require.NoError(t, yaml.Unmarshal([]byte("type: house\nminPrice: 600000\ndateAfter: 2025-07-01\n"), &m))

	c, err := FromMap(m)
	require.NoError(t, err)
	assert.Equal(t, Criteria{Type: "house", MinPrice: "600000", DateAfter: "2025-07-01"}, c)
}

func TestFromMap_Errors(t *testing.T) {
	_, err := FromMap(map[string]any{"pool": true})
	assert.Error(t, err)

	_, err = FromMap(map[string]any{"minPrice": true})
	var ce *CriteriaError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "minPrice", ce.Field)
}

func TestParseAssignments(t *testing.T) {
	c, err := ParseAssignments([]string{"type=flat", "maxPrice=400000", "postcode="})
	require.NoError(t, err)
	assert.Equal(t, Criteria{Type: "flat", MaxPrice: "400000"}, c)

	_, err = ParseAssignments([]string{"flat"})
	assert.Error(t, err)

	_, err = ParseAssignments([]string{"=flat"})
	assert.Error(t, err)
}

func TestKey_DependsOnPresentFieldsOnly(t *testing.T) {
	a, err := Key(Criteria{Type: "flat", MaxPrice: "400000"})
	require.NoError(t, err)
	b, err := Key(Criteria{MaxPrice: "400000", Type: "flat"})
	require.NoError(t, err)
	c, err := Key(Criteria{Type: "flat", MaxPrice: "400001"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
