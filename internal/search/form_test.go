package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForm_DefaultsToAnyType(t *testing.T) {
	c := Form{}.Criteria()
	assert.Equal(t, Criteria{Type: AnyType}, c)
	assert.Len(t, Filter(nil, c), 0)
}

func TestForm_AfterModeIgnoresRange(t *testing.T) {
	f := Form{
		Type:      "flat",
		DateMode:  DateModeAfter,
		DateAfter: "2025-10-01",
		DateFrom:  "2025-01-01",
		DateTo:    "2025-02-01",
	}
	assert.Equal(t, Criteria{Type: "flat", DateAfter: "2025-10-01"}, f.Criteria())
}

func TestForm_BetweenModeIgnoresAfter(t *testing.T) {
	f := Form{
		DateMode:  DateModeBetween,
		DateAfter: "2025-10-01",
		DateFrom:  "2025-08-01T09:30:00Z",
		DateTo:    "2025-10-31",
		Postcode:  "sw",
	}
	assert.Equal(t, Criteria{Type: AnyType, DateFrom: "2025-08-01", DateTo: "2025-10-31", Postcode: "sw"}, f.Criteria())
}

func TestParseDateMode(t *testing.T) {
	m, err := ParseDateMode("")
	require.NoError(t, err)
	assert.Equal(t, DateModeAfter, m)

	m, err = ParseDateMode(" Between ")
	require.NoError(t, err)
	assert.Equal(t, DateModeBetween, m)

	_, err = ParseDateMode("before")
	assert.Error(t, err)
}
