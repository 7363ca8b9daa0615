package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/estate/internal/catalog"
)

// SampleProperties returns the five-listing catalog used across tests.
// Each call returns a fresh slice.
func SampleProperties() []catalog.Property {
	return []catalog.Property{
		{ID: "prop-001", Type: "house", Price: 695000, Bedrooms: 4, DateAdded: "2025-07-15", Postcode: "BR1", Location: "45 Oak Avenue, Bromley", Description: "Victorian house"},
		{ID: "prop-002", Type: "flat", Price: 375000, Bedrooms: 2, DateAdded: "2025-08-22", Postcode: "NW1", Location: "Camden Heights", Description: "Modern flat"},
		{ID: "prop-003", Type: "house", Price: 825000, Bedrooms: 5, DateAdded: "2025-09-10", Postcode: "SW1", Location: "Belgravia Gardens", Description: "Georgian townhouse"},
		{ID: "prop-004", Type: "bungalow", Price: 450000, Bedrooms: 3, DateAdded: "2025-10-05", Postcode: "CR0", Location: "Meadow Lane, Croydon", Description: "Detached bungalow"},
		{ID: "prop-005", Type: "flat", Price: 165000, Bedrooms: 1, DateAdded: "2025-12-20", Postcode: "W2", Location: "Westbourne Grove", Description: "Garden flat"},
	}
}

// SampleCatalog wraps SampleProperties in a Catalog.
func SampleCatalog(t testing.TB) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(SampleProperties())
	require.NoError(t, err)
	return c
}

// IDs returns the ids of props in order.
func IDs(props []catalog.Property) []string {
	ids := make([]string, len(props))
	for i, p := range props {
		ids[i] = p.ID
	}
	return ids
}
