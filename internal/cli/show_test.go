package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShow_Text(t *testing.T) {
	r := execute(t, "", "show", "prop-001")
	require.NoError(t, r.err)

	assert.Contains(t, r.out, "prop-001  house")
	assert.Contains(t, r.out, "LKR 695,000")
	assert.Contains(t, r.out, "15 July 2025")
	assert.Contains(t, r.out, "45 Oak Avenue, Bromley")
	assert.Contains(t, r.out, "Freehold")
	assert.Contains(t, r.out, "Geohash:")
	assert.Contains(t, r.out, "2 images")
}

func TestShow_JSON(t *testing.T) {
	r := execute(t, "", "--format", "json", "show", "prop-004")
	require.NoError(t, r.err)

	data := decodeResponse(t, r.out).Data.(map[string]any)
	assert.Equal(t, "LKR 450,000", data["price"])
	assert.Equal(t, "5 October 2025", data["added"])
	// prop-004 has no coordinates.
	assert.NotContains(t, data, "geohash")
	assert.Equal(t, "prop-004", data["property"].(map[string]any)["id"])
}

func TestShow_Geohash(t *testing.T) {
	r := execute(t, "", "--format", "json", "show", "prop-002")
	require.NoError(t, r.err)

	data := decodeResponse(t, r.out).Data.(map[string]any)
	hash, ok := data["geohash"].(string)
	require.True(t, ok)
	assert.Len(t, hash, 7)
	assert.Equal(t, "gcpv", hash[:4])
}

func TestShow_UnknownID(t *testing.T) {
	r := execute(t, "", "show", "prop-999")
	require.Error(t, r.err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.err))
	assert.Contains(t, r.out, `Error [E103]: no property with id "prop-999"`)
}

func TestShow_RequiresID(t *testing.T) {
	r := execute(t, "", "show")
	require.Error(t, r.err)
	assert.Contains(t, r.err.Error(), "accepts 1 arg")
}

func TestPostcodes(t *testing.T) {
	r := execute(t, "", "postcodes")
	require.NoError(t, r.err)
	assert.Equal(t, "BR1\nCR0\nNW1\nSW1\nW2\n", r.out)

	r = execute(t, "", "--format", "json", "postcodes")
	require.NoError(t, r.err)
	assert.Equal(t, []any{"BR1", "CR0", "NW1", "SW1", "W2"}, decodeResponse(t, r.out).Data)
}
