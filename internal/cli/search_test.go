package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/estate/internal/catalog"
	"github.com/roach88/estate/internal/search"
)

func TestSearch_Text(t *testing.T) {
	r := execute(t, "", "search", "--type", "flat", "--max-price", "400000")
	require.NoError(t, r.err)

	assert.Contains(t, r.out, "prop-002")
	assert.Contains(t, r.out, "LKR 375,000")
	assert.Contains(t, r.out, "prop-005")
	assert.NotContains(t, r.out, "prop-001")
	assert.Contains(t, r.out, "2 properties found")
}

func TestSearch_NoCriteriaListsEverything(t *testing.T) {
	r := execute(t, "", "search")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "5 properties found")
}

func TestSearch_NoResults(t *testing.T) {
	r := execute(t, "", "search", "--postcode", "ZZ")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "0 properties found")
}

func TestSearch_JSON(t *testing.T) {
	r := execute(t, "", "--format", "json", "search", "--min-bedrooms", "3", "--postcode", "br")
	require.NoError(t, r.err)

	resp := decodeResponse(t, r.out)
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), data["count"])

	props, ok := data["properties"].([]any)
	require.True(t, ok)
	require.Len(t, props, 1)
	assert.Equal(t, "prop-001", props[0].(map[string]any)["id"])

	criteria := data["criteria"].(map[string]any)
	assert.Equal(t, search.AnyType, criteria["type"])
}

func TestSearch_DateModes(t *testing.T) {
	r := execute(t, "", "search", "--date-after", "2025-10-01")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "prop-004")
	assert.Contains(t, r.out, "prop-005")
	assert.Contains(t, r.out, "2 properties found")

	// Between-mode inputs are ignored in after mode.
	r = execute(t, "", "search", "--date-from", "2025-12-01")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "5 properties found")

	r = execute(t, "", "search", "--date-mode", "between", "--date-from", "2025-08-01", "--date-to", "2025-09-30")
	require.NoError(t, r.err)
	assert.Contains(t, r.out, "prop-002")
	assert.Contains(t, r.out, "prop-003")
	assert.Contains(t, r.out, "2 properties found")
}

func TestSearch_InvalidCriteria(t *testing.T) {
	r := execute(t, "", "search", "--min-price", "500000", "--max-price", "100000", "--min-bedrooms", "4", "--max-bedrooms", "2")
	require.Error(t, r.err)
	assert.Equal(t, ExitFailure, GetExitCode(r.err))

	assert.Contains(t, r.out, "Invalid search criteria:")
	assert.Contains(t, r.out, "  - "+search.MsgPriceRange)
	assert.Contains(t, r.out, "  - "+search.MsgBedroomsRange)
	assert.NotContains(t, r.out, "found")
}

func TestSearch_InvalidCriteriaJSON(t *testing.T) {
	r := execute(t, "", "--format", "json", "search", "--date-mode", "between", "--date-from", "2025-10-01", "--date-to", "2025-09-01")
	require.Error(t, r.err)
	assert.Equal(t, ExitFailure, GetExitCode(r.err))

	resp := decodeResponse(t, r.out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)

	details := resp.Error.Details.(map[string]any)
	assert.Equal(t, false, details["isValid"])
	assert.Equal(t, []any{search.MsgDateRange}, details["errors"])
}

func TestSearch_BadDateMode(t *testing.T) {
	r := execute(t, "", "search", "--date-mode", "before")
	require.Error(t, r.err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.err))
	assert.Contains(t, r.out, "Error [E102]")
}

func TestSearch_MissingCatalog(t *testing.T) {
	r := execute(t, "", "--catalog", "/nonexistent/catalog.json", "search")
	require.Error(t, r.err)
	assert.Equal(t, ExitCommandError, GetExitCode(r.err))
	assert.Contains(t, r.out, "Error ["+catalog.ErrCodeNotFound+"]")
}
