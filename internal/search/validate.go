package search

import "github.com/roach88/estate/internal/catalog"

// Validation messages, shown to the user verbatim.
const (
	MsgPriceRange    = "Minimum price cannot be greater than maximum price"
	MsgBedroomsRange = "Minimum bedrooms cannot be greater than maximum bedrooms"
	MsgDateRange     = "Start date cannot be after end date"
)

// ValidationResult lists every contradiction found in a Criteria.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Validate checks c for contradictory bounds. All checks run and their
// messages accumulate in a fixed order: price, bedrooms, dates.
//
// A pair is only compared when both sides are present. A side whose value
// is numerically zero counts as absent, so {minPrice: 5, maxPrice: 0} is
// accepted.
func Validate(c Criteria) ValidationResult {
	errs := []string{}

	if min, max, ok := truthyPair(c.MinPrice, c.MaxPrice); ok && min > max {
		errs = append(errs, MsgPriceRange)
	}
	if min, max, ok := truthyPair(c.MinBedrooms, c.MaxBedrooms); ok && min > max {
		errs = append(errs, MsgBedroomsRange)
	}
	if c.DateFrom != "" && c.DateTo != "" {
		from, okFrom := catalog.ParseDate(c.DateFrom)
		to, okTo := catalog.ParseDate(c.DateTo)
		if okFrom && okTo && from.After(to) {
			errs = append(errs, MsgDateRange)
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func truthyPair(a, b string) (float64, float64, bool) {
	x, okA := number(a)
	y, okB := number(b)
	if !okA || !okB || x == 0 || y == 0 {
		return 0, 0, false
	}
	return x, y, true
}
