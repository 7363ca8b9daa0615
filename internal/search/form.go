package search

import (
	"fmt"
	"strings"

	"github.com/roach88/estate/internal/catalog"
)

// DateMode selects which date inputs of the search form are active.
type DateMode string

const (
	DateModeAfter   DateMode = "after"
	DateModeBetween DateMode = "between"
)

// ParseDateMode accepts "after" or "between". Empty means after.
func ParseDateMode(s string) (DateMode, error) {
	switch DateMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DateModeAfter:
		return DateModeAfter, nil
	case DateModeBetween:
		return DateModeBetween, nil
	default:
		return "", &CriteriaError{Field: "dateMode", Message: fmt.Sprintf("must be %q or %q, got %q", DateModeAfter, DateModeBetween, s)}
	}
}

// Form mirrors the search form inputs before submission.
type Form struct {
	Type        string
	MinPrice    string
	MaxPrice    string
	MinBedrooms string
	MaxBedrooms string
	DateMode    DateMode
	DateAfter   string
	DateFrom    string
	DateTo      string
	Postcode    string
}

// Criteria builds the submission the form would send. Type defaults to
// "any", and only the active date mode contributes date fields. Dates
// that parse are normalized to YYYY-MM-DD.
func (f Form) Criteria() Criteria {
	c := Criteria{
		Type:        f.Type,
		MinPrice:    f.MinPrice,
		MaxPrice:    f.MaxPrice,
		MinBedrooms: f.MinBedrooms,
		MaxBedrooms: f.MaxBedrooms,
		Postcode:    f.Postcode,
	}
	if c.Type == "" {
		c.Type = AnyType
	}

	switch f.DateMode {
	case DateModeBetween:
		c.DateFrom = normalizeDate(f.DateFrom)
		c.DateTo = normalizeDate(f.DateTo)
	default:
		c.DateAfter = normalizeDate(f.DateAfter)
	}
	return c
}

func normalizeDate(s string) string {
	if t, ok := catalog.ParseDate(s); ok {
		return t.Format(catalog.DateLayout)
	}
	return s
}
