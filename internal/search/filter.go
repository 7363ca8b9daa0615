package search

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/estate/internal/catalog"
)

// AnyType disables the type constraint, in any letter case.
const AnyType = "any"

var (
	fold  = cases.Fold()
	upper = cases.Upper(language.Und)
)

// Filter returns the properties satisfying every present constraint in c,
// in their original order.
//
// When c is empty the input slice itself is returned. Otherwise the result
// is a new slice and properties is left untouched. Numeric fields that do
// not parse are skipped. A date that does not parse, on either side,
// never excludes a property.
func Filter(properties []catalog.Property, c Criteria) []catalog.Property {
	if c.IsEmpty() {
		return properties
	}

	m := compile(c)
	out := make([]catalog.Property, 0, len(properties))
	for _, p := range properties {
		if m.match(p) {
			out = append(out, p)
		}
	}
	return out
}

// bound is an optional inclusive numeric limit.
type bound struct {
	value float64
	set   bool
}

// dateBound is an optional date limit. invalid records a present value
// that did not parse, which compares false against everything.
type dateBound struct {
	value   time.Time
	set     bool
	invalid bool
}

// matcher is Criteria with every field parsed once.
type matcher struct {
	typ         string
	minPrice    bound
	maxPrice    bound
	minBedrooms bound
	maxBedrooms bound
	dateAfter   dateBound
	dateFrom    dateBound
	dateTo      dateBound
	postcode    string
}

func compile(c Criteria) matcher {
	var m matcher

	if c.Type != "" && fold.String(c.Type) != AnyType {
		m.typ = fold.String(c.Type)
	}
	m.minPrice = parseBound(c.MinPrice)
	m.maxPrice = parseBound(c.MaxPrice)
	m.minBedrooms = parseBound(c.MinBedrooms)
	m.maxBedrooms = parseBound(c.MaxBedrooms)
	m.dateAfter = parseDateBound(c.DateAfter)
	m.dateFrom = parseDateBound(c.DateFrom)
	m.dateTo = parseDateBound(c.DateTo)
	m.postcode = upper.String(strings.TrimSpace(c.Postcode))

	return m
}

func parseBound(s string) bound {
	n, ok := number(s)
	return bound{value: n, set: ok}
}

func parseDateBound(s string) dateBound {
	if s == "" {
		return dateBound{}
	}
	t, ok := catalog.ParseDate(s)
	return dateBound{value: t, set: true, invalid: !ok}
}

func (m matcher) match(p catalog.Property) bool {
	if m.typ != "" && fold.String(p.Type) != m.typ {
		return false
	}

	if m.minPrice.set && p.Price < m.minPrice.value {
		return false
	}
	if m.maxPrice.set && p.Price > m.maxPrice.value {
		return false
	}

	beds := float64(p.Bedrooms)
	if m.minBedrooms.set && beds < m.minBedrooms.value {
		return false
	}
	if m.maxBedrooms.set && beds > m.maxBedrooms.value {
		return false
	}

	if m.dateAfter.set || m.dateFrom.set || m.dateTo.set {
		added, ok := p.Added()
		if ok {
			if m.dateAfter.excludesBefore(added) || m.dateFrom.excludesBefore(added) {
				return false
			}
			if m.dateTo.excludesAfter(added) {
				return false
			}
		}
	}

	if m.postcode != "" && !strings.HasPrefix(upper.String(p.Postcode), m.postcode) {
		return false
	}

	return true
}

func (b dateBound) excludesBefore(t time.Time) bool {
	return b.set && !b.invalid && t.Before(b.value)
}

func (b dateBound) excludesAfter(t time.Time) bool {
	return b.set && !b.invalid && t.After(b.value)
}
