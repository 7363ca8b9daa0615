package search

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/roach88/estate/internal/catalog"
)

// Criteria field names as they appear in maps, flags and scenario files.
const (
	FieldType        = "type"
	FieldMinPrice    = "minPrice"
	FieldMaxPrice    = "maxPrice"
	FieldMinBedrooms = "minBedrooms"
	FieldMaxBedrooms = "maxBedrooms"
	FieldDateAfter   = "dateAfter"
	FieldDateFrom    = "dateFrom"
	FieldDateTo      = "dateTo"
	FieldPostcode    = "postcode"
)

// Fields lists every criteria field in display order.
var Fields = []string{
	FieldType,
	FieldMinPrice,
	FieldMaxPrice,
	FieldMinBedrooms,
	FieldMaxBedrooms,
	FieldDateAfter,
	FieldDateFrom,
	FieldDateTo,
	FieldPostcode,
}

// Criteria is one search submission. Every field is optional; "" means
// absent.
type Criteria struct {
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	MinPrice    string `json:"minPrice,omitempty" yaml:"minPrice,omitempty"`
	MaxPrice    string `json:"maxPrice,omitempty" yaml:"maxPrice,omitempty"`
	MinBedrooms string `json:"minBedrooms,omitempty" yaml:"minBedrooms,omitempty"`
	MaxBedrooms string `json:"maxBedrooms,omitempty" yaml:"maxBedrooms,omitempty"`
	DateAfter   string `json:"dateAfter,omitempty" yaml:"dateAfter,omitempty"`
	DateFrom    string `json:"dateFrom,omitempty" yaml:"dateFrom,omitempty"`
	DateTo      string `json:"dateTo,omitempty" yaml:"dateTo,omitempty"`
	Postcode    string `json:"postcode,omitempty" yaml:"postcode,omitempty"`
}

// CriteriaError reports a criteria field that could not be set.
type CriteriaError struct {
	Field   string
	Message string
}

func (e *CriteriaError) Error() string {
	if e.Field == "" {
		return "criteria: " + e.Message
	}
	return fmt.Sprintf("criteria %s: %s", e.Field, e.Message)
}

// IsEmpty reports whether no field holds a value.
func (c Criteria) IsEmpty() bool {
	return c == Criteria{}
}

// field returns a pointer to the named field. Names match
// case-insensitively.
func (c *Criteria) field(name string) *string {
	switch strings.ToLower(name) {
	case "type":
		return &c.Type
	case "minprice":
		return &c.MinPrice
	case "maxprice":
		return &c.MaxPrice
	case "minbedrooms":
		return &c.MinBedrooms
	case "maxbedrooms":
		return &c.MaxBedrooms
	case "dateafter":
		return &c.DateAfter
	case "datefrom":
		return &c.DateFrom
	case "dateto":
		return &c.DateTo
	case "postcode":
		return &c.Postcode
	default:
		return nil
	}
}

// Set assigns a raw value to the named field.
func (c *Criteria) Set(name, value string) error {
	f := c.field(name)
	if f == nil {
		return &CriteriaError{Field: name, Message: "unknown field"}
	}
	*f = value
	return nil
}

// Get returns the raw value of the named field.
func (c Criteria) Get(name string) (string, bool) {
	f := c.field(name)
	if f == nil {
		return "", false
	}
	return *f, true
}

// Map returns the present fields keyed by canonical field name.
func (c Criteria) Map() map[string]string {
	out := make(map[string]string)
	for _, name := range Fields {
		if v, _ := c.Get(name); v != "" {
			out[name] = v
		}
	}
	return out
}

// FromMap builds Criteria from a decoded YAML or JSON object.
//
// Strings are kept verbatim, numbers are rendered in plain decimal and
// nil means absent. Unknown keys and other value types are errors.
func FromMap(m map[string]any) (Criteria, error) {
	var c Criteria
	for k, v := range m {
		s, err := stringValue(v)
		if err != nil {
			return Criteria{}, &CriteriaError{Field: k, Message: err.Error()}
		}
		if err := c.Set(k, s); err != nil {
			return Criteria{}, err
		}
	}
	return c, nil
}

// ParseAssignments builds Criteria from "key=value" pairs.
func ParseAssignments(pairs []string) (Criteria, error) {
	var c Criteria
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return Criteria{}, &CriteriaError{Message: fmt.Sprintf("expected key=value, got %q", pair)}
		}
		if err := c.Set(strings.TrimSpace(k), v); err != nil {
			return Criteria{}, err
		}
	}
	return c, nil
}

func stringValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return "", fmt.Errorf("non-finite number %v", val)
		}
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case time.Time:
		return val.Format(catalog.DateLayout), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// number parses a raw numeric field. Surrounding whitespace is ignored.
// ok is false for empty or non-numeric input.
func number(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
