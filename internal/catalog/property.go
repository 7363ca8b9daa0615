package catalog

import (
	"strings"
	"time"

	"github.com/mmcloughlin/geohash"
)

// DateLayout is the ISO 8601 calendar date layout used for dateAdded.
const DateLayout = "2006-01-02"

// geohashPrecision gives cells of roughly 150m x 150m.
const geohashPrecision = 7

// Property is a single listing in the catalog.
//
// Only the fields up to Location take part in search. The remaining fields
// are carried for the details view.
type Property struct {
	ID          string  `json:"id" yaml:"id"`
	Type        string  `json:"type" yaml:"type"`
	Price       float64 `json:"price" yaml:"price"`
	Bedrooms    int     `json:"bedrooms" yaml:"bedrooms"`
	DateAdded   string  `json:"dateAdded" yaml:"dateAdded"`
	Postcode    string  `json:"postcode" yaml:"postcode"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Location    string  `json:"location,omitempty" yaml:"location,omitempty"`

	LongDescription string       `json:"longDescription,omitempty" yaml:"longDescription,omitempty"`
	Tenure          string       `json:"tenure,omitempty" yaml:"tenure,omitempty"`
	Thumbnail       string       `json:"thumbnail,omitempty" yaml:"thumbnail,omitempty"`
	Images          []string     `json:"images,omitempty" yaml:"images,omitempty"`
	FloorPlan       string       `json:"floorPlan,omitempty" yaml:"floorPlan,omitempty"`
	Coordinates     *Coordinates `json:"coordinates,omitempty" yaml:"coordinates,omitempty"`
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Added returns the calendar date the property was listed.
// ok is false when DateAdded does not parse.
func (p Property) Added() (t time.Time, ok bool) {
	return ParseDate(p.DateAdded)
}

// Geohash returns the geohash cell of the property's coordinates, or ""
// when the property has none.
func (p Property) Geohash() string {
	if p.Coordinates == nil {
		return ""
	}
	return geohash.EncodeWithPrecision(p.Coordinates.Lat, p.Coordinates.Lng, geohashPrecision)
}

// dateLayouts are tried in order. Anything with a time component is
// reduced to its calendar date.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate parses an ISO 8601 date (or date-time) into a UTC calendar
// date at midnight.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
