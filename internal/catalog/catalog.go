package catalog

import (
	"fmt"
	"sort"
)

// Catalog is an immutable, ordered collection of properties.
type Catalog struct {
	properties []Property
	byID       map[string]int
}

// New builds a catalog from props, preserving their order.
// The slice is copied; later changes to props do not affect the catalog.
func New(props []Property) (*Catalog, error) {
	c := &Catalog{
		properties: make([]Property, len(props)),
		byID:       make(map[string]int, len(props)),
	}
	copy(c.properties, props)

	for i, p := range c.properties {
		if p.ID == "" {
			return nil, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("property at index %d has no id", i)}
		}
		if prev, dup := c.byID[p.ID]; dup {
			return nil, &LoadError{
				Code:    ErrCodeDuplicateID,
				Message: fmt.Sprintf("duplicate property id %q at index %d and %d", p.ID, prev, i),
			}
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// Properties returns the catalog in its original order.
// The returned slice is shared and must be treated as read-only.
func (c *Catalog) Properties() []Property {
	return c.properties
}

// Len returns the number of properties.
func (c *Catalog) Len() int {
	return len(c.properties)
}

// ByID looks up a property by id.
func (c *Catalog) ByID(id string) (Property, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Property{}, false
	}
	return c.properties[i], true
}

// Postcodes returns the distinct postcodes in ascending order.
func (c *Catalog) Postcodes() []string {
	return UniquePostcodes(c.properties)
}

// UniquePostcodes returns the distinct postcodes of props in ascending order.
func UniquePostcodes(props []Property) []string {
	seen := make(map[string]struct{}, len(props))
	out := make([]string, 0, len(props))
	for _, p := range props {
		if _, ok := seen[p.Postcode]; ok {
			continue
		}
		seen[p.Postcode] = struct{}{}
		out = append(out, p.Postcode)
	}
	sort.Strings(out)
	return out
}
