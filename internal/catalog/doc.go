// Package catalog holds the property model and the read-only catalog the
// search engine works over.
//
// A catalog is loaded once from an external source and never mutated
// afterwards:
//
//   - JSON or YAML files (.json, .yaml, .yml) containing either a list of
//     properties or an object with a "properties" list
//   - SQLite databases (.db, .sqlite) with a properties table
//
// Raw catalog documents can be checked against the embedded CUE schema
// (schema.cue) before they are decoded. Formatting helpers render prices,
// dates and coordinates for display.
package catalog
