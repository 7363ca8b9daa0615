package catalog

import (
	"errors"
	"fmt"
)

// Error codes for catalog failures. The CLI reports them verbatim.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Catalog path not found
	ErrCodeUnsupported = "E003" // Unknown catalog file extension
	ErrCodeDecode      = "E004" // Malformed JSON/YAML document
	ErrCodeSchema      = "E005" // Document violates the catalog schema
	ErrCodeDuplicateID = "E006" // Two properties share an id
	ErrCodeDatabase    = "E007" // SQLite open/query failure
)

// LoadError describes why a catalog could not be loaded.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrorCode extracts the LoadError code from err, or ErrCodeGeneric.
func ErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ErrCodeGeneric
}

// SchemaError is a single schema violation at a property index.
type SchemaError struct {
	Index   int    `json:"index"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
}

func (e *SchemaError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("properties[%d] (%s): %s", e.Index, e.ID, e.Message)
	}
	return fmt.Sprintf("properties[%d]: %s", e.Index, e.Message)
}
