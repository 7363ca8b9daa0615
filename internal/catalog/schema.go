package catalog

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// Schema checks raw catalog documents against the #Property definition.
//
// A Schema is not safe for concurrent use.
type Schema struct {
	ctx      *cue.Context
	property cue.Value
}

// NewSchema compiles the embedded CUE schema.
func NewSchema() (*Schema, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "compile catalog schema", Err: err}
	}
	property := value.LookupPath(cue.ParsePath("#Property"))
	if !property.Exists() {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "catalog schema has no #Property definition"}
	}
	return &Schema{ctx: ctx, property: property}, nil
}

// Check validates every property in a JSON or YAML catalog document.
// It returns all violations; a nil result means the document is valid.
// A document that does not parse is reported as a single error.
func (s *Schema) Check(data []byte) []error {
	raw, err := decodeRaw(data)
	if err != nil {
		return []error{err}
	}

	var errs []error
	for i, item := range raw {
		id := rawID(item)
		encoded := s.ctx.Encode(item)
		if err := encoded.Err(); err != nil {
			errs = append(errs, &SchemaError{Index: i, ID: id, Message: err.Error()})
			continue
		}
		unified := s.property.Unify(encoded)
		if err := unified.Validate(cue.Concrete(true)); err != nil {
			for _, e := range cueerrors.Errors(err) {
				errs = append(errs, &SchemaError{Index: i, ID: id, Message: e.Error()})
			}
		}
	}
	return errs
}

// rawID pulls the id out of an undecoded property for error messages.
func rawID(item any) string {
	m, ok := item.(map[string]any)
	if !ok {
		return ""
	}
	switch id := m["id"].(type) {
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}
