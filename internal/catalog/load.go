package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load opens the catalog at path, choosing the source by file extension.
//
// JSON is decoded with the YAML decoder; every JSON document is valid YAML.
// File catalogs are checked against the catalog schema before decoding.
func Load(ctx context.Context, path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: "catalog not found", Path: path}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "stat catalog", Path: path, Err: err}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".yaml", ".yml":
		return LoadFile(path)
	case ".db", ".sqlite", ".sqlite3":
		src, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		props, err := src.Properties(ctx)
		if err != nil {
			return nil, err
		}
		return New(props)
	default:
		return nil, &LoadError{
			Code:    ErrCodeUnsupported,
			Message: fmt.Sprintf("unsupported catalog extension %q", ext),
			Path:    path,
		}
	}
}

// LoadFile reads a JSON or YAML catalog document, checks it against the
// schema and decodes it.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "read catalog", Path: path, Err: err}
	}

	schema, err := NewSchema()
	if err != nil {
		return nil, err
	}
	if errs := schema.Check(data); len(errs) > 0 {
		return nil, &LoadError{
			Code:    ErrCodeSchema,
			Message: fmt.Sprintf("catalog violates schema (%d error(s))", len(errs)),
			Path:    path,
			Err:     errs[0],
		}
	}

	props, err := Decode(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return New(props)
}

// Decode parses a catalog document. The top level is either a sequence of
// properties or a mapping with a "properties" sequence.
func Decode(data []byte) ([]Property, error) {
	seq, err := propertiesNode(data)
	if err != nil {
		return nil, err
	}
	var props []Property
	if err := seq.Decode(&props); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: "decode properties", Err: err}
	}
	if props == nil {
		props = []Property{}
	}
	return props, nil
}

// decodeRaw returns each property as a generic map, for schema checks.
func decodeRaw(data []byte) ([]any, error) {
	seq, err := propertiesNode(data)
	if err != nil {
		return nil, err
	}
	var raw []any
	if err := seq.Decode(&raw); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: "decode properties", Err: err}
	}
	return raw, nil
}

// propertiesNode locates the property sequence inside a document.
func propertiesNode(data []byte) (*yaml.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &LoadError{Code: ErrCodeDecode, Message: "empty catalog document"}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Code: ErrCodeDecode, Message: "parse catalog document", Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &LoadError{Code: ErrCodeDecode, Message: "empty catalog document"}
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		return root, nil
	case yaml.MappingNode:
		// Mapping content alternates key, value.
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value == "properties" {
				seq := root.Content[i+1]
				if seq.Kind != yaml.SequenceNode {
					return nil, &LoadError{Code: ErrCodeDecode, Message: `"properties" must be a list`}
				}
				return seq, nil
			}
		}
		return nil, &LoadError{Code: ErrCodeDecode, Message: `catalog object has no "properties" list`}
	default:
		return nil, &LoadError{Code: ErrCodeDecode, Message: "catalog must be a list or an object with a properties list"}
	}
}
