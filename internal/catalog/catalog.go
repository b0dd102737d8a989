// Package catalog writes provider records as the JSON document consumed by
// the key manager, and validates documents against the embedded schema.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/fyrsmithlabs/providerscan/internal/provider"
)

// ErrInvalidCatalog indicates a document does not match the catalog schema.
var ErrInvalidCatalog = errors.New("invalid provider catalog")

//go:embed catalog.schema.json
var schemaJSON []byte

const schemaURL = "https://providerscan.local/schema/catalog.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing catalog schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding catalog schema: %w", err)
	}
	sch, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling catalog schema: %w", err)
	}
	return sch, nil
})

// Schema returns the catalog JSON schema document.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// Encode writes records as a two-space indented JSON array followed by a
// newline. HTML characters and non-ASCII text are written as is. A nil
// slice is written as [].
func Encode(w io.Writer, records []provider.Record) error {
	if records == nil {
		records = []provider.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	return nil
}

// Marshal returns the encoded catalog.
func Marshal(records []provider.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks an encoded catalog against the schema.
func Validate(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return nil
}

// Write encodes and validates records, then replaces the file at path.
// Missing parent directories are created.
func Write(path string, records []provider.Record) error {
	data, err := Marshal(records)
	if err != nil {
		return err
	}
	if err := Validate(data); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	return nil
}

// Read loads and validates a catalog file.
func Read(path string) ([]provider.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	var records []provider.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return records, nil
}
