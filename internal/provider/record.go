// Package provider defines the provider record, the keyword filter that
// selects provider files, and the builders that turn a source file into a
// record.
package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind is the category of the source file a record came from.
type Kind string

const (
	// KindCredential marks records built from credential files.
	KindCredential Kind = "credential"

	// KindNode marks records built from node files.
	KindNode Kind = "node"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindCredential || k == KindNode
}

// Record is the metadata extracted from one provider file.
//
// Nil fields were not found. File and Kind are always set.
type Record struct {
	Kind             Kind
	Name             *string
	DisplayName      *string
	BaseURL          *string
	APIBaseURL       *string
	DocumentationURL *string
	Icon             *string
	File             string
}

// Label returns the name shown in summaries.
func (r Record) Label() string {
	if r.DisplayName != nil {
		return *r.DisplayName
	}
	if r.Name != nil {
		return *r.Name
	}
	return "Unknown"
}

// credentialJSON fixes the key order of credential records.
type credentialJSON struct {
	Name             *string `json:"name"`
	DisplayName      *string `json:"displayName"`
	BaseURL          *string `json:"baseUrl"`
	APIBaseURL       *string `json:"apiBaseUrl"`
	DocumentationURL *string `json:"documentationUrl"`
	Icon             *string `json:"icon"`
	Type             Kind    `json:"type"`
	File             string  `json:"file"`
}

// nodeJSON fixes the key order of node records, which carry no apiBaseUrl
// or documentationUrl keys.
type nodeJSON struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"displayName"`
	BaseURL     *string `json:"baseUrl"`
	Icon        *string `json:"icon"`
	Type        Kind    `json:"type"`
	File        string  `json:"file"`
}

// MarshalJSON implements json.Marshaler. Absent fields encode as null.
// json.Marshal escapes <, > and & in the result again; write through an
// Encoder with SetEscapeHTML(false), as catalog.Encode does, to keep them.
func (r Record) MarshalJSON() ([]byte, error) {
	var v any
	switch r.Kind {
	case KindCredential:
		v = credentialJSON{
			Name:             r.Name,
			DisplayName:      r.DisplayName,
			BaseURL:          r.BaseURL,
			APIBaseURL:       r.APIBaseURL,
			DocumentationURL: r.DocumentationURL,
			Icon:             r.Icon,
			Type:             r.Kind,
			File:             r.File,
		}
	case KindNode:
		v = nodeJSON{
			Name:        r.Name,
			DisplayName: r.DisplayName,
			BaseURL:     r.BaseURL,
			Icon:        r.Icon,
			Type:        r.Kind,
			File:        r.File,
		}
	default:
		return nil, fmt.Errorf("unknown record kind %q", r.Kind)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Record) UnmarshalJSON(data []byte) error {
	var v credentialJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if !v.Type.Valid() {
		return fmt.Errorf("unknown record kind %q", v.Type)
	}
	*r = Record{
		Kind:             v.Type,
		Name:             v.Name,
		DisplayName:      v.DisplayName,
		BaseURL:          v.BaseURL,
		APIBaseURL:       v.APIBaseURL,
		DocumentationURL: v.DocumentationURL,
		Icon:             v.Icon,
		File:             v.File,
	}
	return nil
}

// optional converts an extraction result into a record field.
func optional(v string, ok bool) *string {
	if !ok || v == "" {
		return nil
	}
	return &v
}
