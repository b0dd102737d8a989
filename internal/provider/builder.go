package provider

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/fyrsmithlabs/providerscan/internal/extraction"
)

var (
	// ErrFileTooLarge indicates a source file exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file exceeds size limit")

	// ErrNotUTF8 indicates a source file is not valid UTF-8 text.
	ErrNotUTF8 = errors.New("file is not valid UTF-8")
)

// Builder turns one source file into a record.
//
// Build always returns a record tagged with the builder's kind and rel. A
// non-nil error means the file could not be read; every optional field of
// the returned record is then nil.
type Builder interface {
	Kind() Kind
	Build(path, rel string) (Record, error)
}

// IconResolver picks an icon file from a directory.
type IconResolver interface {
	Resolve(dir string) (string, bool)
}

// CredentialBuilder builds records from credential class files.
type CredentialBuilder struct {
	extractor   *extraction.Extractor
	maxFileSize int64
}

// NewCredentialBuilder creates a credential builder. A maxFileSize of zero
// disables the size check.
func NewCredentialBuilder(ex *extraction.Extractor, maxFileSize int64) *CredentialBuilder {
	return &CredentialBuilder{extractor: ex, maxFileSize: maxFileSize}
}

// Kind returns KindCredential.
func (b *CredentialBuilder) Kind() Kind { return KindCredential }

// Build extracts name, displayName, baseUrl, apiBaseUrl, documentationUrl and
// icon from a credential file.
func (b *CredentialBuilder) Build(path, rel string) (Record, error) {
	rec := Record{Kind: KindCredential, File: rel}

	text, err := readSource(path, b.maxFileSize)
	if err != nil {
		return rec, err
	}

	rec.Name = optional(b.extractor.Field(text, extraction.FieldName))
	rec.DisplayName = optional(b.extractor.Field(text, extraction.FieldDisplayName))
	rec.BaseURL = optional(b.extractor.BaseURL(text))
	rec.APIBaseURL = optional(b.extractor.Field(text, extraction.FieldAPIBaseURL))
	rec.DocumentationURL = optional(b.extractor.Field(text, extraction.FieldDocumentationURL))
	rec.Icon = optional(b.extractor.Field(text, extraction.FieldIcon))

	return rec, nil
}

// NodeBuilder builds records from node description files.
type NodeBuilder struct {
	extractor   *extraction.Extractor
	icons       IconResolver
	maxFileSize int64
}

// NewNodeBuilder creates a node builder. A maxFileSize of zero disables the
// size check.
func NewNodeBuilder(ex *extraction.Extractor, icons IconResolver, maxFileSize int64) *NodeBuilder {
	return &NodeBuilder{extractor: ex, icons: icons, maxFileSize: maxFileSize}
}

// Kind returns KindNode.
func (b *NodeBuilder) Kind() Kind { return KindNode }

// Build extracts displayName, baseUrl and icon from a node file. An icon file
// found next to the source replaces the icon declared in it.
func (b *NodeBuilder) Build(path, rel string) (Record, error) {
	rec := Record{Kind: KindNode, File: rel}

	text, err := readSource(path, b.maxFileSize)
	if err != nil {
		return rec, err
	}

	rec.DisplayName = optional(b.extractor.Field(text, extraction.FieldNodeDisplayName))
	rec.BaseURL = optional(b.extractor.BaseURL(text))
	rec.Icon = optional(b.extractor.Field(text, extraction.FieldNodeIcon))

	if b.icons != nil {
		if name, ok := b.icons.Resolve(filepath.Dir(path)); ok {
			rec.Icon = optional(name, ok)
		}
	}

	return rec, nil
}

// readSource reads a whole source file as UTF-8 text.
func readSource(path string, maxSize int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat: %w", err)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), maxSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	if !utf8.Valid(content) {
		return "", ErrNotUTF8
	}

	return string(content), nil
}

// Ensure builders implement Builder.
var _ Builder = (*CredentialBuilder)(nil)
var _ Builder = (*NodeBuilder)(nil)
