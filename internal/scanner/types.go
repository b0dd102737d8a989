package scanner

import (
	"errors"
	"time"

	"github.com/fyrsmithlabs/providerscan/internal/config"
	"github.com/fyrsmithlabs/providerscan/internal/provider"
)

var (
	// ErrRootNotFound indicates the source root does not exist.
	ErrRootNotFound = errors.New("source root not found")

	// ErrRootNotDir indicates the source root is not a directory.
	ErrRootNotDir = errors.New("source root is not a directory")
)

// Options configures one scan.
type Options struct {
	// SourceRoot is the checkout to scan. Record paths are relative to it.
	SourceRoot string

	// CredentialsDir is listed non-recursively for CredentialSuffix files.
	CredentialsDir   string
	CredentialSuffix string

	// NodesDir is walked recursively for NodeSuffix files.
	NodesDir   string
	NodeSuffix string

	// IgnoreFile is a gitignore-style file in SourceRoot. Missing is fine.
	IgnoreFile string

	// ExcludePatterns are doublestar patterns added to the ignore file's.
	ExcludePatterns []string

	// MaxFileSize bounds a single source file in bytes. Zero disables the check.
	MaxFileSize int64
}

// OptionsFromConfig maps the scan section of the configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SourceRoot:       cfg.Scan.SourceRoot,
		CredentialsDir:   cfg.Scan.CredentialsDir,
		CredentialSuffix: cfg.Scan.CredentialSuffix,
		NodesDir:         cfg.Scan.NodesDir,
		NodeSuffix:       cfg.Scan.NodeSuffix,
		IgnoreFile:       cfg.Scan.IgnoreFile,
		MaxFileSize:      cfg.Scan.MaxFileSize,
	}
}

// Stats counts files by outcome.
type Stats struct {
	// FilesSeen is every file with a matching suffix.
	FilesSeen int

	// FilesIgnored were excluded by ignore patterns.
	FilesIgnored int

	// FilesMatched passed the provider filter and produced a record.
	FilesMatched int

	// Unreadable records were produced from files that could not be read.
	Unreadable int

	Credentials int
	Nodes       int
}

// Result is the outcome of a scan.
type Result struct {
	// Root is the cleaned source root.
	Root string

	// Records holds credentials first, then nodes, each in path order.
	Records []provider.Record

	Stats Stats

	// Duration is the wall time of the scan.
	Duration time.Duration
}
