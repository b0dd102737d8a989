// Package icon picks the icon file that sits next to a node source file.
package icon

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultPatterns are the icon name patterns, in preference order.
var DefaultPatterns = []string{"*.svg", "*.png"}

// DefaultDarkMarker marks dark-theme variants.
const DefaultDarkMarker = "dark"

// Resolver selects an icon from a directory listing.
type Resolver struct {
	// Patterns are filepath.Match patterns tried in order. The first pattern
	// with any match decides the result.
	Patterns []string

	// DarkMarker is a case-insensitive substring identifying variants that
	// are only used when nothing else matches the same pattern.
	DarkMarker string
}

// NewResolver creates a resolver. Empty arguments fall back to the defaults.
func NewResolver(patterns []string, darkMarker string) *Resolver {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	if darkMarker == "" {
		darkMarker = DefaultDarkMarker
	}
	return &Resolver{
		Patterns:   patterns,
		DarkMarker: strings.ToLower(darkMarker),
	}
}

// Resolve returns the preferred icon file name in dir.
//
// Matches are considered in name order. Within the first pattern that
// matches anything, a name without the dark marker wins; otherwise the first
// match is returned. An unreadable directory resolves to nothing.
func (r *Resolver) Resolve(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	for _, pattern := range r.Patterns {
		var matches []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if ok, _ := filepath.Match(pattern, entry.Name()); ok {
				matches = append(matches, entry.Name())
			}
		}
		if len(matches) == 0 {
			continue
		}

		for _, name := range matches {
			if !strings.Contains(strings.ToLower(name), r.DarkMarker) {
				return name, true
			}
		}
		return matches[0], true
	}

	return "", false
}

var defaultResolver = NewResolver(nil, "")

// Resolve runs the default resolver.
func Resolve(dir string) (string, bool) {
	return defaultResolver.Resolve(dir)
}
