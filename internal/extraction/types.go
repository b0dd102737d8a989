package extraction

import "time"

// Field identifies what a rule extracts.
type Field string

const (
	// FieldBaseURL is the base API URL of a credential or node.
	FieldBaseURL Field = "baseUrl"

	// FieldName is the machine name assigned in a credential class.
	FieldName Field = "name"

	// FieldDisplayName is the human label assigned in a credential class.
	FieldDisplayName Field = "displayName"

	// FieldAPIBaseURL is the colon-style apiBaseUrl property of a credential.
	FieldAPIBaseURL Field = "apiBaseUrl"

	// FieldDocumentationURL is the documentation link assigned in a credential class.
	FieldDocumentationURL Field = "documentationUrl"

	// FieldIcon is the loosely matched icon reference of a credential.
	FieldIcon Field = "icon"

	// FieldNodeDisplayName is the colon-style displayName of a node description.
	FieldNodeDisplayName Field = "node.displayName"

	// FieldNodeIcon is the light-theme file icon declared in a node description.
	FieldNodeIcon Field = "node.icon"
)

// Rule is a single extraction pattern.
type Rule struct {
	Name  string `json:"name" koanf:"name"`
	Field Field  `json:"field" koanf:"field"`
	Regex string `json:"regex" koanf:"regex"`

	// Group is the capture group holding the value. Zero means the whole match.
	Group int `json:"group" koanf:"group"`

	// StripTemplates removes ={{...}} expressions and surrounding whitespace
	// from the capture before it is checked.
	StripTemplates bool `json:"strip_templates,omitempty" koanf:"strip_templates"`

	// RequirePrefix rejects captures that do not start with it.
	RequirePrefix string `json:"require_prefix,omitempty" koanf:"require_prefix"`
}

// Config holds extractor configuration.
type Config struct {
	// Rules in priority order. Empty means DefaultRules().
	Rules []Rule `json:"rules,omitempty" koanf:"rules"`

	// TemplateRegex matches templating expressions removed by StripTemplates.
	TemplateRegex string `json:"template_regex" koanf:"template_regex"`

	// FallbackURLRegex matches bare absolute URLs for the baseUrl fallback scan.
	FallbackURLRegex string `json:"fallback_url_regex" koanf:"fallback_url_regex"`

	// PreferSubstring marks the preferred fallback URL (case-insensitive).
	PreferSubstring string `json:"prefer_substring" koanf:"prefer_substring"`

	// MatchTimeout bounds a single regex evaluation. Zero disables the bound.
	MatchTimeout time.Duration `json:"match_timeout" koanf:"match_timeout"`
}

const (
	defaultTemplateRegex    = `=\{\{.*?\}\}`
	defaultFallbackURLRegex = `https?://[a-zA-Z0-9.-]+(?::[0-9]+)?(?:/[^\s'"\x60]*)?`
	defaultPreferSubstring  = "api"
	defaultMatchTimeout     = time.Second
)

// DefaultConfig returns the extractor configuration used by the scanner.
func DefaultConfig() Config {
	return Config{
		Rules:            DefaultRules(),
		TemplateRegex:    defaultTemplateRegex,
		FallbackURLRegex: defaultFallbackURLRegex,
		PreferSubstring:  defaultPreferSubstring,
		MatchTimeout:     defaultMatchTimeout,
	}
}
