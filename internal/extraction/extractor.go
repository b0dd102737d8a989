package extraction

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dlclark/regexp2"
)

// Extractor applies compiled rules to raw file text.
type Extractor struct {
	rules    []Rule
	byField  map[Field][]*compiledRule
	template *regexp2.Regexp
	fallback *regexp2.Regexp
	prefer   string
}

// compiledRule holds a pre-compiled rule pattern.
type compiledRule struct {
	Rule
	regex *regexp2.Regexp
}

// NewExtractor compiles the configured rules. A rule that fails to compile
// or names a missing capture group is an error.
func NewExtractor(cfg Config) (*Extractor, error) {
	rules := cfg.Rules
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	byField := make(map[Field][]*compiledRule)
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rule for field %q has no name", r.Field)
		}
		if r.Field == "" {
			return nil, fmt.Errorf("rule %q has no field", r.Name)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate rule name %q", r.Name)
		}
		seen[r.Name] = true

		re, err := compile(r.Regex, cfg)
		if err != nil {
			return nil, fmt.Errorf("compiling rule %q: %w", r.Name, err)
		}
		if r.Group < 0 || !slices.Contains(re.GetGroupNumbers(), r.Group) {
			return nil, fmt.Errorf("rule %q: capture group %d does not exist", r.Name, r.Group)
		}
		byField[r.Field] = append(byField[r.Field], &compiledRule{Rule: r, regex: re})
	}

	templateExpr := cfg.TemplateRegex
	if templateExpr == "" {
		templateExpr = defaultTemplateRegex
	}
	template, err := compile(templateExpr, cfg)
	if err != nil {
		return nil, fmt.Errorf("compiling template pattern: %w", err)
	}

	fallbackExpr := cfg.FallbackURLRegex
	if fallbackExpr == "" {
		fallbackExpr = defaultFallbackURLRegex
	}
	fallback, err := compile(fallbackExpr, cfg)
	if err != nil {
		return nil, fmt.Errorf("compiling fallback URL pattern: %w", err)
	}

	prefer := cfg.PreferSubstring
	if prefer == "" {
		prefer = defaultPreferSubstring
	}

	return &Extractor{
		rules:    slices.Clone(rules),
		byField:  byField,
		template: template,
		fallback: fallback,
		prefer:   strings.ToLower(prefer),
	}, nil
}

func compile(expr string, cfg Config) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(expr, regexp2.None)
	if err != nil {
		return nil, err
	}
	if cfg.MatchTimeout > 0 {
		re.MatchTimeout = cfg.MatchTimeout
	}
	return re, nil
}

// Rules returns the rules in priority order.
func (e *Extractor) Rules() []Rule {
	return slices.Clone(e.rules)
}

// Field returns the first value accepted by the rules registered for f.
func (e *Extractor) Field(text string, f Field) (string, bool) {
	for _, r := range e.byField[f] {
		if v, ok := e.apply(r, text); ok {
			return v, true
		}
	}
	return "", false
}

// BaseURL returns the best-guess base URL of a source file.
//
// The baseUrl rules run first. When none accepts a value the whole text is
// scanned for bare URLs, preferring one that contains the prefer substring.
func (e *Extractor) BaseURL(text string) (string, bool) {
	if v, ok := e.Field(text, FieldBaseURL); ok {
		return v, true
	}
	return e.scanURLs(text)
}

// apply runs a single rule against text.
func (e *Extractor) apply(r *compiledRule, text string) (string, bool) {
	m, err := r.regex.FindStringMatch(text)
	if err != nil || m == nil {
		// A timeout counts as no match.
		return "", false
	}
	g := m.GroupByNumber(r.Group)
	if g == nil || len(g.Captures) == 0 {
		return "", false
	}

	v := g.String()
	if r.StripTemplates {
		v = strings.TrimSpace(e.stripTemplates(v))
	}
	if v == "" {
		return "", false
	}
	if r.RequirePrefix != "" && !strings.HasPrefix(v, r.RequirePrefix) {
		return "", false
	}
	return v, true
}

// stripTemplates removes every templating expression from v.
func (e *Extractor) stripTemplates(v string) string {
	out, err := e.template.Replace(v, "", -1, -1)
	if err != nil {
		return v
	}
	return out
}

// scanURLs implements the bare-URL fallback.
func (e *Extractor) scanURLs(text string) (string, bool) {
	var first string
	found := false

	m, err := e.fallback.FindStringMatch(text)
	for err == nil && m != nil {
		url := m.String()
		if strings.Contains(strings.ToLower(url), e.prefer) {
			return url, true
		}
		if !found {
			first = url
			found = true
		}
		m, err = e.fallback.FindNextMatch(m)
	}

	return first, found
}

var defaultExtractor = sync.OnceValue(func() *Extractor {
	ex, err := NewExtractor(DefaultConfig())
	if err != nil {
		panic(fmt.Sprintf("extraction: default rules: %v", err))
	}
	return ex
})

// ExtractBaseURL runs BaseURL with the default rules.
func ExtractBaseURL(text string) (string, bool) {
	return defaultExtractor().BaseURL(text)
}

// ExtractField runs Field with the default rules. fieldName is one of
// "name", "displayName", "apiBaseUrl" or "documentationUrl"; other Field
// values are accepted as well.
func ExtractField(text, fieldName string) (string, bool) {
	return defaultExtractor().Field(text, Field(fieldName))
}
