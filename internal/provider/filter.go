package provider

import (
	"path/filepath"
	"strings"
)

// DefaultAIKeywords are name fragments of AI/ML model vendors.
//
// Entries such as "Google.*AI" are plain substrings, not patterns.
var DefaultAIKeywords = []string{
	"OpenAI", "Anthropic", "Mistral", "Jina", "Perplexity", "Cohere", "Groq",
	"Google.*AI", "Azure.*AI", "AWS.*AI", "HuggingFace", "Gemini", "xAI",
	"Ollama", "DeepSeek", "MiniMax", "Zhipu", "Qwen", "Kimi", "Moonshot",
	"Baichuan", "Wenxin", "Nova", "ZeroOne", "Yi",
}

// DefaultServiceKeywords are name fragments of general service providers.
var DefaultServiceKeywords = []string{
	"Supabase", "Notion", "N8n", "GitHub", "Figma", "Coze", "Dify",
}

// Category names the keyword set that matched.
type Category string

const (
	CategoryAI      Category = "ai"
	CategoryService Category = "service"
)

// Filter classifies files as provider files by name.
type Filter struct {
	ai      []string
	service []string
}

// NewFilter creates a filter. Nil keyword sets fall back to the defaults;
// an empty non-nil set disables that category.
func NewFilter(ai, service []string) *Filter {
	if ai == nil {
		ai = DefaultAIKeywords
	}
	if service == nil {
		service = DefaultServiceKeywords
	}
	return &Filter{
		ai:      lowerAll(ai),
		service: lowerAll(service),
	}
}

// IsRelevant reports whether baseName contains any keyword, ignoring case.
func (f *Filter) IsRelevant(baseName string) bool {
	_, ok := f.Match(baseName)
	return ok
}

// Match returns the category whose keyword baseName contains. AI keywords
// are checked first.
func (f *Filter) Match(baseName string) (Category, bool) {
	name := strings.ToLower(baseName)
	if containsAny(name, f.ai) {
		return CategoryAI, true
	}
	if containsAny(name, f.service) {
		return CategoryService, true
	}
	return "", false
}

// Stem returns the base name of path without its final extension, so
// "nodes/OpenAi/OpenAi.node.ts" becomes "OpenAi.node".
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func containsAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
