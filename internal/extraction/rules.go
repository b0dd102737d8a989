package extraction

// DefaultRules returns the built-in rules in priority order.
//
// \x60 is a backtick; JavaScript template literals use it as a quote.
func DefaultRules() []Rule {
	return []Rule{
		// Base URL, credential and node files alike
		{Name: "base_url_quoted", Field: FieldBaseURL, Regex: `baseURL:\s*['"]([^'"]+)['"]`, Group: 1, StripTemplates: true, RequirePrefix: "http"},
		{Name: "base_url_template_literal", Field: FieldBaseURL, Regex: `baseURL:\s*\x60([^\x60]+)\x60`, Group: 1, StripTemplates: true, RequirePrefix: "http"},
		{Name: "base_url_expression", Field: FieldBaseURL, Regex: `baseURL:\s*['"]=([^'"]+)['"]`, Group: 1, StripTemplates: true, RequirePrefix: "http"},
		{Name: "api_base_url_quoted", Field: FieldBaseURL, Regex: `apiBaseUrl:\s*['"]([^'"]+)['"]`, Group: 1, StripTemplates: true, RequirePrefix: "http"},
		{Name: "api_base_url_template_literal", Field: FieldBaseURL, Regex: `apiBaseUrl:\s*\x60([^\x60]+)\x60`, Group: 1, StripTemplates: true, RequirePrefix: "http"},
		{Name: "url_quoted", Field: FieldBaseURL, Regex: `url:\s*['"](https?://[^'"]+)['"]`, Group: 1, StripTemplates: true, RequirePrefix: "http"},
		{Name: "url_template_literal", Field: FieldBaseURL, Regex: `url:\s*\x60(https?://[^\x60]+)\x60`, Group: 1, StripTemplates: true, RequirePrefix: "http"},

		// Credential class properties
		{Name: "credential_name", Field: FieldName, Regex: `name\s*=\s*['"]([^'"]+)['"]`, Group: 1},
		{Name: "credential_display_name", Field: FieldDisplayName, Regex: `displayName\s*=\s*['"]([^'"]+)['"]`, Group: 1},
		{Name: "credential_api_base_url", Field: FieldAPIBaseURL, Regex: `apiBaseUrl:\s*['"]([^'"]+)['"]`, Group: 1},
		{Name: "credential_documentation_url", Field: FieldDocumentationURL, Regex: `documentationUrl\s*=\s*['"]([^'"]+)['"]`, Group: 1},
		{Name: "credential_icon_loose", Field: FieldIcon, Regex: `icon.*?['"]([^'"]+)['"]`, Group: 1},

		// Node description properties
		{Name: "node_display_name", Field: FieldNodeDisplayName, Regex: `displayName:\s*['"]([^'"]+)['"]`, Group: 1},
		{Name: "node_icon_light_file", Field: FieldNodeIcon, Regex: `icon:\s*\{[^}]*light:\s*['"]file:([^'"]+)['"]`, Group: 1},
	}
}
