// Package extraction pulls provider metadata out of credential and node
// source files using ordered regular-expression rules.
//
// The extractor does not parse the host language. It applies a list of
// textual rules to raw file content and returns the first capture that
// survives post-processing, so results are best-effort: a file that spells a
// field in an unexpected way yields "not found", never an error.
//
// # Architecture
//
// The main components are:
//   - Rule: a named pattern bound to a Field, with capture group and cleanup
//   - Extractor: compiled rules grouped per Field, in declaration order
//   - BaseURL: the baseUrl rules plus a bare-URL fallback scan
//
// # Usage
//
//	ex, err := extraction.NewExtractor(extraction.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	if url, ok := ex.BaseURL(content); ok {
//	    fmt.Println(url)
//	}
//	name, _ := ex.Field(content, extraction.FieldDisplayName)
//
// # Rule Order
//
// Rules for a field are tried in the order they appear in Config.Rules. For
// each rule only the first match in the text is considered. A rule whose
// cleaned capture is rejected (empty, or missing RequirePrefix) falls through
// to the next rule.
//
// # Fallback URL Scan
//
// When no baseUrl rule accepts a value, BaseURL scans the whole text for
// absolute http(s) URLs. The first URL containing "api" (any case) wins,
// otherwise the first URL in document order.
//
// # Known Imprecision
//
// The credential icon rule matches the first quoted string after any
// occurrence of "icon", which can capture unrelated text. It is kept as is.
package extraction
