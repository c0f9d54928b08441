// Package images normalizes the persisted images column of a property row
// into an ordered list of image references. The column holds whatever shape
// the writer produced: a Postgres-style array literal, a comma-joined list of
// URLs or data URIs, or a single bare value.
package images

import "strings"

// Normalize converts a raw images field of unknown shape into an ordered
// list of image reference strings. The result is never nil and the function
// is idempotent: feeding a normalized list back in returns it unchanged.
func Normalize(raw interface{}) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return normalizeString(v)
	default:
		return []string{}
	}
}

func normalizeString(s string) []string {
	if s == "" {
		return []string{}
	}

	// Postgres array literal: {a,b,c} with optional double-quoted fields.
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return parseArrayLiteral(s[1 : len(s)-1])
	}

	if strings.Contains(s, ",") {
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "data:") {
			// Base64 payloads contain commas, so only commas that start the
			// next data URI are split points.
			if strings.Contains(trimmed[5:], "data:") {
				return splitDataURIs(trimmed)
			}
			return []string{trimmed}
		}
		parts := strings.Split(s, ",")
		out := make([]string, len(parts))
		for i, p := range parts {
			out[i] = strings.TrimSpace(p)
		}
		return out
	}

	return []string{strings.TrimSpace(s)}
}

// parseArrayLiteral splits the braceless body of an array literal on unquoted
// commas, then strips field quoting ("" unescapes to a literal quote).
func parseArrayLiteral(content string) []string {
	if content == "" {
		return []string{}
	}

	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(content); i++ {
		ch := content[i]
		switch {
		case ch == '"':
			inQuotes = !inQuotes
			current.WriteByte(ch)
		case ch == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	fields = append(fields, current.String())

	out := make([]string, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if len(f) >= 2 && strings.HasPrefix(f, `"`) && strings.HasSuffix(f, `"`) {
			f = strings.ReplaceAll(f[1:len(f)-1], `""`, `"`)
		}
		out[i] = f
	}
	return out
}

// splitDataURIs splits a comma-joined run of data URIs at every comma that is
// immediately followed by another "data:" marker.
func splitDataURIs(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' && strings.HasPrefix(s[i+1:], "data:") {
			out = append(out, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}
