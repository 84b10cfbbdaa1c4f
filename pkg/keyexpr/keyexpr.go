// Package keyexpr parses OData-style entity key segments such as
// Entity('EMP001') or Entity(backgroundElementId=1,userId='EMP001').
//
// Parsing never fails. Anything that does not look like a key expression is
// passed through as a literal token.
package keyexpr

import (
	"strings"
)

// Segment is a path segment split into its entity set name and raw key text.
type Segment struct {
	Entity string
	Key    string
	HasKey bool
}

// Split separates "Entity(key)" into its parts. A segment without parentheses
// addresses the whole collection. A missing closing parenthesis is tolerated.
func Split(segment string) Segment {
	open := strings.IndexByte(segment, '(')
	if open < 0 {
		return Segment{Entity: segment}
	}
	key := segment[open+1:]
	if strings.HasSuffix(key, ")") {
		key = key[:len(key)-1]
	}
	return Segment{Entity: segment[:open], Key: key, HasKey: true}
}

// Tokens parses the key of a segment. It returns nil for collection segments.
func (s Segment) Tokens() []string {
	if !s.HasKey {
		return nil
	}
	return Parse(s.Key)
}

// Parse turns a raw key into its ordered value tokens. Parts are separated by
// commas outside quotes, "name=value" parts keep only the value, and quoting is
// removed. The result always has at least one element.
func Parse(key string) []string {
	parts := splitTopLevel(key)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tokens = append(tokens, clean(p))
	}
	return tokens
}

// splitTopLevel splits on commas that are not inside a quoted literal.
func splitTopLevel(s string) []string {
	var parts []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				// '' inside a literal is an escaped quote
				if i+1 < len(s) && s[i+1] == quote {
					i++
					continue
				}
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ',':
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func clean(part string) string {
	part = strings.TrimSpace(part)
	if eq := assignIndex(part); eq >= 0 {
		part = strings.TrimSpace(part[eq+1:])
	}
	return unquote(part)
}

// assignIndex finds the '=' of a name=value pair, ignoring '=' inside quotes.
func assignIndex(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'', '"':
			return -1
		case '=':
			return i
		}
	}
	return -1
}

// unquote strips surrounding quotes, typed literal prefixes like
// datetime'2023-01-01T00:00:00', and unescapes doubled quotes.
func unquote(v string) string {
	if q := strings.IndexAny(v, `'"`); q > 0 && isTypePrefix(v[:q]) && strings.HasSuffix(v, v[q:q+1]) && len(v) > q+1 {
		v = v[q:]
	}
	if len(v) >= 2 && (v[0] == '\'' || v[0] == '"') && v[len(v)-1] == v[0] {
		q := v[:1]
		return strings.ReplaceAll(v[1:len(v)-1], q+q, q)
	}
	return strings.Trim(v, `'"`)
}

func isTypePrefix(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
