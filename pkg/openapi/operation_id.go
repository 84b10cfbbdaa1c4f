package openapi

import (
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	keyPredicate = regexp.MustCompile(`\([^)]*\)`)
	brackets     = regexp.MustCompile(`[{}()]`)
	separators   = regexp.MustCompile(`[/\-_]+`)
)

// OperationID derives an operationId from a method and a path template.
//
// Key predicates are dropped, the remaining path parts are joined in camel
// case (first part lower-cased, others capitalized), and a verb prefix is
// added: list for a GET without a key (pluralized with a trailing s), get
// for a keyed GET, create, update, delete and patch for the other methods.
func OperationID(method, path string) string {
	clean := keyPredicate.ReplaceAllString(path, "")
	clean = brackets.ReplaceAllString(clean, "")
	clean = strings.Trim(separators.ReplaceAllString(clean, "_"), "_")

	// Casers hold state and are not shared.
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)

	name := "operation"
	if parts := strings.Split(clean, "_"); parts[0] != "" {
		var b strings.Builder
		b.WriteString(lower.String(parts[0]))
		for _, p := range parts[1:] {
			if p != "" {
				b.WriteString(title.String(p))
			}
		}
		name = b.String()
	}

	prefix := verb(method, strings.Contains(path, "("))
	if prefix == "list" && !strings.HasSuffix(name, "s") {
		name += "s"
	}
	return prefix + name
}

func verb(method string, keyed bool) string {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		if keyed {
			return "get"
		}
		return "list"
	case http.MethodPost:
		return "create"
	case http.MethodPut:
		return "update"
	case http.MethodDelete:
		return "delete"
	case http.MethodPatch:
		return "patch"
	default:
		return strings.ToLower(method)
	}
}
