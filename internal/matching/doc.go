// Package matching resolves parsed key tokens to stored records.
//
// A key of one token is tested against a priority-ordered list of candidate
// identifying fields. A key of two tokens is tested against the collection's
// pair fields, in either order when the descriptor allows it. A key of three
// tokens is compared positionally against the triple fields. Any other arity
// never matches.
//
// Comparison is exact and case-sensitive on the textual form of both sides, so
// the number 1 and the string "1" are equal. A record lacking a field never
// matches on that field.
//
// Resolution is first-match-wins in collection order. Later duplicates are
// unreachable by lookup but are still removed by a delete, which applies the
// same predicate to every record.
//
// Key types:
//
//   - Result: the matched record, its position and the field(s) that matched
//   - Matcher: a compiled predicate for one key against one descriptor
package matching
