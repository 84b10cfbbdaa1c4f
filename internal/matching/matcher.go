package matching

import (
	"github.com/getmockd/odatamock/pkg/keyschema"
	"github.com/getmockd/odatamock/pkg/record"
)

// Result is the outcome of a successful lookup.
type Result struct {
	Record record.Record
	Index  int
	Fields []string // identifying fields that carried the tokens, in key order
}

// Matcher tests records against one key.
type Matcher struct {
	tokens []string
	schema *keyschema.Schema
}

// New compiles a matcher for tokens under schema. A nil schema uses the
// default descriptor.
func New(tokens []string, schema *keyschema.Schema) *Matcher {
	if schema == nil {
		schema = keyschema.Default("")
	}
	return &Matcher{tokens: tokens, schema: schema}
}

// Arity returns the number of key parts.
func (m *Matcher) Arity() int {
	return len(m.tokens)
}

// Match reports whether rec is addressed by the key.
func (m *Matcher) Match(rec record.Record) bool {
	_, ok := m.fields(rec)
	return ok
}

// fields returns the identifying fields through which rec matched.
func (m *Matcher) fields(rec record.Record) ([]string, bool) {
	switch len(m.tokens) {
	case 1:
		for _, name := range m.schema.Single {
			if equal(rec, name, m.tokens[0]) {
				return []string{name}, true
			}
		}
		return nil, false
	case 2:
		a, b := m.schema.Pair[0].Name, m.schema.Pair[1].Name
		if equal(rec, a, m.tokens[0]) && equal(rec, b, m.tokens[1]) {
			return []string{a, b}, true
		}
		if m.schema.Permute && equal(rec, b, m.tokens[0]) && equal(rec, a, m.tokens[1]) {
			return []string{b, a}, true
		}
		return nil, false
	case 3:
		names := make([]string, 3)
		for i, f := range m.schema.Triple {
			if !equal(rec, f.Name, m.tokens[i]) {
				return nil, false
			}
			names[i] = f.Name
		}
		return names, true
	default:
		return nil, false
	}
}

// Find returns the first record in records addressed by the key.
func (m *Matcher) Find(records []record.Record) (Result, bool) {
	for i, rec := range records {
		if fields, ok := m.fields(rec); ok {
			return Result{Record: rec, Index: i, Fields: fields}, true
		}
	}
	return Result{}, false
}

// Find returns the first record addressed by tokens.
func Find(records []record.Record, tokens []string, schema *keyschema.Schema) (Result, bool) {
	return New(tokens, schema).Find(records)
}

// Matches reports whether rec is addressed by tokens.
func Matches(rec record.Record, tokens []string, schema *keyschema.Schema) bool {
	return New(tokens, schema).Match(rec)
}

func equal(rec record.Record, field, token string) bool {
	if field == "" {
		return false
	}
	v, ok := rec.FieldString(field)
	return ok && v == token
}
