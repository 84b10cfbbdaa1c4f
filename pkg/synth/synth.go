// Package synth fabricates plausible records for keys that match nothing.
//
// A synthesized record always carries a fresh id, creation and modification
// timestamps and an active status. The collection's key descriptor decides
// which identifying fields receive the key tokens and which secondary fields
// get generated values. Output is reproducible when the id source is seeded
// and the clock is fixed.
package synth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/getmockd/odatamock/internal/id"
	"github.com/getmockd/odatamock/pkg/keyschema"
	"github.com/getmockd/odatamock/pkg/record"
)

// StatusActive is the status of every synthesized record.
const StatusActive = "Active"

// Bounds of the numeric suffix of generated secondary identifiers.
const (
	suffixMin = 100
	suffixMax = 999
)

// Synthesizer builds records. It is safe for concurrent use.
type Synthesizer struct {
	ids *id.Source
	now func() time.Time
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithSource sets the id and random number source.
func WithSource(src *id.Source) Option {
	return func(s *Synthesizer) {
		if src != nil {
			s.ids = src
		}
	}
}

// WithSeed seeds the random source. Zero keeps output nondeterministic.
func WithSeed(seed uint64) Option {
	return func(s *Synthesizer) {
		s.ids = id.NewSource(seed)
	}
}

// WithClock sets the time source for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Synthesizer.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		ids: id.NewSource(0),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize returns a new record addressed by tokens. It never fails and the
// record is not stored anywhere.
func (s *Synthesizer) Synthesize(schema *keyschema.Schema, tokens []string) record.Record {
	if schema == nil {
		schema = keyschema.Default("")
	}

	now := record.Stamp(s.now())
	rec := record.Record{
		record.FieldID:           s.ids.UUID(),
		record.FieldCreated:      now,
		record.FieldLastModified: now,
		record.FieldStatus:       StatusActive,
	}

	if schema.UserIDs {
		rec[keyschema.FieldUserID] = fmt.Sprintf("EMP%d", s.ids.IntRange(suffixMin, suffixMax))
	}
	if schema.ExternalCodes {
		rec[keyschema.FieldExternalCode] = fmt.Sprintf("%s%d", strings.ToUpper(schema.Collection), s.ids.IntRange(suffixMin, suffixMax))
	}

	switch len(tokens) {
	case 0:
	case 1:
		assignSingle(rec, schema, tokens[0])
	case 2:
		assignPair(rec, schema, tokens)
	case 3:
		for i, f := range schema.Triple {
			rec[f.Name] = f.Coerce(tokens[i])
		}
	default:
		for i, tok := range tokens {
			rec["key"+strconv.Itoa(i+1)] = tok
		}
	}
	return rec
}

func assignSingle(rec record.Record, schema *keyschema.Schema, token string) {
	if schema.Background() && schema.Identity == keyschema.FieldBackgroundElementID {
		n, err := strconv.Atoi(token)
		if err != nil {
			n = 1
		}
		rec[keyschema.FieldBackgroundElementID] = n
		return
	}
	if schema.Identity != "" {
		rec[schema.Identity] = token
	}
}

// assignPair fills the pair fields. When the key may be permuted and exactly
// one pair field is numeric, the first integer token goes to that field and
// the other token to the remaining one.
func assignPair(rec record.Record, schema *keyschema.Schema, tokens []string) {
	a, b := schema.Pair[0], schema.Pair[1]
	if !schema.Permute || (a.Type == keyschema.TypeInteger) == (b.Type == keyschema.TypeInteger) {
		rec[a.Name] = a.Coerce(tokens[0])
		rec[b.Name] = b.Coerce(tokens[1])
		return
	}

	num, str := a, b
	if b.Type == keyschema.TypeInteger {
		num, str = b, a
	}

	// The number comes from the first integer token. The string field takes
	// the second token unless that one is an integer, so two integer tokens
	// yield the same value in both fields.
	n0, err0 := strconv.Atoi(tokens[0])
	n1, err1 := strconv.Atoi(tokens[1])
	switch {
	case err0 == nil:
		rec[num.Name] = n0
	case err1 == nil:
		rec[num.Name] = n1
	default:
		rec[num.Name] = 1
	}
	if err1 == nil {
		rec[str.Name] = tokens[0]
	} else {
		rec[str.Name] = tokens[1]
	}
}
