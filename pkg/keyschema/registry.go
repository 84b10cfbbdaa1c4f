package keyschema

import (
	"sync"

	"github.com/getmockd/odatamock/pkg/record"
)

// RecordSource exposes the current records of a collection for inference.
type RecordSource interface {
	Records(collection string) []record.Record
}

// Override is a configured key descriptor. Empty fields keep the inferred value.
type Override struct {
	Identity string   `json:"identity,omitempty" yaml:"identity,omitempty"`
	Single   []string `json:"single,omitempty" yaml:"single,omitempty"`
	Pair     []Field  `json:"pair,omitempty" yaml:"pair,omitempty"`
	Permute  *bool    `json:"permute,omitempty" yaml:"permute,omitempty"`
	Triple   []Field  `json:"triple,omitempty" yaml:"triple,omitempty"`
}

// Registry resolves and caches one Schema per collection.
type Registry struct {
	mu        sync.RWMutex
	cache     map[string]*Schema
	overrides map[string]Override
	source    RecordSource
}

// NewRegistry creates a registry. source may be nil, in which case every
// collection without an override gets a convention-based descriptor.
func NewRegistry(source RecordSource, overrides map[string]Override) *Registry {
	return &Registry{
		cache:     make(map[string]*Schema),
		overrides: overrides,
		source:    source,
	}
}

// Lookup returns the descriptor for a collection, resolving it on first use.
// The returned Schema must not be modified.
func (r *Registry) Lookup(collection string) *Schema {
	r.mu.RLock()
	s, ok := r.cache[collection]
	r.mu.RUnlock()
	if ok {
		return s
	}

	var records []record.Record
	if r.source != nil {
		records = r.source.Records(collection)
	}
	s = Infer(collection, records)
	if o, ok := r.overrides[collection]; ok {
		o.apply(s)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.cache[collection]; ok {
		return cached
	}
	r.cache[collection] = s
	return s
}

// Forget drops an inferred descriptor that was derived from an empty
// collection so the next Lookup sees newly created records. Declared
// descriptors are kept.
func (r *Registry) Forget(collection string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.cache[collection]; ok && !s.Declared {
		delete(r.cache, collection)
	}
}

// Reset clears every cached descriptor.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.cache)
}

// Infer builds a descriptor from the naming convention and the fields present
// in the collection's records.
func Infer(collection string, records []record.Record) *Schema {
	s := Default(collection)

	var userID, code, externalCode bool
	for _, rec := range records {
		userID = userID || rec.Has(FieldUserID)
		code = code || rec.Has(FieldCode)
		externalCode = externalCode || rec.Has(FieldExternalCode)
	}

	switch {
	case s.Background():
		s.Identity = FieldBackgroundElementID
	case userID:
		s.Identity = FieldUserID
	case code:
		s.Identity = FieldCode
	case externalCode:
		s.Identity = FieldExternalCode
	}

	s.UserIDs = userID || s.Background()
	s.ExternalCodes = externalCode
	s.Declared = len(records) > 0 || s.Background()
	return s
}

func (o Override) apply(s *Schema) {
	if o.Identity != "" {
		s.Identity = o.Identity
		switch o.Identity {
		case FieldUserID:
			s.UserIDs = true
		case FieldExternalCode:
			s.ExternalCodes = true
		}
	}
	if len(o.Single) > 0 {
		s.Single = append([]string(nil), o.Single...)
	}
	if len(o.Pair) == 2 {
		s.Pair = [2]Field{withType(o.Pair[0]), withType(o.Pair[1])}
	}
	if o.Permute != nil {
		s.Permute = *o.Permute
	}
	if len(o.Triple) == 3 {
		s.Triple = [3]Field{withType(o.Triple[0]), withType(o.Triple[1]), withType(o.Triple[2])}
	}
	s.Declared = true
}

func withType(f Field) Field {
	if f.Type == "" {
		f.Type = TypeString
	}
	return f
}
