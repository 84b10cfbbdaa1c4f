package odata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getmockd/odatamock/internal/id"
	"github.com/getmockd/odatamock/internal/matching"
	"github.com/getmockd/odatamock/pkg/catalog"
	"github.com/getmockd/odatamock/pkg/keyschema"
	"github.com/getmockd/odatamock/pkg/logging"
	"github.com/getmockd/odatamock/pkg/record"
	"github.com/getmockd/odatamock/pkg/synth"
)

// Action is the operation performed on an entity set.
type Action string

const (
	// ActionList returns every record of a collection.
	ActionList Action = "list"
	// ActionGet resolves a key to a record, synthesizing one on a miss.
	ActionGet Action = "get"
	// ActionCreate appends a record.
	ActionCreate Action = "create"
	// ActionUpdate merges fields into the first matching record.
	ActionUpdate Action = "update"
	// ActionDelete removes every matching record.
	ActionDelete Action = "delete"
)

// ResultStatus indicates the outcome of an operation.
type ResultStatus int

const (
	// StatusSuccess indicates the operation completed successfully.
	StatusSuccess ResultStatus = iota
	// StatusSynthesized indicates a get that matched nothing and returned a fabricated record.
	StatusSynthesized
	// StatusNotFound indicates an update or delete that matched nothing.
	StatusNotFound
	// StatusValidationError indicates invalid input.
	StatusValidationError
	// StatusError indicates an internal or unexpected error.
	StatusError
)

// OperationRequest is a transport-agnostic request against one entity set.
type OperationRequest struct {
	// Collection is the entity set name, e.g. "EmpEmployment".
	Collection string
	// Action is the operation to perform.
	Action Action
	// Tokens is the parsed key for get, update and delete.
	Tokens []string
	// Data is the payload of create and update.
	Data record.Record
}

// OperationResult is the transport-agnostic outcome of an operation.
type OperationResult struct {
	Status ResultStatus
	// Record is set for get, create and update.
	Record record.Record
	// Records is set for list.
	Records []record.Record
	// Removed is the number of records deleted.
	Removed int
	// Error is the domain error, if any. Nil on success.
	Error error
}

// OK reports whether the operation succeeded.
func (r *OperationResult) OK() bool {
	return r.Status == StatusSuccess || r.Status == StatusSynthesized
}

// Service executes operations against a catalog. It holds no per-request
// state; all mutation happens inside the catalog's collections.
type Service struct {
	catalog  *catalog.Catalog
	registry *keyschema.Registry
	synth    *synth.Synthesizer
	ids      *id.Source
	observer catalog.Observer
	logger   *slog.Logger
	now      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithRegistry sets the key-schema registry. The default infers descriptors
// from the catalog.
func WithRegistry(r *keyschema.Registry) ServiceOption {
	return func(s *Service) { s.registry = r }
}

// WithSynthesizer sets the synthesizer used on get misses.
func WithSynthesizer(syn *synth.Synthesizer) ServiceOption {
	return func(s *Service) { s.synth = syn }
}

// WithIDSource sets the source of ids assigned on create.
func WithIDSource(src *id.Source) ServiceOption {
	return func(s *Service) { s.ids = src }
}

// WithObserver sets the observer notified after every operation.
func WithObserver(o catalog.Observer) ServiceOption {
	return func(s *Service) { s.observer = o }
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithClock sets the time source for createdDate and lastModifiedDate.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service over cat.
func NewService(cat *catalog.Catalog, opts ...ServiceOption) *Service {
	if cat == nil {
		panic("odata.NewService: catalog must not be nil")
	}
	s := &Service{
		catalog:  cat,
		observer: catalog.NoopObserver{},
		logger:   logging.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = keyschema.NewRegistry(cat, nil)
	}
	if s.ids == nil {
		s.ids = id.NewSource(0)
	}
	if s.synth == nil {
		s.synth = synth.New(synth.WithSource(s.ids), synth.WithClock(s.now))
	}
	return s
}

// Catalog returns the underlying catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Registry returns the key-schema registry.
func (s *Service) Registry() *keyschema.Registry {
	return s.registry
}

// Execute performs an operation. It is the single entry point for transports.
func (s *Service) Execute(ctx context.Context, req *OperationRequest) *OperationResult {
	if req == nil {
		return &OperationResult{Status: StatusError, Error: errors.New("operation request must not be nil")}
	}
	if req.Collection == "" {
		err := &catalog.ValidationError{Message: "entity set name is required"}
		s.observer.OnError(req.Collection, string(req.Action), err)
		return &OperationResult{Status: StatusValidationError, Error: err}
	}

	switch req.Action {
	case ActionList:
		return s.executeList(req)
	case ActionGet:
		return s.executeGet(ctx, req)
	case ActionCreate:
		return s.executeCreate(req)
	case ActionUpdate:
		return s.executeUpdate(req)
	case ActionDelete:
		return s.executeDelete(req)
	default:
		err := fmt.Errorf("unsupported action: %s", req.Action)
		s.observer.OnError(req.Collection, string(req.Action), err)
		return &OperationResult{Status: StatusError, Error: err}
	}
}

// List returns all records of a collection, materializing it if needed.
func (s *Service) List(ctx context.Context, collection string) *OperationResult {
	return s.Execute(ctx, &OperationRequest{Collection: collection, Action: ActionList})
}

// Get resolves a key, synthesizing a record when nothing matches.
func (s *Service) Get(ctx context.Context, collection string, tokens []string) *OperationResult {
	return s.Execute(ctx, &OperationRequest{Collection: collection, Action: ActionGet, Tokens: tokens})
}

// Create appends data to a collection.
func (s *Service) Create(ctx context.Context, collection string, data record.Record) *OperationResult {
	return s.Execute(ctx, &OperationRequest{Collection: collection, Action: ActionCreate, Data: data})
}

// Update merges data into the first record addressed by tokens.
func (s *Service) Update(ctx context.Context, collection string, tokens []string, data record.Record) *OperationResult {
	return s.Execute(ctx, &OperationRequest{Collection: collection, Action: ActionUpdate, Tokens: tokens, Data: data})
}

// Delete removes every record addressed by tokens.
func (s *Service) Delete(ctx context.Context, collection string, tokens []string) *OperationResult {
	return s.Execute(ctx, &OperationRequest{Collection: collection, Action: ActionDelete, Tokens: tokens})
}

// Reset restores seed data and drops cached key descriptors.
func (s *Service) Reset() *catalog.ResetResponse {
	start := time.Now()
	resp := s.catalog.Reset()
	s.registry.Reset()
	s.observer.OnReset(resp.Collections, time.Since(start))
	s.logger.Info("catalog reset", "collections", len(resp.Collections))
	return resp
}

func (s *Service) executeList(req *OperationRequest) *OperationResult {
	start := time.Now()
	records := s.catalog.Get(req.Collection).Snapshot()
	s.observer.OnList(req.Collection, len(records), time.Since(start))
	return &OperationResult{Status: StatusSuccess, Records: records}
}

func (s *Service) executeGet(ctx context.Context, req *OperationRequest) *OperationResult {
	start := time.Now()
	if len(req.Tokens) == 0 {
		err := &catalog.ValidationError{Message: "a key is required for get operations", Field: "key"}
		s.observer.OnError(req.Collection, string(ActionGet), err)
		return &OperationResult{Status: StatusValidationError, Error: err}
	}

	schema := s.registry.Lookup(req.Collection)
	m := matching.New(req.Tokens, schema)
	if rec, ok := s.catalog.Get(req.Collection).Find(m.Match); ok {
		s.observer.OnGet(req.Collection, false, time.Since(start))
		return &OperationResult{Status: StatusSuccess, Record: rec}
	}

	rec := s.synth.Synthesize(schema, req.Tokens)
	s.logger.DebugContext(ctx, "synthesized record",
		"collection", req.Collection,
		"key", strings.Join(req.Tokens, ","),
		"identity", schema.Identity,
	)
	s.observer.OnGet(req.Collection, true, time.Since(start))
	return &OperationResult{Status: StatusSynthesized, Record: rec}
}

func (s *Service) executeCreate(req *OperationRequest) *OperationResult {
	start := time.Now()

	rec := req.Data.Clone()
	if rec == nil {
		rec = record.Record{}
	}
	if !rec.Has(record.FieldID) {
		rec[record.FieldID] = s.ids.UUID()
	}
	if !rec.Has(record.FieldCreated) {
		rec[record.FieldCreated] = record.Stamp(s.now())
	}

	stored := s.catalog.Append(req.Collection, rec)
	s.registry.Forget(req.Collection)

	s.observer.OnCreate(req.Collection, time.Since(start))
	return &OperationResult{Status: StatusSuccess, Record: stored}
}

func (s *Service) executeUpdate(req *OperationRequest) *OperationResult {
	start := time.Now()

	m := matching.New(req.Tokens, s.registry.Lookup(req.Collection))
	patch := req.Data
	updated, ok := s.catalog.Get(req.Collection).UpdateFirst(m.Match, func(rec record.Record) {
		rec.Merge(patch)
		rec[record.FieldLastModified] = record.Stamp(s.now())
	})
	if !ok {
		err := &catalog.NotFoundError{Collection: req.Collection, Key: strings.Join(req.Tokens, ",")}
		s.observer.OnError(req.Collection, string(ActionUpdate), err)
		return &OperationResult{Status: StatusNotFound, Error: err}
	}

	s.observer.OnUpdate(req.Collection, time.Since(start))
	return &OperationResult{Status: StatusSuccess, Record: updated}
}

func (s *Service) executeDelete(req *OperationRequest) *OperationResult {
	start := time.Now()

	m := matching.New(req.Tokens, s.registry.Lookup(req.Collection))
	removed := s.catalog.Get(req.Collection).RemoveWhere(m.Match)
	if removed == 0 {
		err := &catalog.NotFoundError{Collection: req.Collection, Key: strings.Join(req.Tokens, ",")}
		s.observer.OnError(req.Collection, string(ActionDelete), err)
		return &OperationResult{Status: StatusNotFound, Error: err}
	}

	s.logger.Debug("deleted records", "collection", req.Collection, "removed", removed)
	s.observer.OnDelete(req.Collection, removed, time.Since(start))
	return &OperationResult{Status: StatusSuccess, Removed: removed}
}
