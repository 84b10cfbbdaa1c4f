package openapi

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/odatamock/pkg/odata"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.0.3"

// Component schema names.
const (
	SchemaRecord         = "Record"
	SchemaEntityEnvelope = "EntityEnvelope"
	SchemaListEnvelope   = "ListEnvelope"
	SchemaStatusEnvelope = "StatusEnvelope"
	SchemaActionEnvelope = "ActionEnvelope"
	SchemaError          = "Error"
)

// FixedTag groups the fixed operation endpoints.
const FixedTag = "Operations"

// KeyParameter is the path parameter holding the key predicate body.
const KeyParameter = "key"

// Options controls document generation.
type Options struct {
	Title       string
	Version     string
	Description string

	// BasePath becomes the server URL. Defaults to odata.DefaultBasePath.
	BasePath string

	// Collections are the entity sets to describe. They are sorted.
	Collections []string

	// SkipFixed omits the fixed operation endpoints.
	SkipFixed bool
}

// Build generates the document.
func Build(opts Options) *openapi3.T {
	if opts.Title == "" {
		opts.Title = "SAP SuccessFactors OData mock"
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.BasePath == "" {
		opts.BasePath = odata.DefaultBasePath
	}

	b := newBuilder()
	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:       opts.Title,
			Version:     opts.Version,
			Description: opts.Description,
		},
		Servers:    openapi3.Servers{{URL: opts.BasePath}},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: b.schemas},
	}

	names := slices.Clone(opts.Collections)
	slices.Sort(names)
	for _, name := range slices.Compact(names) {
		doc.Paths.Set("/"+name, b.entitySet(name))
		doc.Paths.Set("/"+name+"({"+KeyParameter+"})", b.entity(name))
	}

	if !opts.SkipFixed {
		for _, op := range odata.FixedOperations() {
			doc.Paths.Set("/"+op.Name, b.fixed(op))
		}
	}

	return doc
}

// Validate checks the document with kin-openapi's validator.
func Validate(ctx context.Context, doc *openapi3.T) error {
	return doc.Validate(ctx)
}

// Handler serves the document produced by build as JSON. build runs per
// request so the document tracks the current catalog.
func Handler(build func() *openapi3.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		data, err := json.Marshal(build())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})
}

type builder struct {
	schemas openapi3.Schemas
	ids     map[string]int
}

func newBuilder() *builder {
	record := openapi3.NewObjectSchema().WithAnyAdditionalProperties()
	record.Description = "Entity record with a flexible set of fields"

	b := &builder{
		schemas: openapi3.Schemas{SchemaRecord: openapi3.NewSchemaRef("", record)},
		ids:     make(map[string]int),
	}
	recordRef := b.ref(SchemaRecord)

	items := openapi3.NewArraySchema()
	items.Items = recordRef
	results := openapi3.NewObjectSchema().WithProperty("results", items)

	status := openapi3.NewObjectSchema().WithProperty("status", openapi3.NewStringSchema())

	action := openapi3.NewObjectSchema().
		WithProperty("result", &openapi3.Schema{}).
		WithProperty("status", openapi3.NewStringSchema())

	errSchema := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("entity", openapi3.NewStringSchema()).
		WithProperty("key", openapi3.NewStringSchema()).
		WithProperty("hint", openapi3.NewStringSchema())
	errSchema.Required = []string{"error"}

	b.schemas[SchemaEntityEnvelope] = openapi3.NewSchemaRef("", envelope(recordRef))
	b.schemas[SchemaListEnvelope] = openapi3.NewSchemaRef("", envelope(openapi3.NewSchemaRef("", results)))
	b.schemas[SchemaStatusEnvelope] = openapi3.NewSchemaRef("", envelope(openapi3.NewSchemaRef("", status)))
	b.schemas[SchemaActionEnvelope] = openapi3.NewSchemaRef("", envelope(openapi3.NewSchemaRef("", action)))
	b.schemas[SchemaError] = openapi3.NewSchemaRef("", errSchema)
	return b
}

func envelope(inner *openapi3.SchemaRef) *openapi3.Schema {
	s := openapi3.NewObjectSchema().WithPropertyRef("d", inner)
	s.Required = []string{"d"}
	return s
}

// ref points at a component schema, keeping the resolved value for validation.
func (b *builder) ref(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, b.schemas[name].Value)
}

func (b *builder) operationID(method, path string) string {
	id := OperationID(method, path)
	b.ids[id]++
	if n := b.ids[id]; n > 1 {
		id += strconv.Itoa(n)
	}
	return id
}

func (b *builder) response(desc, schema string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(desc).WithJSONSchemaRef(b.ref(schema))}
}

func (b *builder) responses(desc, schema string, notFound bool) *openapi3.Responses {
	opts := []openapi3.NewResponsesOption{
		openapi3.WithStatus(http.StatusOK, b.response(desc, schema)),
	}
	if notFound {
		opts = append(opts, openapi3.WithStatus(http.StatusNotFound, b.response("Entity not found", SchemaError)))
	}
	return openapi3.NewResponses(opts...)
}

func (b *builder) body() *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(b.ref(SchemaRecord))}
}

func (b *builder) operation(method, path, tag, summary string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = b.operationID(method, path)
	op.Summary = summary
	if tag != "" {
		op.Tags = []string{tag}
	}
	return op
}

func (b *builder) entitySet(name string) *openapi3.PathItem {
	path := "/" + name

	list := b.operation(http.MethodGet, path, name, "List "+name)
	list.Responses = b.responses("All records of "+name, SchemaListEnvelope, false)

	create := b.operation(http.MethodPost, path, name, "Create "+name)
	create.RequestBody = b.body()
	create.Responses = b.responses("Created record", SchemaEntityEnvelope, false)
	create.Responses.Set(strconv.Itoa(http.StatusBadRequest), b.response("Invalid body", SchemaError))

	return &openapi3.PathItem{Get: list, Post: create}
}

func (b *builder) entity(name string) *openapi3.PathItem {
	path := "/" + name + "({" + KeyParameter + "})"

	get := b.operation(http.MethodGet, path, name, "Get "+name+" by key")
	get.Responses = b.responses("Stored or synthesized record", SchemaEntityEnvelope, false)

	update := b.operation(http.MethodPut, path, name, "Update "+name)
	update.RequestBody = b.body()
	update.Responses = b.responses("Record updated", SchemaStatusEnvelope, true)

	patch := b.operation(http.MethodPatch, path, name, "Merge into "+name)
	patch.RequestBody = b.body()
	patch.Responses = b.responses("Record updated", SchemaStatusEnvelope, true)

	del := b.operation(http.MethodDelete, path, name, "Delete "+name)
	del.Responses = b.responses("Records deleted", SchemaStatusEnvelope, true)

	key := openapi3.NewPathParameter(KeyParameter).WithSchema(openapi3.NewStringSchema())
	key.Description = "Key predicate: 'EMP001', 1,'EMP001' or name='value' pairs"

	return &openapi3.PathItem{
		Get:        get,
		Put:        update,
		Patch:      patch,
		Delete:     del,
		Parameters: openapi3.Parameters{{Value: key}},
	}
}

func (b *builder) fixed(fo odata.FixedOperation) *openapi3.PathItem {
	// Function imports keep their own name as the operationId.
	op := openapi3.NewOperation()
	op.OperationID = fo.Name
	op.Summary = fo.Summary
	op.Tags = []string{FixedTag}
	b.ids[fo.Name]++
	op.Responses = b.responses(fo.Summary, SchemaActionEnvelope, false)

	item := &openapi3.PathItem{}
	item.SetOperation(fo.Method, op)
	return item
}
