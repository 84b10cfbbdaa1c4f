// Package openapi builds an OpenAPI 3 description of the entity sets and
// fixed operations the mock serves.
//
// Paths are written relative to the service root, which is carried by the
// single server entry, in the shape of the published SuccessFactors API
// descriptions. Every operation gets a generated operationId so client
// generators accept the document.
package openapi
