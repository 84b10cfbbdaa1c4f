// Package cli provides the command-line interface for odatamock.
//
// Commands:
//   - serve: run the OData mock server in the foreground
//   - collections: list the collections and record counts the seed provides
//   - openapi: print the OpenAPI document for the seeded collections
//   - validate: check the config file and seed fixtures without serving
//   - config: show the resolved configuration and where each value came from
//   - version: show build information
//
// Configuration is layered as flags > environment (ODATAMOCK_*) > config
// file > defaults; see internal/cliconfig.
package cli
