// Package cliconfig layers server configuration for the odatamock CLI.
//
// Precedence, highest first:
//
//  1. Command-line flags
//  2. Environment variables (ODATAMOCK_* prefix)
//  3. Config file (--config, ODATAMOCK_CONFIG, or ./odatamock.yaml if present)
//  4. Default values
//
// Every effective value records where it came from so `odatamock config`
// style diagnostics can explain the result.
package cliconfig
