// Package config provides the server configuration and seed fixtures of
// odatamock.
//
// Server configuration is a YAML or JSON file with the sections server, log,
// seed, synthesis, rateLimit and keySchemas. Unset fields keep their defaults.
//
// Seed fixtures are YAML or JSON documents of the form
//
//	collections:
//	  EmpEmployment:
//	    - userId: EMP001
//	      employmentStatus: Active
//
// Every seed document is validated against an embedded JSON Schema before it
// is loaded. Seed file entries are glob patterns; ** matches across
// directories. The builtin SuccessFactors fixture is embedded in the binary.
package config
