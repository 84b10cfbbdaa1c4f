package config

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/getmockd/odatamock/pkg/record"
)

// BuiltinFixture is the name of the embedded SuccessFactors fixture.
const BuiltinFixture = "fixtures/successfactors.yaml"

//go:embed fixtures/successfactors.yaml
var fixtures embed.FS

//go:embed seed.schema.json
var seedSchemaJSON []byte

// Seed maps collection names to their initial records.
type Seed map[string][]record.Record

// SeedDocument is the on-disk form of a seed file.
type SeedDocument struct {
	Collections Seed `json:"collections" yaml:"collections"`
}

// Merge appends other's records to s.
func (s Seed) Merge(other Seed) {
	for name, records := range other {
		s[name] = append(s[name], records...)
	}
}

// Names returns the collection names in sorted order.
func (s Seed) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RecordCount returns the number of records across all collections.
func (s Seed) RecordCount() int {
	n := 0
	for _, records := range s {
		n += len(records)
	}
	return n
}

var (
	seedSchemaOnce sync.Once
	seedSchema     *jsonschema.Schema
	seedSchemaErr  error
)

func compiledSeedSchema() (*jsonschema.Schema, error) {
	seedSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource("seed.schema.json", bytes.NewReader(seedSchemaJSON)); err != nil {
			seedSchemaErr = fmt.Errorf("failed to add seed schema: %w", err)
			return
		}
		seedSchema, seedSchemaErr = compiler.Compile("seed.schema.json")
	})
	return seedSchema, seedSchemaErr
}

// ParseSeed decodes and validates a seed document.
func ParseSeed(data []byte, format Format) (Seed, error) {
	var raw any
	if err := decode(data, format, &raw); err != nil {
		return nil, err
	}
	if err := ValidateSeed(raw); err != nil {
		return nil, err
	}

	var doc SeedDocument
	if err := decode(data, format, &doc); err != nil {
		return nil, err
	}
	if doc.Collections == nil {
		doc.Collections = Seed{}
	}
	return doc.Collections, nil
}

// ValidateSeed checks a decoded document against the seed schema. YAML values
// are normalized through JSON first so the validator sees JSON types only.
func ValidateSeed(doc any) error {
	schema, err := compiledSeedSchema()
	if err != nil {
		return err
	}

	normalized, err := normalize(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}

	if err := schema.Validate(normalized); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%w: %s", ErrInvalidSeed, describe(ve))
		}
		return fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	return nil
}

// describe flattens a validation error tree into its leaf messages.
func describe(ve *jsonschema.ValidationError) string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return loc + ": " + ve.Message
	}
	msgs := make([]string, 0, len(ve.Causes))
	for _, c := range ve.Causes {
		msgs = append(msgs, describe(c))
	}
	return strings.Join(msgs, "; ")
}

func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadSeedFile reads a seed document from disk.
func LoadSeedFile(path string) (Seed, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	seed, err := ParseSeed(data, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seed, nil
}

// Builtin returns the embedded SuccessFactors fixture.
func Builtin() (Seed, error) {
	data, err := fixtures.ReadFile(BuiltinFixture)
	if err != nil {
		return nil, fmt.Errorf("reading builtin fixture: %w", err)
	}
	return ParseSeed(data, FormatYAML)
}

// LoadSeeds expands every pattern relative to baseDir and merges the matching
// documents in sorted path order. It returns the merged seed and the files
// that were read. A pattern that matches nothing is not an error.
func LoadSeeds(patterns []string, baseDir string) (Seed, []string, error) {
	seed := Seed{}
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := expandGlob(ResolvePath(baseDir, pattern))
		if err != nil {
			return nil, nil, fmt.Errorf("expanding glob pattern %q: %w", pattern, err)
		}
		sort.Strings(matches)
		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			s, err := LoadSeedFile(match)
			if err != nil {
				return nil, nil, err
			}
			seed.Merge(s)
			files = append(files, match)
		}
	}
	return seed, files, nil
}

// LoadConfiguredSeed assembles the startup seed: the builtin fixture when
// enabled, followed by the configured files.
func LoadConfiguredSeed(cfg SeedConfig, baseDir string) (Seed, []string, error) {
	seed := Seed{}
	var sources []string
	if cfg.Builtin {
		b, err := Builtin()
		if err != nil {
			return nil, nil, err
		}
		seed.Merge(b)
		sources = append(sources, "builtin:"+filepath.Base(BuiltinFixture))
	}

	extra, files, err := LoadSeeds(cfg.Files, baseDir)
	if err != nil {
		return nil, nil, err
	}
	seed.Merge(extra)
	return seed, append(sources, files...), nil
}

// expandGlob expands a glob pattern to a list of matching file paths.
// Uses doublestar for ** support, falls back to filepath.Glob for simple patterns.
func expandGlob(pattern string) ([]string, error) {
	if strings.Contains(pattern, "**") {
		return doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	}
	return filepath.Glob(pattern)
}
