// Package id provides identifier and randomness sources for fabricated data.
//
// A Source produces UUID v4 strings and bounded random integers. The zero-seed
// source draws from crypto/rand through google/uuid; a seeded source draws
// from a PCG generator so that synthesized records are reproducible in tests:
//
//	src := id.NewSource(42)
//	src.UUID() // same sequence for every process started with seed 42
//
// Sources are safe for concurrent use.
package id
