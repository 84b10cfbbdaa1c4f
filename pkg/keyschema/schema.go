// Package keyschema describes how each collection is addressed by key.
//
// A Schema lists the identifying fields of a collection for every key arity
// and the field a synthesized record should be keyed on. Descriptors are
// resolved once per collection by a Registry and cached.
package keyschema

import (
	"strconv"
	"strings"
)

// FieldType is the declared type of an identifying field.
type FieldType string

// Field types.
const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
)

// Identifying field names used by the SuccessFactors entity sets.
const (
	FieldUserID              = "userId"
	FieldCode                = "code"
	FieldExternalCode        = "externalCode"
	FieldID                  = "id"
	FieldBackgroundElementID = "backgroundElementId"
)

// BackgroundPrefix marks entity sets keyed by (backgroundElementId, userId).
const BackgroundPrefix = "Background_"

// Field is a named, typed identifying field.
type Field struct {
	Name string    `json:"name" yaml:"name"`
	Type FieldType `json:"type,omitempty" yaml:"type,omitempty"`
}

// Coerce converts a token to the field's declared type. Tokens that do not
// parse as the declared type are kept as strings.
func (f Field) Coerce(token string) any {
	if f.Type == TypeInteger {
		if n, err := strconv.Atoi(token); err == nil {
			return n
		}
	}
	return token
}

// DefaultSingle is the priority order of candidate fields for one-token keys.
var DefaultSingle = []string{
	FieldUserID,
	FieldCode,
	FieldExternalCode,
	FieldID,
	FieldBackgroundElementID,
	"wfRequestId",
	"positionId",
	"apprenticeId",
	"skillId",
	"competencyId",
	"roleId",
	"familyId",
	"certificationId",
	"profileId",
	"templateId",
}

// DefaultPair is the canonical two-part key.
var DefaultPair = [2]Field{
	{Name: FieldBackgroundElementID, Type: TypeInteger},
	{Name: FieldUserID, Type: TypeString},
}

// DefaultTriple is the cost-distribution composite key.
var DefaultTriple = [3]Field{
	{Name: "EmpCostDistribution_effectiveStartDate", Type: TypeString},
	{Name: "EmpCostDistribution_usersSysId", Type: TypeString},
	{Name: FieldExternalCode, Type: TypeInteger},
}

// Schema is the key descriptor of one collection.
type Schema struct {
	Collection string

	// Identity receives the token of a one-part key when a record is synthesized.
	Identity string

	// Single lists one-part key candidates in priority order.
	Single []string

	// Pair is the two-part key. When Permute is set, tokens may arrive in
	// either order.
	Pair    [2]Field
	Permute bool

	// Triple is the positional three-part key.
	Triple [3]Field

	// UserIDs and ExternalCodes tell the synthesizer which plausible
	// secondary fields the collection carries.
	UserIDs       bool
	ExternalCodes bool

	// Declared is false for descriptors inferred from an empty collection.
	Declared bool
}

// Default returns the descriptor used when nothing more is known.
func Default(collection string) *Schema {
	return &Schema{
		Collection: collection,
		Single:     append([]string(nil), DefaultSingle...),
		Pair:       DefaultPair,
		Permute:    true,
		Triple:     DefaultTriple,
	}
}

// Background reports whether the collection follows the background entity
// naming convention.
func (s *Schema) Background() bool {
	return strings.HasPrefix(s.Collection, BackgroundPrefix)
}

// Fields returns the ordered identifying fields for a key of the given arity.
// One-part keys return the candidate list; arities without a declared key
// return nil.
func (s *Schema) Fields(arity int) []Field {
	switch arity {
	case 1:
		out := make([]Field, len(s.Single))
		for i, name := range s.Single {
			out[i] = Field{Name: name, Type: TypeString}
		}
		return out
	case 2:
		return s.Pair[:]
	case 3:
		return s.Triple[:]
	default:
		return nil
	}
}

// Permutable reports whether tokens of this arity may arrive in any order.
func (s *Schema) Permutable(arity int) bool {
	return arity == 2 && s.Permute
}
