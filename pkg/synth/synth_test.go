package synth

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/odatamock/pkg/keyschema"
	"github.com/getmockd/odatamock/pkg/record"
)

var (
	fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	empRe    = regexp.MustCompile(`^EMP[1-9][0-9]{2}$`)
)

func newTestSynth(seed uint64) *Synthesizer {
	return New(WithSeed(seed), WithClock(func() time.Time { return fixedNow }))
}

func TestSynthesize_BaseFields(t *testing.T) {
	t.Parallel()

	s := newTestSynth(1)
	rec := s.Synthesize(keyschema.Default("NeverSeen"), []string{"X"})

	assert.NotEmpty(t, rec[record.FieldID])
	assert.Equal(t, "2024-05-01T12:00:00Z", rec[record.FieldCreated])
	assert.Equal(t, rec[record.FieldCreated], rec[record.FieldLastModified])
	assert.Equal(t, StatusActive, rec[record.FieldStatus])
	assert.False(t, rec.Has("userId"), "collections without user ids get none")
	assert.False(t, rec.Has("externalCode"))
}

func TestSynthesize_Deterministic(t *testing.T) {
	t.Parallel()

	schema := keyschema.Infer("EmpJob", []record.Record{{"userId": "EMP001", "externalCode": "J1"}})
	a := newTestSynth(42).Synthesize(schema, []string{"EMP777"})
	b := newTestSynth(42).Synthesize(schema, []string{"EMP777"})
	assert.Equal(t, a, b)

	c := newTestSynth(43).Synthesize(schema, []string{"EMP777"})
	assert.NotEqual(t, a[record.FieldID], c[record.FieldID])
}

func TestSynthesize_SingleToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		schema   *keyschema.Schema
		token    string
		field    string
		want     any
		userIDRe bool
	}{
		{
			name:   "user id collection",
			schema: keyschema.Infer("EmpEmployment", []record.Record{{"userId": "EMP001"}}),
			token:  "EMP999", field: "userId", want: "EMP999",
		},
		{
			name:   "code collection",
			schema: keyschema.Infer("Position", []record.Record{{"code": "POS001"}}),
			token:  "POS777", field: "code", want: "POS777",
		},
		{
			name:   "external code collection",
			schema: keyschema.Infer("FOCompany", []record.Record{{"externalCode": "C1"}}),
			token:  "C9", field: "externalCode", want: "C9",
		},
		{
			name:   "background numeric",
			schema: keyschema.Infer("Background_Education", nil),
			token:  "7", field: "backgroundElementId", want: 7, userIDRe: true,
		},
		{
			name:   "background non numeric",
			schema: keyschema.Infer("Background_Education", nil),
			token:  "abc", field: "backgroundElementId", want: 1, userIDRe: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := newTestSynth(7).Synthesize(tt.schema, []string{tt.token})
			assert.Equal(t, tt.want, rec[tt.field])
			if tt.userIDRe {
				assert.Regexp(t, empRe, rec["userId"])
			}
		})
	}
}

func TestSynthesize_SecondaryFields(t *testing.T) {
	t.Parallel()

	schema := keyschema.Infer("FOCompany", []record.Record{{"externalCode": "C1", "code": "X"}})
	rec := newTestSynth(3).Synthesize(schema, []string{"X9"})

	assert.Equal(t, "X9", rec["code"])
	assert.Regexp(t, `^FOCOMPANY[1-9][0-9]{2}$`, rec["externalCode"])
}

func TestSynthesize_BackgroundPair(t *testing.T) {
	t.Parallel()

	schema := keyschema.Infer("Background_Education", nil)
	s := newTestSynth(5)

	forward := s.Synthesize(schema, []string{"1", "EMP001"})
	assert.Equal(t, 1, forward["backgroundElementId"])
	assert.Equal(t, "EMP001", forward["userId"])

	reverse := s.Synthesize(schema, []string{"EMP001", "2"})
	assert.Equal(t, 2, reverse["backgroundElementId"])
	assert.Equal(t, "EMP001", reverse["userId"])

	neither := s.Synthesize(schema, []string{"A", "B"})
	assert.Equal(t, 1, neither["backgroundElementId"])
	assert.Equal(t, "B", neither["userId"])

	both := s.Synthesize(schema, []string{"5", "7"})
	assert.Equal(t, 5, both["backgroundElementId"])
	assert.Equal(t, "5", both["userId"])
}

func TestSynthesize_PairWithoutPermutation(t *testing.T) {
	t.Parallel()

	schema := keyschema.Default("Fixed")
	schema.Permute = false
	rec := newTestSynth(5).Synthesize(schema, []string{"EMP001", "3"})

	assert.Equal(t, "EMP001", rec["backgroundElementId"], "non-numeric token stays a string")
	assert.Equal(t, "3", rec["userId"])
}

func TestSynthesize_Triple(t *testing.T) {
	t.Parallel()

	schema := keyschema.Infer("EmpCostDistributionItem", nil)
	rec := newTestSynth(9).Synthesize(schema, []string{"2023-01-01", "EMP001", "12"})

	assert.Equal(t, "2023-01-01", rec["EmpCostDistribution_effectiveStartDate"])
	assert.Equal(t, "EMP001", rec["EmpCostDistribution_usersSysId"])
	assert.Equal(t, 12, rec["externalCode"])
}

func TestSynthesize_LongKey(t *testing.T) {
	t.Parallel()

	rec := newTestSynth(9).Synthesize(nil, []string{"a", "b", "c", "d"})
	require.NotEmpty(t, rec[record.FieldID])
	assert.Equal(t, "a", rec["key1"])
	assert.Equal(t, "d", rec["key4"])
}

func TestSynthesize_Unseeded(t *testing.T) {
	t.Parallel()

	s := New()
	a := s.Synthesize(nil, []string{"x"})
	b := s.Synthesize(nil, []string{"x"})
	assert.NotEqual(t, a[record.FieldID], b[record.FieldID])
}
