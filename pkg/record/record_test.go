package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "EMP001", "EMP001"},
		{"json integer", float64(1), "1"},
		{"json fraction", 2.5, "2.5"},
		{"yaml int", 42, "42"},
		{"int64", int64(7), "7"},
		{"json number", json.Number("100"), "100"},
		{"bool", true, "true"},
		{"nil", nil, ""},
		{"slice", []any{"a"}, "[a]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, String(tt.in))
		})
	}
}

func TestRecord_FieldString(t *testing.T) {
	t.Parallel()

	r := Record{"backgroundElementId": float64(1), "userId": "EMP001", "empty": nil}

	v, ok := r.FieldString("backgroundElementId")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = r.FieldString("missing")
	assert.False(t, ok)

	_, ok = r.FieldString("empty")
	assert.False(t, ok, "nil values are treated as absent")
}

func TestRecord_CloneIsDeep(t *testing.T) {
	t.Parallel()

	orig := Record{
		"userId": "EMP001",
		"nested": map[string]any{"level": "Senior"},
		"tags":   []any{"a", map[string]any{"b": 1}},
	}

	c := orig.Clone()
	c["userId"] = "EMP002"
	c["nested"].(map[string]any)["level"] = "Junior"
	c["tags"].([]any)[1].(map[string]any)["b"] = 2

	assert.Equal(t, "EMP001", orig["userId"])
	assert.Equal(t, "Senior", orig["nested"].(map[string]any)["level"])
	assert.Equal(t, 1, orig["tags"].([]any)[1].(map[string]any)["b"])
	assert.Nil(t, Record(nil).Clone())
}

func TestRecord_Merge(t *testing.T) {
	t.Parallel()

	r := Record{"userId": "EMP001", "employmentStatus": "Active"}
	patch := Record{"employmentStatus": "Updated", "extra": map[string]any{"k": "v"}}
	r.Merge(patch)

	assert.Equal(t, "Updated", r["employmentStatus"])
	assert.Equal(t, "EMP001", r["userId"])

	patch["extra"].(map[string]any)["k"] = "changed"
	assert.Equal(t, "v", r["extra"].(map[string]any)["k"], "merge must not alias the patch")
}

func TestStamp(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 3, 1, 10, 0, 0, 500, time.FixedZone("CET", 3600))
	s := Stamp(ts)
	parsed, err := time.Parse(TimeLayout, s)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
	assert.Equal(t, "2024-03-01T09:00:00.0000005Z", s)
}
