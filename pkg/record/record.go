// Package record defines the flexible-schema document stored in every collection.
package record

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"time"
)

// System field names written by the service.
const (
	FieldID           = "id"
	FieldCreated      = "createdDate"
	FieldLastModified = "lastModifiedDate"
	FieldStatus       = "status"
)

// TimeLayout is the layout used for createdDate and lastModifiedDate.
const TimeLayout = time.RFC3339Nano

// Record is a single business entity instance. Values are whatever the JSON or
// YAML decoder produced: strings, float64/int numbers, bools, nested maps and slices.
type Record map[string]any

// Has reports whether the field is present.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

// FieldString returns the textual form of a field and whether it is present.
// Numbers use their shortest decimal representation so that 1, 1.0 and "1"
// all compare equal.
func (r Record) FieldString(field string) (string, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return "", false
	}
	return String(v), true
}

// String renders a scalar value the way keys are compared.
func String(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Clone returns a deep copy so callers can hand records out without sharing
// nested maps or slices with the store.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Record(t).Clone())
	case Record:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// Merge copies every field of patch into r, overwriting existing values.
func (r Record) Merge(patch Record) {
	maps.Copy(r, patch.Clone())
}

// Stamp formats t for a timestamp field.
func Stamp(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
