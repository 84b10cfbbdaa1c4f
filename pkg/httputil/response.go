// Package httputil provides shared HTTP utilities for consistent response handling.
package httputil

import (
	"encoding/json"
	"net/http"
)

// EnvelopeKey is the top-level field that wraps every successful payload.
const EnvelopeKey = "d"

// Envelope wraps a payload the way OData v2 services do.
type Envelope struct {
	D any `json:"d"`
}

// Results is the list payload nested inside an Envelope.
type Results[T any] struct {
	Results []T `json:"results"`
}

// WriteJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteEnvelope writes payload wrapped under the envelope key.
func WriteEnvelope(w http.ResponseWriter, status int, payload any) {
	WriteJSON(w, status, Envelope{D: payload})
}

// WriteResults writes a list payload as {"d":{"results":[...]}}. A nil slice
// is written as an empty array.
func WriteResults[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	WriteEnvelope(w, http.StatusOK, Results[T]{Results: items})
}

// WriteError writes a JSON error response with the given status code.
// The error response includes an error code and a human-readable message.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	WriteJSON(w, status, map[string]string{
		"error":   errCode,
		"message": message,
	})
}

// WriteOK writes a 200 OK response with data.
func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteMethodNotAllowed writes a 405 response listing the allowed methods.
func WriteMethodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed, use "+allow)
}

// WriteTooManyRequests writes a 429 Too Many Requests response.
func WriteTooManyRequests(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusTooManyRequests, errCode, message)
}
