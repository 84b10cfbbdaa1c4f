package requestlog

import "time"

// Entry captures one served request.
type Entry struct {
	// ID is a unique identifier for the entry, assigned by the store.
	ID string `json:"id"`

	// Timestamp is when the request was received.
	Timestamp time.Time `json:"timestamp"`

	Method string `json:"method"`
	Path   string `json:"path"`

	// QueryString is the raw query string.
	QueryString string `json:"queryString,omitempty"`

	// Route is the matched route pattern, or "unmatched".
	Route string `json:"route"`

	// Collection and Key name the addressed entity set and raw key text.
	// Both are empty for requests that do not address an entity set.
	Collection string `json:"collection,omitempty"`
	Key        string `json:"key,omitempty"`

	// BodySize is the request body size in bytes as declared by the client.
	BodySize int64 `json:"bodySize"`

	// RemoteAddr is the client address.
	RemoteAddr string `json:"remoteAddr"`

	// ResponseStatus is the status code returned.
	ResponseStatus int `json:"responseStatus"`

	// ResponseSize is the number of body bytes written.
	ResponseSize int `json:"responseSize"`

	// DurationMs is the request processing time in milliseconds.
	DurationMs int64 `json:"durationMs"`
}

// Failed reports whether the response was a 4xx or 5xx.
func (e *Entry) Failed() bool {
	return e.ResponseStatus >= 400
}
