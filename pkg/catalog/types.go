package catalog

// Overview provides information about all collections.
type Overview struct {
	// Collections is the number of materialized collections
	Collections int `json:"collections"`
	// TotalRecords is the record count across all collections
	TotalRecords int `json:"totalRecords"`
	// Details lists every collection, sorted by name
	Details []CollectionInfo `json:"details"`
}

// CollectionInfo describes a single collection.
type CollectionInfo struct {
	Name      string `json:"name"`
	Records   int    `json:"records"`
	SeedCount int    `json:"seedCount"`
}

// ResetResponse is returned after a reset.
type ResetResponse struct {
	Reset       bool     `json:"reset"`
	Collections []string `json:"collections"`
	Message     string   `json:"message"`
}

// ErrorResponse is the JSON error object returned to clients.
type ErrorResponse struct {
	// Error is the error message
	Error string `json:"error"`
	// Entity is the collection name (if applicable)
	Entity string `json:"entity,omitempty"`
	// Key is the raw key that was addressed (if applicable)
	Key string `json:"key,omitempty"`
	// Detail provides additional error context
	Detail string `json:"detail,omitempty"`
	// Field is the field that caused a validation error
	Field string `json:"field,omitempty"`
	// Hint suggests how to resolve the error
	Hint string `json:"hint,omitempty"`
	// StatusCode is the HTTP status to respond with
	StatusCode int `json:"-"`
}
