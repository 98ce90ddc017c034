package models

// ErrorDetail is a single structured error entry in an API error response.
type ErrorDetail struct {
	// Field names the offending request field, or "system" for
	// non-field errors.
	Field string `json:"field"`

	// Code is the stable machine-readable error code (e.g. "E0002").
	Code string `json:"code"`

	// Message is the human-readable description.
	Message string `json:"message"`
}

// APIError is the uniform error envelope every failed request resolves to.
// No unrecovered fault crosses the handler boundary; storage errors are
// wrapped before they reach this shape.
type APIError struct {
	// Status is the HTTP status code mirrored into the body.
	Status int `json:"status"`

	// Errors lists one or more structured error details.
	Errors []ErrorDetail `json:"errors"`
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// IDResponse acknowledges a mutation with the affected principal id.
type IDResponse struct {
	ID int64 `json:"id"`
}

// SearchUsersResponse wraps a user search result page.
type SearchUsersResponse struct {
	Usrs []User `json:"usrs"`
}

// CredentialResponse exposes a vault record's key and stored ciphertext.
type CredentialResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// CryptoTextResponse carries the output of the generic encrypt/decrypt
// endpoints.
type CryptoTextResponse struct {
	Data string `json:"data"`
}

// OperatorHashResponse carries a freshly stored operator-secret hash.
type OperatorHashResponse struct {
	Hash string `json:"hash"`
}

// OperatorCheckResponse reports whether an operator secret is valid.
type OperatorCheckResponse struct {
	Ok bool `json:"ok"`
}
