// Package api provides the HTTP server for document ingestion and grounded
// question answering.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8000")
	ListenAddr string

	// MaxUploadBytes caps the request body size for uploads. Zero uses the
	// fiber default.
	MaxUploadBytes int

	// AuthToken, when non-empty, requires a matching bearer token on every
	// route except the liveness probe.
	AuthToken string
}
