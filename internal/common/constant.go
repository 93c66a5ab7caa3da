// Package common contains constants, sentinel errors and small helpers
// shared by the Artefacto client and the development backend.
package common

import "time"

const (
	// AuthorizationHeaderName carries the bearer credential on API calls.
	AuthorizationHeaderName = "Authorization"
	// BearerPrefix precedes the credential in the Authorization header.
	BearerPrefix = "Bearer "
	// RequestIDHeaderName correlates client log lines with server log lines.
	RequestIDHeaderName = "X-Request-ID"
)

// CredentialTTL is how long a stored credential stays usable on the client.
// The backend issues tokens with the same lifetime.
const CredentialTTL = 7 * 24 * time.Hour
