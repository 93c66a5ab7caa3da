// Package client talks to the Artefacto REST backend and bootstraps the
// client's local database.
//
// HTTPClient implements the auth, catalog and recognition endpoints. Every
// request carries an X-Request-ID; authenticated requests also carry the
// bearer credential read from a TokenSource at call time. Failures are
// returned as *Error values that unwrap to one of the sentinel errors
// (ErrInvalidCredentials, ErrUnavailable, ErrMalformedResponse,
// ErrServerRejected, ErrUnauthorized, ErrUnknown), so callers branch with
// errors.Is and never see raw transport errors.
//
// Authentication responses come in two shapes, {"data":{"token","user"}} and
// {"token","user"}; see decodeAuth.
//
// InitDatabase opens the SQLite file and applies the embedded goose
// migrations.
package client
