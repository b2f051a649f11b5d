// Package api is the HTTP client for the TaskPulse backend.
//
// # Sessions
//
// Login returns a *models.Session holding the access and refresh tokens. The caller
// owns that value and passes it to every protected call; the package keeps
// no token state of its own, so several sessions can be used side by side.
//
// When a protected call gets 401, the client exchanges the session's refresh
// token once, stores the new tokens in the same *models.Session and retries the
// request. A second 401 is returned as ErrUnauthorized.
//
// # Errors
//
// Transport failures are reported as ErrUnavailable. Non-2xx responses are
// returned as *Error, which also matches the sentinel errors of this package
// and of internal/common through errors.Is.
package api
