// Package common contains shared constants and sentinel errors used across
// TaskPulse components.
package common

// AuthorizationHeaderName carries the bearer access token on protected requests.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only accepted authorization scheme.
const BearerScheme = "Bearer"

// RequestIDHeaderName is echoed back on every response.
const RequestIDHeaderName = "X-Request-ID"
