package utils

// ContextKey is the type used for request-context values set by the JWT
// middleware, so handler lookups cannot collide with other packages' keys.
type ContextKey string
