// Package middleware contains the Echo middleware stack: request IDs,
// request-scoped logging, CORS, panic recovery, secure headers, rate
// limiting, New Relic tracing, and the global error handler that turns
// every failure into the errs.HTTPError JSON shape.
package middleware
