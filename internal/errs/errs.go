// Package errs defines the error types returned to API clients.
//
// Every failure path in the service is expressed as an *HTTPError so
// clients receive one consistent JSON shape, with a machine-readable
// code for each failure kind (missing parameter, upstream fetch,
// malformed board data, bad numerics, downstream adjustment).
package errs
