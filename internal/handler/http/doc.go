// Package http implements the REST transport of the vidtube server.
//
// Routes live under /api/v1. Every route handler returns an error; the
// boundary in handle renders it as the uniform failure envelope, so handlers
// only ever write the success envelope themselves. Authentication reads the
// accessToken cookie first and the Authorization header second, and places
// the sanitized principal into the request context. Tracing, access logging,
// metrics, compression and per-IP rate limiting are middlewares.
package http
