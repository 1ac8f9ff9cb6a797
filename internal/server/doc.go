// Package server runs the vidtube transports: the HTTP API and, when an
// address is configured, the gRPC health endpoint. All transports bind
// before any of them serves, and all of them stop when the run context ends
// or one of them fails.
package server
