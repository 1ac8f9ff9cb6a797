package server

import "context"

// Server defines the lifecycle contract of the application's transports.
//
// Run starts every enabled transport and blocks until ctx is cancelled or
// one of them fails, then shuts all of them down gracefully.
type Server interface {
	Run(ctx context.Context) error
}

// transport is one listening server managed by [Server].
type transport interface {
	// name labels the transport in logs.
	name() string

	// listen binds the address; serve then blocks until shutdown.
	listen() error
	serve() error

	shutdown(ctx context.Context) error

	// abort releases a bound listener of a transport that never served.
	abort()
}
