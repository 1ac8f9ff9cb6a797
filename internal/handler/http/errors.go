// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors raised by the transport itself, before a request reaches
// the service layer. Each one has an entry in errorStatusMap.
var (
	// ErrEmptyAuthorizationHeader is returned when neither the accessToken
	// cookie nor an "Authorization" header is present.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is not of the form "Bearer <token>".
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrInvalidJSON is returned when a JSON body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON body")

	// ErrInvalidMultipartForm is returned when a multipart body is malformed
	// or one of its files cannot be stored in the temp directory.
	ErrInvalidMultipartForm = errors.New("invalid multipart form")

	// ErrInvalidGzipBody is returned when a gzip-encoded body cannot be read.
	ErrInvalidGzipBody = errors.New("invalid gzip body")

	// ErrUploadTooLarge is returned when the body exceeds the upload limit.
	ErrUploadTooLarge = errors.New("request body too large")

	// ErrTooManyRequests is returned by the rate limiter.
	ErrTooManyRequests = errors.New("rate limit exceeded")

	// ErrRouteNotFound is returned for unknown paths and unsupported methods.
	ErrRouteNotFound = errors.New("route not found")
)
