// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-vidtube/internal/app"
)

// Kind classifies a service failure. Every kind has a default HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuth
	KindUpload
)

var kindNames = map[Kind]string{
	KindInternal:   "internal",
	KindValidation: "validation",
	KindConflict:   "conflict",
	KindNotFound:   "not_found",
	KindAuth:       "auth",
	KindUpload:     "upload",
}

var kindStatuses = map[Kind]int{
	KindInternal:   http.StatusInternalServerError,
	KindValidation: http.StatusBadRequest,
	KindConflict:   http.StatusConflict,
	KindNotFound:   http.StatusNotFound,
	KindAuth:       http.StatusUnauthorized,
	KindUpload:     http.StatusBadRequest,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindInternal]
}

// Status returns the default HTTP status of the kind.
func (k Kind) Status() int {
	if status, ok := kindStatuses[k]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Error is the failure type returned by every service operation.
//
// Message is safe to show to clients. Details end up in the "errors" array of
// the response envelope. The sentinels below are matched with [errors.Is];
// copies created through WithDetails or Wrap still match their sentinel.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Details []string

	sentinel *Error
	cause    error
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Status: kind.Status(), Message: message}
}

func newErrorWithStatus(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.cause != nil {
		b.WriteString(": ")
		b.WriteString(e.cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	var errs []error
	if e.sentinel != nil {
		errs = append(errs, e.sentinel)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

func (e *Error) root() *Error {
	if e.sentinel != nil {
		return e.sentinel
	}
	return e
}

// WithDetails returns a copy of e carrying details.
func (e *Error) WithDetails(details ...string) *Error {
	c := *e
	c.sentinel = e.root()
	c.Details = append([]string(nil), details...)
	return &c
}

// Wrap returns a copy of e that records cause for logging and errors.Is.
// The cause is never shown to clients.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.sentinel = e.root()
	c.cause = cause
	return &c
}

// AsError returns the *Error in err's chain, or an internal error wrapping
// err when there is none.
func AsError(err error) *Error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return ErrInternal.Wrap(err)
}

// Validation failures.
var (
	ErrAllFieldsRequired   = newError(KindValidation, app.MsgAllFieldsRequired)
	ErrAvatarRequired      = newError(KindValidation, app.MsgAvatarRequired)
	ErrCoverImageRequired  = newError(KindValidation, app.MsgCoverImageRequired)
	ErrCredentialsRequired = newError(KindValidation, app.MsgCredentialsRequired)
	ErrPasswordRequired    = newError(KindValidation, app.MsgPasswordRequired)
	ErrPasswordTooLong     = newError(KindValidation, app.MsgPasswordTooLong)
	ErrUsernameMissing     = newError(KindValidation, app.MsgUsernameMissing)
)

// Conflict and lookup failures.
var (
	ErrUserAlreadyExists   = newError(KindConflict, app.MsgUserAlreadyExists)
	ErrUserDoesNotExist    = newError(KindNotFound, app.MsgUserDoesNotExist)
	ErrChannelDoesNotExist = newError(KindNotFound, app.MsgChannelDoesNotExist)
)

// Authentication failures.
var (
	ErrInvalidPassword           = newError(KindAuth, app.MsgInvalidPassword)
	ErrUnauthorized              = newError(KindAuth, app.MsgUnauthorizedRequest)
	ErrInvalidAccessToken        = newError(KindAuth, app.MsgInvalidAccessToken)
	ErrRefreshTokenRequired      = newError(KindAuth, app.MsgRefreshTokenRequired)
	ErrInvalidRefreshToken       = newError(KindAuth, app.MsgInvalidRefreshToken)
	ErrRefreshTokenExpiredOrUsed = newError(KindAuth, app.MsgRefreshTokenExpiredOrUsed)

	// ErrInvalidOldPassword is an auth failure reported with 400, not 401,
	// so that clients do not treat it as an expired session.
	ErrInvalidOldPassword = newErrorWithStatus(KindAuth, http.StatusBadRequest, app.MsgInvalidOldPassword)
)

// Upload failures.
var (
	ErrAvatarUploadFailed     = newError(KindUpload, app.MsgAvatarUploadFailed)
	ErrCoverImageUploadFailed = newError(KindUpload, app.MsgCoverImageUploadFailed)
)

// Internal failures.
var (
	ErrInternal              = newError(KindInternal, app.MsgInternalServerError)
	ErrRegisterFailed        = newError(KindInternal, app.MsgRegisterFailed)
	ErrTokenGenerationFailed = newError(KindInternal, app.MsgTokenGenerationFailed)
	ErrUpdateFailed          = newError(KindInternal, app.MsgSomethingWentWrongInUpdate)
	ErrServiceUnavailable    = newErrorWithStatus(KindInternal, http.StatusServiceUnavailable, app.MsgServiceUnavailable)

	// ErrVersionIsNotSpecified is returned by NewHealthService when the
	// build carries no version.
	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
