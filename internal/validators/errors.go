package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrAllFieldsRequired    = errors.New("all fields are required")
	ErrAvatarRequired       = errors.New("avatar file is required")
	ErrCredentialsRequired  = errors.New("email or username is required")
	ErrPasswordRequired     = errors.New("password is required")
	ErrPasswordTooLong      = errors.New("password is longer than 72 bytes")
	ErrRefreshTokenRequired = errors.New("refresh token is required")
)
