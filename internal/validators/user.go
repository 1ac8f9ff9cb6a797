package validators

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-vidtube/models"
)

// Field names accepted by UserValidator.
const (
	FieldFullName     = "full_name"
	FieldEmail        = "email"
	FieldUsername     = "username"
	FieldPassword     = "password"
	FieldAvatar       = "avatar"
	FieldCredentials  = "credentials"
	FieldNewPassword  = "new_password"
	FieldRefreshToken = "refresh_token"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// UserValidator validates the account request models:
// RegisterRequest, LoginRequest, RefreshRequest, ChangePasswordRequest and
// AccountDetails (value or pointer).
type UserValidator struct {
}

func NewUserValidator() Validator {
	return &UserValidator{}
}

func (v *UserValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegister(value, fields...)
	case *models.RegisterRequest:
		return v.validateRegister(*value, fields...)

	case models.LoginRequest:
		return v.validateLogin(value, fields...)
	case *models.LoginRequest:
		return v.validateLogin(*value, fields...)

	case models.RefreshRequest:
		return v.validateRefresh(value, fields...)
	case *models.RefreshRequest:
		return v.validateRefresh(*value, fields...)

	case models.ChangePasswordRequest:
		return v.validateChangePassword(value, fields...)
	case *models.ChangePasswordRequest:
		return v.validateChangePassword(*value, fields...)

	case models.AccountDetails:
		return v.validateAccountDetails(value, fields...)
	case *models.AccountDetails:
		return v.validateAccountDetails(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// validateRegister checks the text fields first and the avatar last.
// Default fields: all of them.
func (v *UserValidator) validateRegister(req models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFullName, FieldEmail, FieldUsername, FieldPassword, FieldAvatar}
	}

	for _, f := range fields {
		switch f {
		case FieldFullName:
			if blank(req.FullName) {
				return ErrAllFieldsRequired
			}
		case FieldEmail:
			if blank(req.Email) {
				return ErrAllFieldsRequired
			}
		case FieldUsername:
			if blank(req.Username) {
				return ErrAllFieldsRequired
			}
		case FieldPassword:
			if blank(req.Password) {
				return ErrAllFieldsRequired
			}
			if len(req.Password) > MaxPasswordBytes {
				return ErrPasswordTooLong
			}
		case FieldAvatar:
			if req.AvatarPath == "" {
				return ErrAvatarRequired
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateLogin requires at least one identifier.
// Default fields: FieldCredentials.
func (v *UserValidator) validateLogin(req models.LoginRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCredentials}
	}

	for _, f := range fields {
		switch f {
		case FieldCredentials:
			if blank(req.Email) && blank(req.Username) {
				return ErrCredentialsRequired
			}
		case FieldPassword:
			if req.Password == "" {
				return ErrPasswordRequired
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *UserValidator) validateRefresh(req models.RefreshRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRefreshToken}
	}

	for _, f := range fields {
		switch f {
		case FieldRefreshToken:
			if blank(req.RefreshToken) {
				return ErrRefreshTokenRequired
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateChangePassword only checks the new password; a wrong or empty old
// password is reported by the service after hash verification.
func (v *UserValidator) validateChangePassword(req models.ChangePasswordRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldNewPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldNewPassword:
			if blank(req.NewPassword) {
				return ErrPasswordRequired
			}
			if len(req.NewPassword) > MaxPasswordBytes {
				return ErrPasswordTooLong
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *UserValidator) validateAccountDetails(req models.AccountDetails, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFullName, FieldEmail}
	}

	for _, f := range fields {
		switch f {
		case FieldFullName:
			if blank(req.FullName) {
				return ErrAllFieldsRequired
			}
		case FieldEmail:
			if blank(req.Email) {
				return ErrAllFieldsRequired
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
