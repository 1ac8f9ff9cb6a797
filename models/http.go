package models

// RegisterRequest carries the registration form fields together with the
// local temp paths of the uploaded images.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`

	// AvatarPath is the temp file holding the avatar upload. Required.
	AvatarPath string `json:"-"`

	// CoverImagePath is the temp file holding the cover upload. Optional.
	CoverImagePath string `json:"-"`
}

// LoginRequest identifies a user by username or email.
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the body form of the refresh-token call.
// The cookie of the same name takes precedence.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest is the body of the change-password call.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// AccountDetails is the body of the account update call.
type AccountDetails struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}
