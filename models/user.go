package models

import "time"

// User represents a channel owner account.
// PasswordHash and RefreshToken are secrets and are never serialized to clients.
type User struct {
	// ID is the store-assigned identifier (UUID for postgres, ObjectID hex for mongo).
	ID string `json:"_id"`

	// Username is unique across all users and is stored lowercased.
	Username string `json:"username"`

	// Email is unique across all users.
	Email string `json:"email"`

	// FullName is the display name of the channel.
	FullName string `json:"fullName"`

	// Avatar is the public URL of the required avatar image.
	Avatar string `json:"avatar"`

	// CoverImage is the public URL of the optional cover image; empty when unset.
	CoverImage string `json:"coverImage"`

	// WatchHistory holds video identifiers in the order they were watched.
	WatchHistory []string `json:"watchHistory"`

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `json:"-"`

	// RefreshToken is the single active refresh token; empty after logout.
	RefreshToken string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sanitized returns a copy of the user with every secret field cleared.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshToken = ""
	if u.WatchHistory == nil {
		u.WatchHistory = []string{}
	}
	return u
}
