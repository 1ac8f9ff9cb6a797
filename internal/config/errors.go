package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrMissingTokenSecrets indicates that the access or refresh token
	// secret is empty.
	ErrMissingTokenSecrets = errors.New("access and refresh token secrets are required")
	// ErrSameTokenSecrets indicates that both signing contexts share a secret.
	ErrSameTokenSecrets = errors.New("access and refresh token secrets must differ")
	// ErrInvalidTokenExpiry indicates a negative lifetime or an access token
	// that outlives the refresh token.
	ErrInvalidTokenExpiry = errors.New("invalid token expiry configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, bcrypt cost out of range).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidMediaConfigs indicates incomplete object storage settings.
	ErrInvalidMediaConfigs = errors.New("invalid media configuration")
	// ErrInvalidTrustedProxies indicates a trusted proxy entry that is
	// neither an IP address nor a CIDR range.
	ErrInvalidTrustedProxies = errors.New("invalid trusted proxies")
)
