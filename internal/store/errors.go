package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrUserAlreadyExists is returned when an insert or update collides with
	// the unique username or email of another user.
	ErrUserAlreadyExists = errors.New("user with email or username already exists")

	// ErrUserNotFound is returned when a lookup or update targets a user that
	// does not exist.
	ErrUserNotFound = errors.New("user was not found")

	// ErrRefreshTokenMismatch is returned by RotateRefreshToken when the stored
	// refresh token is no longer the one presented, i.e. it was rotated or
	// cleared in the meantime.
	ErrRefreshTokenMismatch = errors.New("stored refresh token does not match")

	// ErrChannelNotFound is returned when no user owns the requested channel.
	ErrChannelNotFound = errors.New("channel was not found")

	// ErrInvalidID is returned when an identifier cannot be converted to the
	// backend's native id type.
	ErrInvalidID = errors.New("invalid identifier")

	// ErrUnsupportedDSN is returned when no backend accepts the configured DSN.
	ErrUnsupportedDSN = errors.New("unsupported database DSN")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when an operation fails before any domain logic can be
// applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning a single result row fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when iterating a multi-row result fails.
	ErrScanningRows = errors.New("failed to scan rows")
)
