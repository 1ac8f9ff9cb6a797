package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgtype"
)

// userRepository is the PostgreSQL implementation of [UserRepository]
// over the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] so
// that database failures carry the request trace id.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by db.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var user models.User
	watchHistory := make([]string, 0)
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName, &user.Avatar, &user.CoverImage,
		&user.PasswordHash, &user.RefreshToken,
		pgtype.NewMap().SQLScanner(&watchHistory),
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return models.User{}, err
	}
	if watchHistory == nil {
		watchHistory = []string{}
	}
	user.WatchHistory = watchHistory
	return user, nil
}

// CreateUser inserts a user whose password is already hashed.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrUserAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser,
		user.Username, user.Email, user.FullName, user.Avatar, user.CoverImage, user.PasswordHash)

	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Bool("retryable", r.db.retryable(err)).Msg("error inserting user")
		return models.User{}, r.mapWriteError(err)
	}

	created := models.User{PasswordHash: user.PasswordHash, WatchHistory: []string{}}
	if err := row.Scan(&created.ID, &created.Username, &created.Email, &created.FullName,
		&created.Avatar, &created.CoverImage, &created.CreatedAt, &created.UpdatedAt); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error scanning created user")
		if postgresError(err) != "" {
			return models.User{}, r.mapWriteError(err)
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return created, nil
}

func (r *userRepository) FindUserByID(ctx context.Context, userID string) (models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, findUserByID, userID))
	if err != nil {
		return models.User{}, r.mapReadError(ctx, "*userRepository.FindUserByID", err)
	}
	return user, nil
}

func (r *userRepository) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (models.User, error) {
	if username == "" && email == "" {
		return models.User{}, ErrUserNotFound
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, findUserByUsernameOrEmail, username, email))
	if err != nil {
		return models.User{}, r.mapReadError(ctx, "*userRepository.FindUserByUsernameOrEmail", err)
	}
	return user, nil
}

func (r *userRepository) SetRefreshToken(ctx context.Context, userID, refreshToken string) error {
	return r.execAffectingOne(ctx, "*userRepository.SetRefreshToken", ErrUserNotFound, setRefreshToken, userID, refreshToken)
}

// ClearRefreshToken does not care whether a row was affected: logging out a
// deleted or already logged out user is not an error.
func (r *userRepository) ClearRefreshToken(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, clearRefreshToken, userID); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*userRepository.ClearRefreshToken").Msg("error clearing refresh token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

// RotateRefreshToken is a single conditional UPDATE, so two concurrent
// refreshes presenting the same token cannot both succeed.
func (r *userRepository) RotateRefreshToken(ctx context.Context, userID, current, next string) error {
	return r.execAffectingOne(ctx, "*userRepository.RotateRefreshToken", ErrRefreshTokenMismatch, rotateRefreshToken, userID, current, next)
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return r.execAffectingOne(ctx, "*userRepository.UpdatePassword", ErrUserNotFound, updatePassword, userID, passwordHash)
}

func (r *userRepository) UpdateAccountDetails(ctx context.Context, userID string, details models.AccountDetails) (models.User, error) {
	query, args, err := buildUpdateAccountQuery(userID, details)
	if err != nil {
		return models.User{}, err
	}
	if err = r.execAffectingOne(ctx, "*userRepository.UpdateAccountDetails", ErrUserNotFound, query, args...); err != nil {
		return models.User{}, err
	}
	return r.FindUserByID(ctx, userID)
}

func (r *userRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) (models.User, error) {
	return r.updateImage(ctx, userID, "avatar_url", avatarURL)
}

func (r *userRepository) UpdateCoverImage(ctx context.Context, userID, coverImageURL string) (models.User, error) {
	return r.updateImage(ctx, userID, "cover_image_url", coverImageURL)
}

func (r *userRepository) updateImage(ctx context.Context, userID, column, url string) (models.User, error) {
	query, args, err := buildUpdateImageQuery(userID, column, url)
	if err != nil {
		return models.User{}, err
	}
	if err = r.execAffectingOne(ctx, "*userRepository.updateImage", ErrUserNotFound, query, args...); err != nil {
		return models.User{}, err
	}
	return r.FindUserByID(ctx, userID)
}

// execAffectingOne runs a single-row DML statement and returns noRows when it
// matched nothing.
func (r *userRepository) execAffectingOne(ctx context.Context, funcName string, noRows error, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", funcName).Bool("retryable", r.db.retryable(err)).Msg("error executing statement")
		return r.mapWriteError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", funcName).Msg("error reading affected rows")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if affected == 0 {
		log.Debug().Str("func", funcName).Msg("statement matched no rows")
		return noRows
	}

	return nil
}

func (r *userRepository) mapWriteError(err error) error {
	switch postgresError(err) {
	case pgerrcode.UniqueViolation:
		return ErrUserAlreadyExists
	case pgerrcode.InvalidTextRepresentation:
		return ErrUserNotFound
	default:
		return fmt.Errorf("unexpected DB error: %w", err)
	}
}

func (r *userRepository) mapReadError(ctx context.Context, funcName string, err error) error {
	if errors.Is(err, sql.ErrNoRows) || postgresError(err) == pgerrcode.InvalidTextRepresentation {
		return ErrUserNotFound
	}

	logger.FromContext(ctx).Err(err).Str("func", funcName).Bool("retryable", r.db.retryable(err)).Msg("error reading user")
	return fmt.Errorf("unexpected DB error: %w", err)
}
