// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store is the credential store of the service.
//
// [UserRepository] persists user accounts together with their single active
// refresh token; [ChannelRepository] answers the read-only channel profile
// and watch history views. Both are implemented on PostgreSQL (default) and
// MongoDB, selected by the DSN scheme. A redis-backed cache can be layered
// over either [UserRepository] implementation.
package store

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

import (
	"context"

	"github.com/MKhiriev/go-vidtube/models"
)

// UserRepository persists user accounts.
//
// Every update method returns [ErrUserNotFound] when userID does not exist.
type UserRepository interface {
	// CreateUser inserts user and returns the stored record including the
	// assigned ID. A username or email collision yields [ErrUserAlreadyExists].
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	FindUserByID(ctx context.Context, userID string) (models.User, error)

	// FindUserByUsernameOrEmail matches either field exactly; empty arguments
	// never match.
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (models.User, error)

	SetRefreshToken(ctx context.Context, userID, refreshToken string) error

	// ClearRefreshToken removes the stored refresh token. It succeeds when
	// there is nothing to clear.
	ClearRefreshToken(ctx context.Context, userID string) error

	// RotateRefreshToken replaces current with next in a single conditional
	// write. If the stored token is not current, nothing is written and
	// [ErrRefreshTokenMismatch] is returned.
	RotateRefreshToken(ctx context.Context, userID, current, next string) error

	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateAccountDetails(ctx context.Context, userID string, details models.AccountDetails) (models.User, error)
	UpdateAvatar(ctx context.Context, userID, avatarURL string) (models.User, error)
	UpdateCoverImage(ctx context.Context, userID, coverImageURL string) (models.User, error)
}

// ChannelRepository serves the aggregate channel views.
type ChannelRepository interface {
	// GetChannelProfile returns the channel owned by username with its
	// subscription counts. IsSubscribed reports whether viewerID subscribes
	// to the channel; an empty viewerID is never subscribed.
	GetChannelProfile(ctx context.Context, username, viewerID string) (models.ChannelProfile, error)

	// GetWatchHistory returns the user's watched videos in watch order, each
	// with its owner summary. It never returns a nil slice.
	GetWatchHistory(ctx context.Context, userID string) ([]models.WatchHistoryEntry, error)
}

// Pinger reports backend liveness for the health endpoints.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ErrorClassificator decides whether a backend error is transient.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
