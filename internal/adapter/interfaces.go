// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides a typed client for the vidtube users API.
//
// [APIClient] hides the response envelope and maps non-2xx statuses to the
// sentinel errors in errors.go, so callers can use [errors.Is] regardless of
// the message the server chose (e.g. [ErrConflict] for 409, [ErrUnauthorized]
// for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-vidtube/models"
)

// APIClient talks to a running vidtube server. Implementations keep the
// current token pair and attach the access token to protected calls.
type APIClient interface {
	// SetTokens replaces the held token pair.
	SetTokens(pair models.TokenPair)

	// Tokens returns the held token pair. Both fields are empty before a
	// successful Login.
	Tokens() models.TokenPair

	// Health fetches the healthcheck report. A store that is down surfaces
	// as [ErrServiceUnavailable].
	Health(ctx context.Context) (models.HealthStatus, error)

	// Register creates an account. Avatar and cover image are optional local
	// file paths; empty paths are not sent.
	Register(ctx context.Context, req RegisterParams) (models.User, error)

	// Login authenticates by email or username and stores the issued pair.
	Login(ctx context.Context, req models.LoginRequest) (models.Session, error)

	// Refresh exchanges the held refresh token for a new pair and stores it.
	Refresh(ctx context.Context) (models.TokenPair, error)

	// Logout revokes the session on the server and forgets the held pair.
	Logout(ctx context.Context) error

	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error
	CurrentUser(ctx context.Context) (models.User, error)
	UpdateAccount(ctx context.Context, details models.AccountDetails) (models.User, error)

	// UpdateAvatar and UpdateCoverImage upload the file at path.
	UpdateAvatar(ctx context.Context, path string) (models.User, error)
	UpdateCoverImage(ctx context.Context, path string) (models.User, error)

	ChannelProfile(ctx context.Context, username string) (models.ChannelProfile, error)
	WatchHistory(ctx context.Context) ([]models.WatchHistoryEntry, error)
}

// RegisterParams is the registration form. AvatarPath is required by the
// server; CoverImagePath may be empty.
type RegisterParams struct {
	FullName       string
	Email          string
	Username       string
	Password       string
	AvatarPath     string
	CoverImagePath string
}
