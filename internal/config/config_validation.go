// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultPort               = 8000
	defaultTokenIssuer        = "vidtube"
	defaultAccessTokenExpiry  = 24 * time.Hour
	defaultRefreshTokenExpiry = 10 * 24 * time.Hour
	defaultRequestTimeout     = 30 * time.Second
	defaultShutdownTimeout    = 10 * time.Second
	defaultMaxUploadBytes     = 10 << 20
	defaultRateLimitRequests  = 10
	defaultRateLimitWindow    = time.Minute
	defaultRateLimitBurst     = 5
	defaultCacheTTL           = 5 * time.Minute
	defaultMongoDBName        = "vidtube"
	defaultSweepInterval      = 10 * time.Minute
	defaultTempMaxAge         = time.Hour
)

// applyDefaults fills every field that is still zero after all sources were
// merged.
func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Auth.TokenIssuer == "" {
		cfg.Auth.TokenIssuer = defaultTokenIssuer
	}
	if cfg.Auth.AccessTokenExpiry == 0 {
		cfg.Auth.AccessTokenExpiry = defaultAccessTokenExpiry
	}
	if cfg.Auth.RefreshTokenExpiry == 0 {
		cfg.Auth.RefreshTokenExpiry = defaultRefreshTokenExpiry
	}

	if cfg.App.BcryptCost == 0 {
		cfg.App.BcryptCost = bcrypt.DefaultCost
	}

	if cfg.Storage.DB.DSN == "" {
		cfg.Storage.DB.DSN = cfg.MongoDBURI
	}
	if cfg.Storage.DB.Name == "" {
		cfg.Storage.DB.Name = defaultMongoDBName
	}
	if cfg.Storage.Cache.TTL == 0 {
		cfg.Storage.Cache.TTL = defaultCacheTTL
	}

	if cfg.Server.HTTPAddress == "" {
		port := cfg.Port
		if port == 0 {
			port = defaultPort
		}
		cfg.Server.HTTPAddress = net.JoinHostPort("", strconv.Itoa(port))
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.Server.RateLimit.Requests == 0 {
		cfg.Server.RateLimit.Requests = defaultRateLimitRequests
	}
	if cfg.Server.RateLimit.Window == 0 {
		cfg.Server.RateLimit.Window = defaultRateLimitWindow
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = defaultRateLimitBurst
	}

	if cfg.Media.TempDir == "" {
		cfg.Media.TempDir = filepath.Join(".", "public", "temp")
	}
	if cfg.Media.LocalDir == "" {
		cfg.Media.LocalDir = filepath.Join(".", "public", "media")
	}
	if cfg.Media.PublicBaseURL == "" && cfg.Media.S3.Bucket == "" {
		cfg.Media.PublicBaseURL = localPublicBaseURL(cfg.Server.HTTPAddress)
	}

	if cfg.Workers.TempSweepInterval == 0 {
		cfg.Workers.TempSweepInterval = defaultSweepInterval
	}
	if cfg.Workers.TempMaxAge == 0 {
		cfg.Workers.TempMaxAge = defaultTempMaxAge
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Auth.AccessTokenSecret == "" || cfg.Auth.RefreshTokenSecret == "" {
		return ErrMissingTokenSecrets
	}
	if cfg.Auth.AccessTokenSecret == cfg.Auth.RefreshTokenSecret {
		return ErrSameTokenSecrets
	}
	if cfg.Auth.AccessTokenExpiry < 0 || cfg.Auth.RefreshTokenExpiry < 0 {
		return ErrInvalidTokenExpiry
	}
	if cfg.Auth.AccessTokenExpiry >= cfg.Auth.RefreshTokenExpiry {
		return ErrInvalidTokenExpiry
	}

	if cfg.App.BcryptCost < bcrypt.MinCost || cfg.App.BcryptCost > bcrypt.MaxCost {
		return ErrInvalidAppConfigs
	}

	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Media.S3.Bucket != "" && cfg.Media.S3.Region == "" {
		return ErrInvalidMediaConfigs
	}

	if _, err := utils.ParseTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTrustedProxies, err)
	}

	return nil
}

// localPublicBaseURL points media URLs at the /static route of this server.
func localPublicBaseURL(httpAddress string) string {
	_, port, err := net.SplitHostPort(httpAddress)
	if err != nil || port == "" {
		port = strconv.Itoa(defaultPort)
	}
	return "http://localhost:" + port + "/static"
}
