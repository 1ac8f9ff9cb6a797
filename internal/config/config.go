// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// StructuredConfig is the top-level configuration container for the
// vidtube server. It aggregates all sub-configurations and is populated by
// merging values from a .env file, environment variables, command-line flags
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Auth holds the two token signing contexts. Its variables carry no
	// prefix: ACCESS_TOKEN_SECRET, REFRESH_TOKEN_EXPIRY and so on.
	Auth Auth

	// App holds application-level settings such as the bcrypt cost and
	// the application version.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the credential store and its cache.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network, cookie, upload and rate limit settings.
	Server Server `envPrefix:"SERVER_"`

	// Media holds temp upload and object storage settings.
	Media Media `envPrefix:"MEDIA_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// Port is the listen port used when Server.HTTPAddress is empty.
	// Env: PORT
	Port int `env:"PORT"`

	// MongoDBURI is an alias for Storage.DB.DSN.
	// Env: MONGODB_URI
	MongoDBURI string `env:"MONGODB_URI"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`

	// DotEnvPath is the .env file loaded before the environment is read.
	// Env: DOTENV_PATH
	DotEnvPath string `env:"DOTENV_PATH"`
}

// Auth holds the secrets and lifetimes of the access and refresh tokens.
type Auth struct {
	// AccessTokenSecret signs access tokens.
	// Env: ACCESS_TOKEN_SECRET
	AccessTokenSecret string `env:"ACCESS_TOKEN_SECRET"`

	// AccessTokenExpiry is the lifetime of an access token (e.g. "24h").
	// Env: ACCESS_TOKEN_EXPIRY
	AccessTokenExpiry time.Duration `env:"ACCESS_TOKEN_EXPIRY"`

	// RefreshTokenSecret signs refresh tokens. Must differ from AccessTokenSecret.
	// Env: REFRESH_TOKEN_SECRET
	RefreshTokenSecret string `env:"REFRESH_TOKEN_SECRET"`

	// RefreshTokenExpiry is the lifetime of a refresh token (e.g. "240h").
	// Env: REFRESH_TOKEN_EXPIRY
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY"`

	// TokenIssuer is the "iss" claim embedded in and required from every token.
	// Env: TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`
}

// App holds application-level configuration values.
type App struct {
	// BcryptCost is the work factor used when hashing passwords.
	// Env: APP_BCRYPT_COST
	BcryptCost int `env:"BCRYPT_COST"`

	// Version is the semantic version string of the running application.
	// Exposed via the healthcheck endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// LogLevel is a zerolog level name; empty means debug.
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the credential store connection settings.
	DB DB `envPrefix:"DB_"`

	// Cache holds the optional redis principal cache settings.
	Cache Cache `envPrefix:"CACHE_"`
}

// DB holds connection settings for the credential store. The scheme of DSN
// selects the backend: mongodb:// and mongodb+srv:// open MongoDB,
// postgres:// and keyword DSNs open PostgreSQL.
type DB struct {
	// DSN is the connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// Name is the MongoDB database name. Ignored by PostgreSQL.
	// Env: STORAGE_DB_NAME
	Name string `env:"NAME"`
}

// Cache holds redis settings. An empty RedisAddress disables caching.
type Cache struct {
	// Env: STORAGE_CACHE_REDIS_ADDRESS
	RedisAddress string `env:"REDIS_ADDRESS"`
	// Env: STORAGE_CACHE_REDIS_PASSWORD
	RedisPassword string `env:"REDIS_PASSWORD"`
	// Env: STORAGE_CACHE_REDIS_DB
	RedisDB int `env:"REDIS_DB"`
	// TTL is how long a cached user stays valid.
	// Env: STORAGE_CACHE_TTL
	TTL time.Duration `env:"TTL"`
}

// Server holds network and transport settings for the inbound layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health server. Empty disables it.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`

	// CookieInsecure drops the Secure attribute from auth cookies.
	// Only meant for local development over plain HTTP.
	// Env: SERVER_COOKIE_INSECURE
	CookieInsecure bool `env:"COOKIE_INSECURE"`

	// MaxUploadBytes caps the size of a multipart request body.
	// Env: SERVER_MAX_UPLOAD_BYTES
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES"`

	// TrustedProxies lists the addresses or CIDR ranges of reverse proxies
	// whose X-Forwarded-For and X-Real-IP headers are believed. Empty means
	// clients are identified by the connection address only.
	// Env: SERVER_TRUSTED_PROXIES (comma separated)
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// RateLimit guards the register and login endpoints.
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_"`
}

// RateLimit configures the per-IP limiter.
type RateLimit struct {
	// Env: SERVER_RATE_LIMIT_REQUESTS
	Requests int `env:"REQUESTS"`
	// Env: SERVER_RATE_LIMIT_WINDOW
	Window time.Duration `env:"WINDOW"`
	// Env: SERVER_RATE_LIMIT_BURST
	Burst int `env:"BURST"`
}

// Media holds upload settings.
type Media struct {
	// TempDir receives multipart uploads before they are pushed to storage.
	// Env: MEDIA_TEMP_DIR
	TempDir string `env:"TEMP_DIR"`

	// LocalDir is the local object store used when no S3 bucket is set.
	// Env: MEDIA_LOCAL_DIR
	LocalDir string `env:"LOCAL_DIR"`

	// PublicBaseURL prefixes every returned media URL.
	// Env: MEDIA_PUBLIC_BASE_URL
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	// S3 selects the S3-compatible backend when Bucket is non-empty.
	S3 S3 `envPrefix:"S3_"`
}

// S3 holds S3-compatible object store settings.
type S3 struct {
	// Env: MEDIA_S3_BUCKET
	Bucket string `env:"BUCKET"`
	// Env: MEDIA_S3_REGION
	Region string `env:"REGION"`
	// Endpoint overrides the AWS endpoint (MinIO, R2, ...).
	// Env: MEDIA_S3_ENDPOINT
	Endpoint string `env:"ENDPOINT"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// TempSweepInterval is how often the temp upload dir is swept.
	// Env: WORKERS_TEMP_SWEEP_INTERVAL
	TempSweepInterval time.Duration `env:"TEMP_SWEEP_INTERVAL"`

	// TempMaxAge is the age after which a leftover temp upload is removed.
	// Env: WORKERS_TEMP_MAX_AGE
	TempMaxAge time.Duration `env:"TEMP_MAX_AGE"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. .env file (only fills variables that are not already set)
//  2. Environment variables
//  3. Command-line flags
//  4. JSON file (path resolved from sources 2 and 3)
//
// Defaults are applied to every field still unset after merging.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder(os.Args[1:]).
		withDotEnv().
		withEnv().
		withFlags().
		withJSON().
		build()
}
