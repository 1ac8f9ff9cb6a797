package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] for JSON files, using
// [Duration] so that lifetimes can be written as "24h" strings.
type StructuredJSONConfig struct {
	Auth struct {
		AccessTokenSecret  string   `json:"access_token_secret"`
		AccessTokenExpiry  Duration `json:"access_token_expiry"`
		RefreshTokenSecret string   `json:"refresh_token_secret"`
		RefreshTokenExpiry Duration `json:"refresh_token_expiry"`
		TokenIssuer        string   `json:"token_issuer"`
	} `json:"auth,omitempty"`

	App struct {
		BcryptCost int    `json:"bcrypt_cost"`
		Version    string `json:"version"`
		LogLevel   string `json:"log_level"`
	} `json:"app,omitempty"`

	Storage struct {
		DB struct {
			DSN  string `json:"dsn"`
			Name string `json:"name"`
		} `json:"db,omitempty"`

		Cache struct {
			RedisAddress  string   `json:"redis_address"`
			RedisPassword string   `json:"redis_password"`
			RedisDB       int      `json:"redis_db"`
			TTL           Duration `json:"ttl"`
		} `json:"cache,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress     string   `json:"http_address"`
		GRPCAddress     string   `json:"grpc_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
		CookieInsecure  bool     `json:"cookie_insecure"`
		MaxUploadBytes  int64    `json:"max_upload_bytes"`
		TrustedProxies  []string `json:"trusted_proxies"`
		RateLimit       struct {
			Requests int      `json:"requests"`
			Window   Duration `json:"window"`
			Burst    int      `json:"burst"`
		} `json:"rate_limit,omitempty"`
	} `json:"server,omitempty"`

	Media struct {
		TempDir       string `json:"temp_dir"`
		LocalDir      string `json:"local_dir"`
		PublicBaseURL string `json:"public_base_url"`
		S3            struct {
			Bucket   string `json:"bucket"`
			Region   string `json:"region"`
			Endpoint string `json:"endpoint"`
		} `json:"s3,omitempty"`
	} `json:"media,omitempty"`

	Workers struct {
		TempSweepInterval Duration `json:"temp_sweep_interval"`
		TempMaxAge        Duration `json:"temp_max_age"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Auth: Auth{
			AccessTokenSecret:  jsonCfg.Auth.AccessTokenSecret,
			AccessTokenExpiry:  time.Duration(jsonCfg.Auth.AccessTokenExpiry),
			RefreshTokenSecret: jsonCfg.Auth.RefreshTokenSecret,
			RefreshTokenExpiry: time.Duration(jsonCfg.Auth.RefreshTokenExpiry),
			TokenIssuer:        jsonCfg.Auth.TokenIssuer,
		},
		App: App{
			BcryptCost: jsonCfg.App.BcryptCost,
			Version:    jsonCfg.App.Version,
			LogLevel:   jsonCfg.App.LogLevel,
		},
		Storage: Storage{
			DB: DB{
				DSN:  jsonCfg.Storage.DB.DSN,
				Name: jsonCfg.Storage.DB.Name,
			},
			Cache: Cache{
				RedisAddress:  jsonCfg.Storage.Cache.RedisAddress,
				RedisPassword: jsonCfg.Storage.Cache.RedisPassword,
				RedisDB:       jsonCfg.Storage.Cache.RedisDB,
				TTL:           time.Duration(jsonCfg.Storage.Cache.TTL),
			},
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			GRPCAddress:     jsonCfg.Server.GRPCAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
			CookieInsecure:  jsonCfg.Server.CookieInsecure,
			MaxUploadBytes:  jsonCfg.Server.MaxUploadBytes,
			TrustedProxies:  jsonCfg.Server.TrustedProxies,
			RateLimit: RateLimit{
				Requests: jsonCfg.Server.RateLimit.Requests,
				Window:   time.Duration(jsonCfg.Server.RateLimit.Window),
				Burst:    jsonCfg.Server.RateLimit.Burst,
			},
		},
		Media: Media{
			TempDir:       jsonCfg.Media.TempDir,
			LocalDir:      jsonCfg.Media.LocalDir,
			PublicBaseURL: jsonCfg.Media.PublicBaseURL,
			S3: S3{
				Bucket:   jsonCfg.Media.S3.Bucket,
				Region:   jsonCfg.Media.S3.Region,
				Endpoint: jsonCfg.Media.S3.Endpoint,
			},
		},
		Workers: Workers{
			TempSweepInterval: time.Duration(jsonCfg.Workers.TempSweepInterval),
			TempMaxAge:        time.Duration(jsonCfg.Workers.TempMaxAge),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
