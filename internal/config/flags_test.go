package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNetAddress_String tests the String method of NetAddress
func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{
			name:     "empty address",
			addr:     NetAddress{},
			expected: "",
		},
		{
			name:     "localhost with port",
			addr:     NetAddress{Host: "localhost", Port: 8000},
			expected: "localhost:8000",
		},
		{
			name:     "only port no host",
			addr:     NetAddress{Host: "", Port: 8000},
			expected: ":8000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

// TestNetAddress_Set tests the Set method of NetAddress
func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectError  bool
		expectedHost string
		expectedPort int
	}{
		{name: "localhost", input: "localhost:8000", expectedHost: "localhost", expectedPort: 8000},
		{name: "ipv4", input: "127.0.0.1:9090", expectedHost: "127.0.0.1", expectedPort: 9090},
		{name: "any host", input: ":8000", expectedHost: "", expectedPort: 8000},
		{name: "missing port", input: "localhost", expectError: true},
		{name: "non numeric port", input: "localhost:http", expectError: true},
		{name: "zero port", input: "localhost:0", expectError: true},
		{name: "port out of range", input: "localhost:70000", expectError: true},
		{name: "bad host", input: "not-an-ip:8000", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var addr NetAddress
			err := addr.Set(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedHost, addr.Host)
			assert.Equal(t, tt.expectedPort, addr.Port)
		})
	}
}

func TestParseFlags(t *testing.T) {
	args := []string{
		"-a", "localhost:8000",
		"-grpc-address", "localhost:9090",
		"-d", "postgres://localhost/vidtube",
		"-c", "/etc/vidtube.json",
		"-access-token-secret", "access",
		"-access-token-expiry", "15m",
		"-refresh-token-secret", "refresh",
		"-refresh-token-expiry", "240h",
		"-request-timeout", "10s",
		"-media-dir", "/srv/media",
		"-temp-dir", "/srv/tmp",
		"-redis", "localhost:6379",
	}

	cfg, err := ParseFlags(args)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8000", cfg.Server.HTTPAddress)
	assert.Equal(t, "localhost:9090", cfg.Server.GRPCAddress)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "postgres://localhost/vidtube", cfg.Storage.DB.DSN)
	assert.Equal(t, "localhost:6379", cfg.Storage.Cache.RedisAddress)
	assert.Equal(t, "/etc/vidtube.json", cfg.JSONFilePath)
	assert.Equal(t, "access", cfg.Auth.AccessTokenSecret)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenExpiry)
	assert.Equal(t, "refresh", cfg.Auth.RefreshTokenSecret)
	assert.Equal(t, 240*time.Hour, cfg.Auth.RefreshTokenExpiry)
	assert.Equal(t, "/srv/media", cfg.Media.LocalDir)
	assert.Equal(t, "/srv/tmp", cfg.Media.TempDir)
}

func TestParseFlags_ConfigAlias(t *testing.T) {
	cfg, err := ParseFlags([]string{"-config", "/etc/alias.json"})
	require.NoError(t, err)
	assert.Equal(t, "/etc/alias.json", cfg.JSONFilePath)
}

func TestParseFlags_NoArgs(t *testing.T) {
	cfg, err := ParseFlags(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.HTTPAddress)
	assert.Empty(t, cfg.Storage.DB.DSN)
}

func TestParseFlags_InvalidAddress(t *testing.T) {
	_, err := ParseFlags([]string{"-a", "no-port"})
	assert.Error(t, err)
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	_, err := ParseFlags([]string{"-unknown"})
	assert.Error(t, err)
}
