package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc health server address in format [host]:[port]
//	-d database DSN (postgres:// or mongodb://)
//	-c/-config json file path with configs
//	-access-token-secret access token signing secret
//	-access-token-expiry access token lifetime (e.g. "24h")
//	-refresh-token-secret refresh token signing secret
//	-refresh-token-expiry refresh token lifetime (e.g. "240h")
//	-request-timeout request timeout (e.g. "30s")
//	-media-dir local media directory
//	-temp-dir temp upload directory
//	-redis redis address for the principal cache
func ParseFlags(args []string) (*StructuredConfig, error) {
	return parseFlags(args)
}

func parseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress, grpcServerAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var accessTokenSecret, refreshTokenSecret string
	var accessTokenExpiry, refreshTokenExpiry time.Duration
	var requestTimeout time.Duration
	var mediaDir, tempDir string
	var redisAddress string

	fs := flag.NewFlagSet("vidtube", flag.ContinueOnError)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc health server address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&accessTokenSecret, "access-token-secret", "", "Access token signing secret")
	fs.DurationVar(&accessTokenExpiry, "access-token-expiry", 0, "Access token lifetime (e.g., 24h)")
	fs.StringVar(&refreshTokenSecret, "refresh-token-secret", "", "Refresh token signing secret")
	fs.DurationVar(&refreshTokenExpiry, "refresh-token-expiry", 0, "Refresh token lifetime (e.g., 240h)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&mediaDir, "media-dir", "", "Local media directory")
	fs.StringVar(&tempDir, "temp-dir", "", "Temp upload directory")
	fs.StringVar(&redisAddress, "redis", "", "Redis address for the user cache")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		Auth: Auth{
			AccessTokenSecret:  accessTokenSecret,
			AccessTokenExpiry:  accessTokenExpiry,
			RefreshTokenSecret: refreshTokenSecret,
			RefreshTokenExpiry: refreshTokenExpiry,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Cache: Cache{
				RedisAddress: redisAddress,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Media: Media{
			TempDir:  tempDir,
			LocalDir: mediaDir,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost"
// or empty, and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
