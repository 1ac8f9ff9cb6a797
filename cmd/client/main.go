package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/adapter"
	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const usage = `usage: client [flags] <command> [args]

commands:
  health                      print the server healthcheck
  login <username> <password> print the session with a fresh token pair
  refresh                     exchange -refresh-token for a new pair
  current                     print the user behind -access-token
  history                     print the watch history of -access-token
  channel <username>          print a channel profile
  version                     print build info

flags:
`

var errUsage = errors.New("invalid usage")

func main() {
	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	address := fs.String("a", envOr("VIDTUBE_ADDRESS", "localhost:8080"), "server address")
	timeout := fs.Duration("timeout", 15*time.Second, "request timeout")
	accessToken := fs.String("access-token", os.Getenv("VIDTUBE_ACCESS_TOKEN"), "access token for protected commands")
	refreshToken := fs.String("refresh-token", os.Getenv("VIDTUBE_REFRESH_TOKEN"), "refresh token for the refresh command")
	logLevel := fs.String("log-level", "warn", "log level")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	log := logger.NewLogger("vidtube-client", *logLevel)

	client, err := adapter.NewHTTPClient(adapter.Config{Address: *address, Timeout: *timeout}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create api client")
	}
	client.SetTokens(models.TokenPair{AccessToken: *accessToken, RefreshToken: *refreshToken})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := run(ctx, client, fs.Args())
	if errors.Is(err, errUsage) {
		fs.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err = enc.Encode(result); err != nil {
		log.Fatal().Err(err).Msg("encode result")
	}
}

func run(ctx context.Context, client adapter.APIClient, args []string) (any, error) {
	if len(args) == 0 {
		return nil, errUsage
	}

	switch cmd, rest := args[0], args[1:]; {
	case cmd == "health" && len(rest) == 0:
		return client.Health(ctx)
	case cmd == "login" && len(rest) == 2:
		return client.Login(ctx, models.LoginRequest{Username: rest[0], Password: rest[1]})
	case cmd == "refresh" && len(rest) == 0:
		return client.Refresh(ctx)
	case cmd == "current" && len(rest) == 0:
		return client.CurrentUser(ctx)
	case cmd == "history" && len(rest) == 0:
		return client.WatchHistory(ctx)
	case cmd == "channel" && len(rest) == 1:
		return client.ChannelProfile(ctx, rest[0])
	case cmd == "version" && len(rest) == 0:
		return map[string]string{
			"buildVersion": orNA(buildVersion),
			"buildDate":    orNA(buildDate),
			"buildCommit":  orNA(buildCommit),
		}, nil
	default:
		return nil, errUsage
	}
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
