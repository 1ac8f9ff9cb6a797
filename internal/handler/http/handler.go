package http

import (
	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/media"
	"github.com/MKhiriev/go-vidtube/internal/service"
	"github.com/MKhiriev/go-vidtube/internal/utils"
)

type Handler struct {
	services  *service.Services
	tempFiles *media.TempFiles

	server  config.Server
	authCfg config.Auth

	// staticDir is the local media directory served under /static.
	// Empty when media lives in an S3 bucket.
	staticDir string

	proxies utils.TrustedProxies
	limiter *ipRateLimiter
	metrics *httpMetrics

	logger *logger.Logger
}

func NewHandler(services *service.Services, tempFiles *media.TempFiles, cfg *config.StructuredConfig, logger *logger.Logger) *Handler {
	var staticDir string
	if cfg.Media.S3.Bucket == "" {
		staticDir = cfg.Media.LocalDir
	}

	proxies, err := utils.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		logger.Warn().Err(err).Msg("trusted proxies ignored, clients are keyed by connection address")
	}

	logger.Info().Msg("http handler created")
	return &Handler{
		services:  services,
		tempFiles: tempFiles,
		server:    cfg.Server,
		authCfg:   cfg.Auth,
		staticDir: staticDir,
		proxies:   proxies,
		limiter:   newIPRateLimiter(cfg.Server.RateLimit),
		metrics:   newHTTPMetrics(),
		logger:    logger,
	}
}
