package handler

import (
	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/MKhiriev/go-vidtube/internal/handler/grpc"
	"github.com/MKhiriev/go-vidtube/internal/handler/http"
	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/media"
	"github.com/MKhiriev/go-vidtube/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

func NewHandlers(services *service.Services, tempFiles *media.TempFiles, cfg *config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, tempFiles, cfg, logger)
	}
	if cfg.Server.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
