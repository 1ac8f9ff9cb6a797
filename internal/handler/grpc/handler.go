package grpc

import (
	"context"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name health clients use to ask about the user API.
// The empty name reports the server as a whole; both follow the store.
const ServiceName = "vidtube.users"

// Handler is the root gRPC transport handler.
//
// It exposes the standard grpc.health.v1 service whose status mirrors
// [service.HealthService]: SERVING while the store answers, NOT_SERVING
// otherwise.
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	health *health.Server

	// logger is used for request-scoped and diagnostic log output.
	logger *logger.Logger
}

// NewHandler constructs a [Handler] with the provided service container and
// logger. The health status starts as NOT_SERVING until the first check.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	h := &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}
	h.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)

	logger.Debug().Msg("gRPC handler created")
	return h
}

// Register installs the health and reflection services on s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
	reflection.Register(s)
}

// ServerOptions returns the interceptors every gRPC server of this handler
// should be built with.
func (h *Handler) ServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(h.loggingInterceptor),
	}
}

// CheckHealth runs one health check and publishes the result.
func (h *Handler) CheckHealth(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if _, err := h.services.HealthService.Check(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("health check failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	h.setStatus(status)
	return status
}

// WatchHealth checks immediately and then every interval until ctx ends.
func (h *Handler) WatchHealth(ctx context.Context, interval time.Duration) {
	h.CheckHealth(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.CheckHealth(ctx)
		}
	}
}

// Shutdown marks every service NOT_SERVING and ignores later updates.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}

func (h *Handler) setStatus(status healthpb.HealthCheckResponse_ServingStatus) {
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
}
