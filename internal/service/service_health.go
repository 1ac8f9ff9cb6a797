package service

import (
	"context"

	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/store"
	"github.com/MKhiriev/go-vidtube/models"
)

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

type healthService struct {
	buildInfo models.AppBuildInfo
	pinger    store.Pinger

	logger *logger.Logger
}

// NewHealthService reports buildInfo. version overrides the build version
// when set; with neither, ErrVersionIsNotSpecified is returned.
func NewHealthService(version string, buildInfo models.AppBuildInfo, pinger store.Pinger, logger *logger.Logger) (HealthService, error) {
	buildInfo = buildInfo.WithVersion(version)
	if buildInfo.BuildVersion() == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &healthService{
		buildInfo: buildInfo,
		pinger:    pinger,
		logger:    logger,
	}, nil
}

// Check pings the store. The returned status is filled in both cases; the
// error is ErrServiceUnavailable when the ping fails.
func (s *healthService) Check(ctx context.Context) (models.HealthStatus, error) {
	status := s.buildInfo.Report(StatusOK)

	if s.pinger == nil {
		return status, nil
	}
	if err := s.pinger.Ping(ctx); err != nil {
		logger.FromContext(ctx).Err(err).Msg("store ping failed")
		status.Status = StatusUnavailable
		return status, ErrServiceUnavailable.Wrap(err)
	}

	return status, nil
}
