package server

import (
	"context"
	"errors"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/MKhiriev/go-vidtube/internal/handler"
	"github.com/MKhiriev/go-vidtube/internal/logger"
	"golang.org/x/sync/errgroup"
)

// defaultShutdownTimeout applies when the configuration leaves it unset.
const defaultShutdownTimeout = 10 * time.Second

type server struct {
	transports      []transport
	shutdownTimeout time.Duration
	logger          *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	servers := &server{
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
	if servers.shutdownTimeout <= 0 {
		servers.shutdownTimeout = defaultShutdownTimeout
	}

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		servers.transports = append(servers.transports, newHTTPServer(handlers.HTTP.Init(), cfg, logger))
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		servers.transports = append(servers.transports, newGRPCServer(handlers.GRPC, cfg, logger))
	}

	if len(servers.transports) == 0 {
		return nil, errNoServersAreCreated
	}

	return servers, nil
}

// Run binds every transport before serving any, so a bad address fails
// startup instead of leaving a half-started process.
func (s *server) Run(ctx context.Context) error {
	for i, t := range s.transports {
		if err := t.listen(); err != nil {
			for _, bound := range s.transports[:i] {
				bound.abort()
			}
			return err
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, t := range s.transports {
		s.logger.Info().Str("transport", t.name()).Msg("launching server")
		group.Go(t.serve)
	}

	// a failed transport cancels groupCtx, so the others are stopped too
	group.Go(func() error {
		<-groupCtx.Done()
		s.shutdownAll(s.transports)
		return nil
	})

	err := group.Wait()
	if err != nil {
		s.logger.Error().Err(err).Msg("server stopped with error")
		return err
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}

func (s *server) shutdownAll(transports []transport) {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	var errs []error
	for _, t := range transports {
		errs = append(errs, t.shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		s.logger.Error().Err(err).Msg("graceful shutdown incomplete")
	}
}
