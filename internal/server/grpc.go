package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/config"
	myGRPC "github.com/MKhiriev/go-vidtube/internal/handler/grpc"
	"github.com/MKhiriev/go-vidtube/internal/logger"

	"google.golang.org/grpc"
)

// healthCheckInterval is how often the gRPC health status is refreshed
// from the store.
const healthCheckInterval = 15 * time.Second

type grpcServer struct {
	handler *myGRPC.Handler

	server          *grpc.Server
	address         string
	gRPCNetListener net.Listener

	// watchCtx bounds the health watch loop; stopWatch ends it.
	watchCtx  context.Context
	stopWatch context.CancelFunc

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer(handler.ServerOptions()...)
	handler.Register(server)

	watchCtx, stopWatch := context.WithCancel(context.Background())
	return &grpcServer{
		handler:   handler,
		server:    server,
		address:   cfg.GRPCAddress,
		watchCtx:  watchCtx,
		stopWatch: stopWatch,
		logger:    logger,
	}
}

func (g *grpcServer) name() string { return "grpc" }

func (g *grpcServer) listen() error {
	lis, err := net.Listen("tcp", g.address)
	if err != nil {
		return fmt.Errorf("listen grpc on %s: %w", g.address, err)
	}
	g.gRPCNetListener = lis
	return nil
}

func (g *grpcServer) serve() error {
	go g.handler.WatchHealth(g.watchCtx, healthCheckInterval)

	g.logger.Info().Str("address", g.gRPCNetListener.Addr().String()).Msg("gRPC server is listening")
	if err := g.server.Serve(g.gRPCNetListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve grpc: %w", err)
	}
	return nil
}

// shutdown reports NOT_SERVING, then stops gracefully; in-flight calls that
// outlive ctx are cut off.
func (g *grpcServer) shutdown(ctx context.Context) error {
	g.logger.Info().Msg("GRPC server Shutdown")
	g.stopWatch()
	g.handler.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		g.server.Stop()
		return fmt.Errorf("shutdown grpc: %w", ctx.Err())
	}
}

func (g *grpcServer) abort() {
	g.stopWatch()
	if g.gRPCNetListener != nil {
		g.gRPCNetListener.Close()
	}
}
