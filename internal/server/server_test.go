package server

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/go-vidtube/internal/config"
	"github.com/MKhiriev/go-vidtube/internal/handler"
	"github.com/MKhiriev/go-vidtube/internal/logger"
	"github.com/MKhiriev/go-vidtube/internal/media"
	"github.com/MKhiriev/go-vidtube/internal/service"
	"github.com/MKhiriev/go-vidtube/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type okHealth struct{}

func (okHealth) Check(context.Context) (models.HealthStatus, error) {
	return models.HealthStatus{Status: "ok"}, nil
}

func testHandlers(t *testing.T, cfg config.Server) *handler.Handlers {
	t.Helper()

	tempFiles, err := media.NewTempFiles(t.TempDir())
	require.NoError(t, err)

	full := &config.StructuredConfig{
		Server: cfg,
		Media:  config.Media{LocalDir: t.TempDir()},
	}
	h, err := handler.NewHandlers(&service.Services{HealthService: okHealth{}}, tempFiles, full, logger.Nop())
	require.NoError(t, err)
	return h
}

// ---- NewServer ----

func TestNewServer_NoAddresses(t *testing.T) {
	s, err := NewServer(&handler.Handlers{}, config.Server{}, logger.Nop())

	require.ErrorIs(t, err, errNoServersAreCreated)
	assert.Nil(t, s)
}

func TestNewServer_Transports(t *testing.T) {
	cfg := config.Server{HTTPAddress: "127.0.0.1:0", GRPCAddress: "127.0.0.1:0"}

	s, err := NewServer(testHandlers(t, cfg), cfg, logger.Nop())
	require.NoError(t, err)

	srv := s.(*server)
	require.Len(t, srv.transports, 2)
	assert.Equal(t, "http", srv.transports[0].name())
	assert.Equal(t, "grpc", srv.transports[1].name())
	assert.Equal(t, defaultShutdownTimeout, srv.shutdownTimeout)
}

func TestNewServer_ShutdownTimeoutFromConfig(t *testing.T) {
	cfg := config.Server{HTTPAddress: "127.0.0.1:0", ShutdownTimeout: 3 * time.Second}

	s, err := NewServer(testHandlers(t, cfg), cfg, logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, s.(*server).shutdownTimeout)
}

// ---- Transports ----

func TestHTTPServer_ServeAndShutdown(t *testing.T) {
	cfg := config.Server{HTTPAddress: "127.0.0.1:0"}
	hs := newHTTPServer(testHandlers(t, cfg).HTTP.Init(), cfg, logger.Nop())

	require.NoError(t, hs.listen())
	served := make(chan error, 1)
	go func() { served <- hs.serve() }()

	resp, err := http.Get(fmt.Sprintf("http://%s/api/v1/healthcheck", hs.listener.Addr()))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, hs.shutdown(ctx))
	require.NoError(t, <-served)
}

func TestGRPCServer_HealthAndShutdown(t *testing.T) {
	cfg := config.Server{GRPCAddress: "127.0.0.1:0"}
	gs := newGRPCServer(testHandlers(t, cfg).GRPC, cfg, logger.Nop())

	require.NoError(t, gs.listen())
	served := make(chan error, 1)
	go func() { served <- gs.serve() }()

	conn, err := grpc.NewClient(gs.gRPCNetListener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	client := healthpb.NewHealthClient(conn)

	assert.Eventually(t, func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, 3*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, gs.shutdown(ctx))
	require.NoError(t, <-served)
}

// ---- Run ----

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := config.Server{HTTPAddress: "127.0.0.1:0", GRPCAddress: "127.0.0.1:0", ShutdownTimeout: time.Second}
	s, err := NewServer(testHandlers(t, cfg), cfg, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_ListenFailure(t *testing.T) {
	cfg := config.Server{HTTPAddress: "127.0.0.1:0", GRPCAddress: "256.0.0.1:1"}
	s, err := NewServer(testHandlers(t, cfg), cfg, logger.Nop())
	require.NoError(t, err)

	err = s.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen grpc")
}
