package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// traceIDKey is the metadata key carrying a caller-supplied trace id.
const traceIDKey = "x-trace-id"

// loggingInterceptor attaches a trace-scoped logger to the call context and
// logs method, status code and duration once the call returns.
func (h *Handler) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	traceID := uuid.NewString()
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(traceIDKey); len(values) > 0 && values[0] != "" {
			traceID = values[0]
		}
	}

	log := h.logger.WithTraceID(traceID)
	ctx = log.WithContext(ctx)

	start := time.Now()
	resp, err := handler(ctx, req)

	log.Info().
		Str("method", info.FullMethod).
		Str("code", status.Code(err).String()).
		Dur("duration", time.Since(start)).
		Send()

	return resp, err
}
