package nbi

import (
	"context"
	"time"

	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const requestIDMetadataKey = "x-request-id"

// RequestIDUnaryServerInterceptor puts a request id and a request-scoped
// logger on the context. The id is taken from inbound metadata when the
// caller sent one and is echoed back as a response header.
func RequestIDUnaryServerInterceptor(base logging.Logger) grpc.UnaryServerInterceptor {
	if base == nil {
		base = logging.Noop()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if incoming := firstHeader(md, requestIDMetadataKey); incoming != "" {
				ctx = logging.ContextWithRequestID(ctx, incoming)
			}
		}

		ctx, reqLog := logging.WithRequestLogger(ctx, base.With(logging.String("method", info.FullMethod)))
		ctx = logging.ContextWithLogger(ctx, reqLog)
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDMetadataKey, logging.RequestIDFromContext(ctx)))

		start := time.Now()
		resp, err := handler(ctx, req)
		reqLog.Debug(ctx, "rpc finished",
			logging.String("code", status.Code(err).String()),
			logging.Duration("elapsed", time.Since(start)),
		)
		return resp, err
	}
}

func firstHeader(md metadata.MD, key string) string {
	if md == nil {
		return ""
	}
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// loggerFrom returns the request logger installed by the interceptor, or
// fallback when the handler is called directly.
func loggerFrom(ctx context.Context, fallback logging.Logger) logging.Logger {
	if l := logging.LoggerFromContext(ctx); l != nil {
		return l
	}
	if fallback == nil {
		return logging.Noop()
	}
	return fallback
}
