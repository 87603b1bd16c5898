package nbi

import (
	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/internal/observability"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
)

// NewGRPCServer returns a gRPC server with the standard stats handler and
// interceptor chain: request id, RPC metrics, then span enrichment. rpc may
// be nil. Extra options are appended.
func NewGRPCServer(log logging.Logger, rpc *observability.RPCCollector, opts ...grpc.ServerOption) *grpc.Server {
	base := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			RequestIDUnaryServerInterceptor(log),
			rpc.UnaryServerInterceptor(),
			TracingUnaryServerInterceptor(),
		),
	}
	return grpc.NewServer(append(base, opts...)...)
}

// DialOptions are the client options matching NewGRPCServer's tracing.
func DialOptions() []grpc.DialOption {
	return []grpc.DialOption{
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}
