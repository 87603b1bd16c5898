package nbi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/signalsfoundry/impact-simulator/internal/logging"
	"github.com/signalsfoundry/impact-simulator/internal/observability"
	"github.com/signalsfoundry/impact-simulator/model"
)

const tracerName = "github.com/signalsfoundry/impact-simulator/internal/nbi"

// TracingUnaryServerInterceptor renames the span opened by the otelgrpc
// stats handler to Impact/<service>/<method> and marks failed RPCs. Without
// a stats handler it opens and ends the span itself.
func TracingUnaryServerInterceptor() grpc.UnaryServerInterceptor {
	tracer := otel.Tracer(tracerName)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		service, method := observability.SplitMethod(info.FullMethod)
		name := "Impact/" + service + "/" + method

		span := trace.SpanFromContext(ctx)
		owned := !span.SpanContext().IsValid()
		if owned {
			ctx, span = tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()
		} else {
			span.SetName(name)
		}
		span.SetAttributes(rpcAttributes(ctx, info.FullMethod, service, method)...)

		resp, err := handler(ctx, req)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, status.Code(err).String())
		}
		return resp, err
	}
}

func rpcAttributes(ctx context.Context, fullMethod, service, method string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("rpc.system", "grpc"),
		attribute.String("rpc.service", service),
		attribute.String("rpc.method", method),
		attribute.String("rpc.full_method", strings.TrimPrefix(fullMethod, "/")),
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		attrs = append(attrs, attribute.String("request_id", id))
	}
	return attrs
}

// startLaunchSpan opens the span that wraps one simulation run and its
// session bookkeeping. presetID is empty for custom launches.
func startLaunchSpan(ctx context.Context, presetID string, p model.EntryParameters) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.Float64("impact.diameter_km", p.InitialDiameterKm),
		attribute.Float64("impact.velocity_km_s", p.EntryVelocityKmS),
		attribute.Float64("impact.angle_deg", p.EntryAngleDeg),
		attribute.String("impact.material", p.Material.ID),
		attribute.Bool("impact.calibrated", p.Override != nil),
	}
	if presetID != "" {
		attrs = append(attrs, attribute.String("impact.preset_id", presetID))
	}
	return otel.Tracer(tracerName).Start(ctx, "ImpactService.Launch", trace.WithAttributes(attrs...))
}

// failSpan records err on span and returns it unchanged.
func failSpan(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	return err
}
