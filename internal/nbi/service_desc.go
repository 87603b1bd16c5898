package nbi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ImpactServiceName is the fully-qualified gRPC service name.
const ImpactServiceName = "impact.v1.ImpactService"

const (
	SimulateFullMethod      = "/" + ImpactServiceName + "/Simulate"
	SampleAtFullMethod      = "/" + ImpactServiceName + "/SampleAt"
	GetSessionFullMethod    = "/" + ImpactServiceName + "/GetSession"
	DeleteSessionFullMethod = "/" + ImpactServiceName + "/DeleteSession"
	ListPresetsFullMethod   = "/" + ImpactServiceName + "/ListPresets"
	GetPresetFullMethod     = "/" + ImpactServiceName + "/GetPreset"
	ListMaterialsFullMethod = "/" + ImpactServiceName + "/ListMaterials"
	ComputeEnergyFullMethod = "/" + ImpactServiceName + "/ComputeEnergy"
)

// ImpactServiceServer is the server API of ImpactService. Every message is
// a google.protobuf.Struct whose shape is described in package types.
type ImpactServiceServer interface {
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SampleAt(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPresets(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPreset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMaterials(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComputeEnergy(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterImpactServiceServer registers srv on s.
func RegisterImpactServiceServer(s grpc.ServiceRegistrar, srv ImpactServiceServer) {
	s.RegisterService(&ImpactServiceDesc, srv)
}

type structCall func(ImpactServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts a typed server method to grpc.MethodHandler.
func unaryHandler(fullMethod string, call structCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ImpactServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ImpactServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ImpactServiceDesc is the grpc.ServiceDesc for ImpactService.
var ImpactServiceDesc = grpc.ServiceDesc{
	ServiceName: ImpactServiceName,
	HandlerType: (*ImpactServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Simulate", Handler: unaryHandler(SimulateFullMethod, ImpactServiceServer.Simulate)},
		{MethodName: "SampleAt", Handler: unaryHandler(SampleAtFullMethod, ImpactServiceServer.SampleAt)},
		{MethodName: "GetSession", Handler: unaryHandler(GetSessionFullMethod, ImpactServiceServer.GetSession)},
		{MethodName: "DeleteSession", Handler: unaryHandler(DeleteSessionFullMethod, ImpactServiceServer.DeleteSession)},
		{MethodName: "ListPresets", Handler: unaryHandler(ListPresetsFullMethod, ImpactServiceServer.ListPresets)},
		{MethodName: "GetPreset", Handler: unaryHandler(GetPresetFullMethod, ImpactServiceServer.GetPreset)},
		{MethodName: "ListMaterials", Handler: unaryHandler(ListMaterialsFullMethod, ImpactServiceServer.ListMaterials)},
		{MethodName: "ComputeEnergy", Handler: unaryHandler(ComputeEnergyFullMethod, ImpactServiceServer.ComputeEnergy)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "",
}
