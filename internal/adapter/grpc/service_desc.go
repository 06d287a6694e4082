package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages are google.protobuf.Struct, so the service is described by hand
// instead of being generated from a .proto file.
const (
	ComparisonServiceName = "vehiclecompare.v1.ComparisonService"

	ComparisonService_Compare_FullMethodName          = "/vehiclecompare.v1.ComparisonService/Compare"
	ComparisonService_Simulate_FullMethodName         = "/vehiclecompare.v1.ComparisonService/Simulate"
	ComparisonService_TaxOwed_FullMethodName          = "/vehiclecompare.v1.ComparisonService/TaxOwed"
	ComparisonService_ListTaxSchedules_FullMethodName = "/vehiclecompare.v1.ComparisonService/ListTaxSchedules"
)

// ComparisonServiceServer is the server API for ComparisonService
type ComparisonServiceServer interface {
	Compare(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TaxOwed(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTaxSchedules(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedComparisonServiceServer can be embedded to have forward compatible implementations
type UnimplementedComparisonServiceServer struct{}

func (UnimplementedComparisonServiceServer) Compare(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Compare not implemented")
}
func (UnimplementedComparisonServiceServer) Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Simulate not implemented")
}
func (UnimplementedComparisonServiceServer) TaxOwed(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method TaxOwed not implemented")
}
func (UnimplementedComparisonServiceServer) ListTaxSchedules(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTaxSchedules not implemented")
}

// RegisterComparisonServiceServer registers srv on s
func RegisterComparisonServiceServer(s grpc.ServiceRegistrar, srv ComparisonServiceServer) {
	s.RegisterService(&ComparisonService_ServiceDesc, srv)
}

// unaryHandler adapts one ComparisonServiceServer method to a grpc.MethodDesc handler
func unaryHandler(fullMethod string, call func(ComparisonServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ComparisonServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ComparisonServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ComparisonService_ServiceDesc is the grpc.ServiceDesc for ComparisonService
var ComparisonService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ComparisonServiceName,
	HandlerType: (*ComparisonServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Compare",
			Handler:    unaryHandler(ComparisonService_Compare_FullMethodName, ComparisonServiceServer.Compare),
		},
		{
			MethodName: "Simulate",
			Handler:    unaryHandler(ComparisonService_Simulate_FullMethodName, ComparisonServiceServer.Simulate),
		},
		{
			MethodName: "TaxOwed",
			Handler:    unaryHandler(ComparisonService_TaxOwed_FullMethodName, ComparisonServiceServer.TaxOwed),
		},
		{
			MethodName: "ListTaxSchedules",
			Handler:    unaryHandler(ComparisonService_ListTaxSchedules_FullMethodName, ComparisonServiceServer.ListTaxSchedules),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vehiclecompare/v1/comparison.proto",
}

// ComparisonServiceClient is the client API for ComparisonService
type ComparisonServiceClient interface {
	Compare(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Simulate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	TaxOwed(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListTaxSchedules(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type comparisonServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewComparisonServiceClient creates a client over cc
func NewComparisonServiceClient(cc grpc.ClientConnInterface) ComparisonServiceClient {
	return &comparisonServiceClient{cc}
}

func (c *comparisonServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *comparisonServiceClient) Compare(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ComparisonService_Compare_FullMethodName, in, opts...)
}

func (c *comparisonServiceClient) Simulate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ComparisonService_Simulate_FullMethodName, in, opts...)
}

func (c *comparisonServiceClient) TaxOwed(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ComparisonService_TaxOwed_FullMethodName, in, opts...)
}

func (c *comparisonServiceClient) ListTaxSchedules(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ComparisonService_ListTaxSchedules_FullMethodName, in, opts...)
}
