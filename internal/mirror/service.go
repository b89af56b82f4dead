// Package mirror defines the gRPC contract between the journal client and the
// remote mirror: the MirrorService descriptor, a thin client stub and the wire
// form of an entry. Messages travel as google.protobuf.Struct so the service
// needs no generated code beyond what lives here.
package mirror

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "diarykeeper.mirror.v1.MirrorService"

const (
	MethodSaveEntry   = "/" + ServiceName + "/SaveEntry"
	MethodUpdateEntry = "/" + ServiceName + "/UpdateEntry"
	MethodDeleteEntry = "/" + ServiceName + "/DeleteEntry"
	MethodPing        = "/" + ServiceName + "/Ping"
)

// MirrorServer is implemented by the mirror's gRPC handler.
type MirrorServer interface {
	SaveEntry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateEntry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteEntry(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type call func(srv MirrorServer, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

func unary(fullMethod string, fn call) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return fn(srv.(MirrorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return fn(srv.(MirrorServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MirrorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SaveEntry", Handler: unary(MethodSaveEntry, MirrorServer.SaveEntry)},
		{MethodName: "UpdateEntry", Handler: unary(MethodUpdateEntry, MirrorServer.UpdateEntry)},
		{MethodName: "DeleteEntry", Handler: unary(MethodDeleteEntry, MirrorServer.DeleteEntry)},
		{MethodName: "Ping", Handler: unary(MethodPing, MirrorServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "diarykeeper/mirror/v1/mirror.proto",
}

func RegisterMirrorServer(s grpc.ServiceRegistrar, srv MirrorServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// MirrorClient is the client stub for MirrorService.
type MirrorClient interface {
	SaveEntry(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateEntry(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteEntry(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type mirrorClient struct {
	cc grpc.ClientConnInterface
}

func NewMirrorClient(cc grpc.ClientConnInterface) MirrorClient {
	return &mirrorClient{cc: cc}
}

func (c *mirrorClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *mirrorClient) SaveEntry(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodSaveEntry, in, opts)
}

func (c *mirrorClient) UpdateEntry(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodUpdateEntry, in, opts)
}

func (c *mirrorClient) DeleteEntry(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodDeleteEntry, in, opts)
}

func (c *mirrorClient) Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodPing, in, opts)
}
