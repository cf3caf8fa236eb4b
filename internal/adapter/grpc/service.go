package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "wealthlog.v1.JournalService"

// JournalServiceServer is the server API for the journal service.
// Every message is a google.protobuf.Struct.
type JournalServiceServer interface {
	SaveSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteSnapshot(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveAdjustment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteAdjustment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetTarget(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPeriodStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CompareRanges(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTargetProgress(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListHistory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetOverview(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(JournalServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(JournalServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + name,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(JournalServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// JournalServiceDesc describes the journal service for grpc.Server.RegisterService
var JournalServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*JournalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc("SaveSnapshot", JournalServiceServer.SaveSnapshot),
		methodDesc("DeleteSnapshot", JournalServiceServer.DeleteSnapshot),
		methodDesc("SaveAdjustment", JournalServiceServer.SaveAdjustment),
		methodDesc("DeleteAdjustment", JournalServiceServer.DeleteAdjustment),
		methodDesc("SetTarget", JournalServiceServer.SetTarget),
		methodDesc("GetPeriodStats", JournalServiceServer.GetPeriodStats),
		methodDesc("CompareRanges", JournalServiceServer.CompareRanges),
		methodDesc("ListTargetProgress", JournalServiceServer.ListTargetProgress),
		methodDesc("ListHistory", JournalServiceServer.ListHistory),
		methodDesc("GetOverview", JournalServiceServer.GetOverview),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wealthlog/v1/journal.proto",
}

// RegisterJournalServiceServer registers srv on s
func RegisterJournalServiceServer(s grpc.ServiceRegistrar, srv JournalServiceServer) {
	s.RegisterService(&JournalServiceDesc, srv)
}

// JournalServiceClient calls the journal service over a client connection
type JournalServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewJournalServiceClient creates a client on cc
func NewJournalServiceClient(cc grpc.ClientConnInterface) *JournalServiceClient {
	return &JournalServiceClient{cc: cc}
}

func (c *JournalServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *JournalServiceClient) SaveSnapshot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SaveSnapshot", in, opts...)
}

func (c *JournalServiceClient) DeleteSnapshot(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "DeleteSnapshot", in, opts...)
}

func (c *JournalServiceClient) SaveAdjustment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SaveAdjustment", in, opts...)
}

func (c *JournalServiceClient) DeleteAdjustment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "DeleteAdjustment", in, opts...)
}

func (c *JournalServiceClient) SetTarget(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "SetTarget", in, opts...)
}

func (c *JournalServiceClient) GetPeriodStats(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetPeriodStats", in, opts...)
}

func (c *JournalServiceClient) CompareRanges(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "CompareRanges", in, opts...)
}

func (c *JournalServiceClient) ListTargetProgress(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListTargetProgress", in, opts...)
}

func (c *JournalServiceClient) ListHistory(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListHistory", in, opts...)
}

func (c *JournalServiceClient) GetOverview(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetOverview", in, opts...)
}
