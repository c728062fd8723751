package grpcjson

import (
	"context"

	"google.golang.org/grpc"
)

// Unary adapts a typed method to a grpc.MethodHandler for hand-written
// service descriptors. srv is the value registered with the server.
func Unary[Req, Resp any](fullMethod string, fn func(srv any, ctx context.Context, req *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return fn(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return fn(srv, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Invoke calls fullMethod on cc with the JSON codec.
func Invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, fullMethod string, req any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := cc.Invoke(ctx, fullMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
