package api

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

/*
 * gRPC wiring without generated stubs.
 *
 * Messages are plain Go structs carried by a JSON codec registered under the
 * "json" content subtype (application/grpc+json). ServiceDesc is written out
 * by hand in the shape protoc-gen-go-grpc would produce, so the server gets
 * interceptors, status codes, and health checks like any generated service.
 */

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "tagkeeper.condition.v1.ConditionService"

// codecName is the content subtype clients must send.
const codecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec implements encoding.Codec with encoding/json.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return codecName
}

// ConditionAPIServer is the server side of the condition API.
type ConditionAPIServer interface {
	Parse(context.Context, *ParseRequest) (*ParseResponse, error)
	Render(context.Context, *RenderRequest) (*RenderResponse, error)
	Validate(context.Context, *ValidateRequest) (*ValidateResponse, error)
	Save(context.Context, *SaveRequest) (*SaveResponse, error)
	Get(context.Context, *GetRequest) (*GetResponse, error)
	List(context.Context, *ListRequest) (*ListResponse, error)
	Delete(context.Context, *DeleteRequest) (*DeleteResponse, error)
}

var _ ConditionAPIServer = (*ConditionService)(nil)

// ServiceDesc describes the condition API for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ConditionAPIServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Parse", Handler: unaryHandler("Parse", ConditionAPIServer.Parse)},
		{MethodName: "Render", Handler: unaryHandler("Render", ConditionAPIServer.Render)},
		{MethodName: "Validate", Handler: unaryHandler("Validate", ConditionAPIServer.Validate)},
		{MethodName: "Save", Handler: unaryHandler("Save", ConditionAPIServer.Save)},
		{MethodName: "Get", Handler: unaryHandler("Get", ConditionAPIServer.Get)},
		{MethodName: "List", Handler: unaryHandler("List", ConditionAPIServer.List)},
		{MethodName: "Delete", Handler: unaryHandler("Delete", ConditionAPIServer.Delete)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tagkeeper/condition/v1/condition.proto",
}

// RegisterConditionAPIServer registers srv on s.
func RegisterConditionAPIServer(s grpc.ServiceRegistrar, srv ConditionAPIServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unaryHandler adapts a typed service method to the grpc.MethodDesc handler signature.
func unaryHandler[Req, Resp any](method string, call func(ConditionAPIServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		svc := srv.(ConditionAPIServer)
		if interceptor == nil {
			return call(svc, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(svc, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Client calls the condition API over a gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client. The connection needs no codec options; every
// call selects the JSON content subtype itself.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, fullMethod(method), in, out, opts...)
}

func (c *Client) Parse(ctx context.Context, in *ParseRequest, opts ...grpc.CallOption) (*ParseResponse, error) {
	out := new(ParseResponse)
	if err := c.invoke(ctx, "Parse", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Render(ctx context.Context, in *RenderRequest, opts ...grpc.CallOption) (*RenderResponse, error) {
	out := new(RenderResponse)
	if err := c.invoke(ctx, "Render", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Validate(ctx context.Context, in *ValidateRequest, opts ...grpc.CallOption) (*ValidateResponse, error) {
	out := new(ValidateResponse)
	if err := c.invoke(ctx, "Validate", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Save(ctx context.Context, in *SaveRequest, opts ...grpc.CallOption) (*SaveResponse, error) {
	out := new(SaveResponse)
	if err := c.invoke(ctx, "Save", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*GetResponse, error) {
	out := new(GetResponse)
	if err := c.invoke(ctx, "Get", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) List(ctx context.Context, in *ListRequest, opts ...grpc.CallOption) (*ListResponse, error) {
	out := new(ListResponse)
	if err := c.invoke(ctx, "List", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Delete(ctx context.Context, in *DeleteRequest, opts ...grpc.CallOption) (*DeleteResponse, error) {
	out := new(DeleteResponse)
	if err := c.invoke(ctx, "Delete", in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
