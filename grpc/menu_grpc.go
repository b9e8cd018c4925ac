package pb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	MenuService_AnalyzeMenu_FullMethodName     = "/cardapio.MenuService/AnalyzeMenu"
	MenuService_ExtractTemplate_FullMethodName = "/cardapio.MenuService/ExtractTemplate"
	MenuService_RenderMenu_FullMethodName      = "/cardapio.MenuService/RenderMenu"
	MenuService_GetResult_FullMethodName       = "/cardapio.MenuService/GetResult"
	MenuService_GetVersion_FullMethodName      = "/cardapio.MenuService/GetVersion"
)

type MenuServiceClient interface {
	AnalyzeMenu(ctx context.Context, in *AnalyzeMenuRequest, opts ...grpc.CallOption) (*AnalyzeMenuResponse, error)
	ExtractTemplate(ctx context.Context, in *ExtractTemplateRequest, opts ...grpc.CallOption) (*ExtractTemplateResponse, error)
	RenderMenu(ctx context.Context, in *RenderMenuRequest, opts ...grpc.CallOption) (*RenderMenuResponse, error)
	GetResult(ctx context.Context, in *GetResultRequest, opts ...grpc.CallOption) (*GetResultResponse, error)
	GetVersion(ctx context.Context, in *GetVersionRequest, opts ...grpc.CallOption) (*GetVersionResponse, error)
}

type menuServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewMenuServiceClient expects a connection dialed with
// grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec)).
func NewMenuServiceClient(cc grpc.ClientConnInterface) MenuServiceClient {
	return &menuServiceClient{cc}
}

func (c *menuServiceClient) AnalyzeMenu(ctx context.Context, in *AnalyzeMenuRequest, opts ...grpc.CallOption) (*AnalyzeMenuResponse, error) {
	out := new(AnalyzeMenuResponse)
	if err := c.cc.Invoke(ctx, MenuService_AnalyzeMenu_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *menuServiceClient) ExtractTemplate(ctx context.Context, in *ExtractTemplateRequest, opts ...grpc.CallOption) (*ExtractTemplateResponse, error) {
	out := new(ExtractTemplateResponse)
	if err := c.cc.Invoke(ctx, MenuService_ExtractTemplate_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *menuServiceClient) RenderMenu(ctx context.Context, in *RenderMenuRequest, opts ...grpc.CallOption) (*RenderMenuResponse, error) {
	out := new(RenderMenuResponse)
	if err := c.cc.Invoke(ctx, MenuService_RenderMenu_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *menuServiceClient) GetResult(ctx context.Context, in *GetResultRequest, opts ...grpc.CallOption) (*GetResultResponse, error) {
	out := new(GetResultResponse)
	if err := c.cc.Invoke(ctx, MenuService_GetResult_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *menuServiceClient) GetVersion(ctx context.Context, in *GetVersionRequest, opts ...grpc.CallOption) (*GetVersionResponse, error) {
	out := new(GetVersionResponse)
	if err := c.cc.Invoke(ctx, MenuService_GetVersion_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// MenuServiceServer is the server API for MenuService.
// Implementations must embed UnimplementedMenuServiceServer.
type MenuServiceServer interface {
	AnalyzeMenu(context.Context, *AnalyzeMenuRequest) (*AnalyzeMenuResponse, error)
	ExtractTemplate(context.Context, *ExtractTemplateRequest) (*ExtractTemplateResponse, error)
	RenderMenu(context.Context, *RenderMenuRequest) (*RenderMenuResponse, error)
	GetResult(context.Context, *GetResultRequest) (*GetResultResponse, error)
	GetVersion(context.Context, *GetVersionRequest) (*GetVersionResponse, error)
	mustEmbedUnimplementedMenuServiceServer()
}

type UnimplementedMenuServiceServer struct{}

func (UnimplementedMenuServiceServer) AnalyzeMenu(context.Context, *AnalyzeMenuRequest) (*AnalyzeMenuResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AnalyzeMenu not implemented")
}
func (UnimplementedMenuServiceServer) ExtractTemplate(context.Context, *ExtractTemplateRequest) (*ExtractTemplateResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ExtractTemplate not implemented")
}
func (UnimplementedMenuServiceServer) RenderMenu(context.Context, *RenderMenuRequest) (*RenderMenuResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RenderMenu not implemented")
}
func (UnimplementedMenuServiceServer) GetResult(context.Context, *GetResultRequest) (*GetResultResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetResult not implemented")
}
func (UnimplementedMenuServiceServer) GetVersion(context.Context, *GetVersionRequest) (*GetVersionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetVersion not implemented")
}
func (UnimplementedMenuServiceServer) mustEmbedUnimplementedMenuServiceServer() {}

func RegisterMenuServiceServer(s grpc.ServiceRegistrar, srv MenuServiceServer) {
	s.RegisterService(&MenuService_ServiceDesc, srv)
}

func _MenuService_AnalyzeMenu_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AnalyzeMenuRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MenuServiceServer).AnalyzeMenu(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MenuService_AnalyzeMenu_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MenuServiceServer).AnalyzeMenu(ctx, req.(*AnalyzeMenuRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MenuService_ExtractTemplate_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ExtractTemplateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MenuServiceServer).ExtractTemplate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MenuService_ExtractTemplate_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MenuServiceServer).ExtractTemplate(ctx, req.(*ExtractTemplateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MenuService_RenderMenu_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RenderMenuRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MenuServiceServer).RenderMenu(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MenuService_RenderMenu_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MenuServiceServer).RenderMenu(ctx, req.(*RenderMenuRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MenuService_GetResult_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetResultRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MenuServiceServer).GetResult(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MenuService_GetResult_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MenuServiceServer).GetResult(ctx, req.(*GetResultRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _MenuService_GetVersion_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetVersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MenuServiceServer).GetVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MenuService_GetVersion_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MenuServiceServer).GetVersion(ctx, req.(*GetVersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var MenuService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "cardapio.MenuService",
	HandlerType: (*MenuServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "AnalyzeMenu", Handler: _MenuService_AnalyzeMenu_Handler},
		{MethodName: "ExtractTemplate", Handler: _MenuService_ExtractTemplate_Handler},
		{MethodName: "RenderMenu", Handler: _MenuService_RenderMenu_Handler},
		{MethodName: "GetResult", Handler: _MenuService_GetResult_Handler},
		{MethodName: "GetVersion", Handler: _MenuService_GetVersion_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "grpc/menu.go",
}
