// Package grpc exposes the pricing service over gRPC with the JSON codec.
package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/grpcjson"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/app"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/catalogpromotion"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
)

const ServiceName = "pricing.v1.PricingService"

const (
	methodProcessCatalog       = "/" + ServiceName + "/ProcessCatalog"
	methodGetChannelPricing    = "/" + ServiceName + "/GetChannelPricing"
	methodApplyOrderPromotions = "/" + ServiceName + "/ApplyOrderPromotions"
)

type ProcessCatalogRequest struct{}

type GetChannelPricingRequest struct {
	VariantCode string `json:"variant_code"`
	ChannelCode string `json:"channel_code"`
}

// PricingServiceServer is the server API of PricingService.
type PricingServiceServer interface {
	ProcessCatalog(context.Context, *ProcessCatalogRequest) (*catalogpromotion.Result, error)
	GetChannelPricing(context.Context, *GetChannelPricingRequest) (*app.ChannelPricingView, error)
	ApplyOrderPromotions(context.Context, *app.OrderPromotionsRequest) (*app.OrderPromotionsView, error)
}

type Server struct {
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

func Register(s grpc.ServiceRegistrar, srv PricingServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

func (s *Server) ProcessCatalog(ctx context.Context, _ *ProcessCatalogRequest) (*catalogpromotion.Result, error) {
	result, err := s.svc.ProcessCatalog(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return result, nil
}

func (s *Server) GetChannelPricing(ctx context.Context, req *GetChannelPricingRequest) (*app.ChannelPricingView, error) {
	view, err := s.svc.ChannelPricing(ctx, req.VariantCode, req.ChannelCode)
	if err != nil {
		return nil, toStatus(err)
	}
	return view, nil
}

func (s *Server) ApplyOrderPromotions(ctx context.Context, req *app.OrderPromotionsRequest) (*app.OrderPromotionsView, error) {
	view, err := s.svc.ApplyOrderPromotions(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return view, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, app.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, catalogpromotion.ErrInvalidAction):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ProcessCatalog",
			Handler: grpcjson.Unary(methodProcessCatalog, func(srv any, ctx context.Context, req *ProcessCatalogRequest) (*catalogpromotion.Result, error) {
				return srv.(PricingServiceServer).ProcessCatalog(ctx, req)
			}),
		},
		{
			MethodName: "GetChannelPricing",
			Handler: grpcjson.Unary(methodGetChannelPricing, func(srv any, ctx context.Context, req *GetChannelPricingRequest) (*app.ChannelPricingView, error) {
				return srv.(PricingServiceServer).GetChannelPricing(ctx, req)
			}),
		},
		{
			MethodName: "ApplyOrderPromotions",
			Handler: grpcjson.Unary(methodApplyOrderPromotions, func(srv any, ctx context.Context, req *app.OrderPromotionsRequest) (*app.OrderPromotionsView, error) {
				return srv.(PricingServiceServer).ApplyOrderPromotions(ctx, req)
			}),
		},
	},
	Metadata: "pricing/v1/pricing.json",
}
