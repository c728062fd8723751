// Package grpc exposes the payment service over gRPC with the JSON codec.
package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jcmexdev/ecommerce-promotions/internal/payment-service/app"
	"github.com/jcmexdev/ecommerce-promotions/internal/payment-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/grpcjson"
)

const ServiceName = "payment.v1.PaymentService"

const (
	methodSaveGatewayConfig      = "/" + ServiceName + "/SaveGatewayConfig"
	methodGetGatewayConfig       = "/" + ServiceName + "/GetGatewayConfig"
	methodCreatePaymentRequest   = "/" + ServiceName + "/CreatePaymentRequest"
	methodCompletePaymentRequest = "/" + ServiceName + "/CompletePaymentRequest"
	methodListPaymentRequests    = "/" + ServiceName + "/ListPaymentRequests"
)

type GetGatewayConfigRequest struct {
	Name string `json:"name"`
}

type SaveGatewayConfigResponse struct{}

type CompletePaymentRequestRequest struct {
	ID           string                     `json:"id"`
	State        domain.PaymentRequestState `json:"state"`
	ResponseData map[string]any             `json:"response_data,omitempty"`
}

type ListPaymentRequestsRequest struct {
	OrderNumber string `json:"order_number"`
}

type ListPaymentRequestsResponse struct {
	PaymentRequests []*domain.PaymentRequest `json:"payment_requests"`
}

// PaymentServiceServer is the server API of PaymentService.
type PaymentServiceServer interface {
	SaveGatewayConfig(context.Context, *domain.GatewayConfig) (*SaveGatewayConfigResponse, error)
	GetGatewayConfig(context.Context, *GetGatewayConfigRequest) (*domain.GatewayConfig, error)
	CreatePaymentRequest(context.Context, *domain.PaymentRequest) (*domain.PaymentRequest, error)
	CompletePaymentRequest(context.Context, *CompletePaymentRequestRequest) (*domain.PaymentRequest, error)
	ListPaymentRequests(context.Context, *ListPaymentRequestsRequest) (*ListPaymentRequestsResponse, error)
}

// Server adapts app.Service to PaymentServiceServer.
type Server struct {
	svc *app.Service
}

func NewServer(svc *app.Service) *Server {
	return &Server{svc: svc}
}

// Register adds the payment service to s.
func Register(s grpc.ServiceRegistrar, srv PaymentServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

func (s *Server) SaveGatewayConfig(ctx context.Context, req *domain.GatewayConfig) (*SaveGatewayConfigResponse, error) {
	if err := s.svc.SaveGatewayConfig(ctx, *req); err != nil {
		return nil, toStatus(err)
	}
	return &SaveGatewayConfigResponse{}, nil
}

func (s *Server) GetGatewayConfig(ctx context.Context, req *GetGatewayConfigRequest) (*domain.GatewayConfig, error) {
	cfg, err := s.svc.GatewayConfig(ctx, req.Name)
	if err != nil {
		return nil, toStatus(err)
	}
	return cfg, nil
}

func (s *Server) CreatePaymentRequest(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentRequest, error) {
	out, err := s.svc.CreatePaymentRequest(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return out, nil
}

func (s *Server) CompletePaymentRequest(ctx context.Context, req *CompletePaymentRequestRequest) (*domain.PaymentRequest, error) {
	out, err := s.svc.CompletePaymentRequest(ctx, req.ID, req.State, req.ResponseData)
	if err != nil {
		return nil, toStatus(err)
	}
	return out, nil
}

func (s *Server) ListPaymentRequests(ctx context.Context, req *ListPaymentRequestsRequest) (*ListPaymentRequestsResponse, error) {
	reqs, err := s.svc.PaymentRequestsForOrder(ctx, req.OrderNumber)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ListPaymentRequestsResponse{PaymentRequests: reqs}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PaymentServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "SaveGatewayConfig",
			Handler: grpcjson.Unary(methodSaveGatewayConfig, func(srv any, ctx context.Context, req *domain.GatewayConfig) (*SaveGatewayConfigResponse, error) {
				return srv.(PaymentServiceServer).SaveGatewayConfig(ctx, req)
			}),
		},
		{
			MethodName: "GetGatewayConfig",
			Handler: grpcjson.Unary(methodGetGatewayConfig, func(srv any, ctx context.Context, req *GetGatewayConfigRequest) (*domain.GatewayConfig, error) {
				return srv.(PaymentServiceServer).GetGatewayConfig(ctx, req)
			}),
		},
		{
			MethodName: "CreatePaymentRequest",
			Handler: grpcjson.Unary(methodCreatePaymentRequest, func(srv any, ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentRequest, error) {
				return srv.(PaymentServiceServer).CreatePaymentRequest(ctx, req)
			}),
		},
		{
			MethodName: "CompletePaymentRequest",
			Handler: grpcjson.Unary(methodCompletePaymentRequest, func(srv any, ctx context.Context, req *CompletePaymentRequestRequest) (*domain.PaymentRequest, error) {
				return srv.(PaymentServiceServer).CompletePaymentRequest(ctx, req)
			}),
		},
		{
			MethodName: "ListPaymentRequests",
			Handler: grpcjson.Unary(methodListPaymentRequests, func(srv any, ctx context.Context, req *ListPaymentRequestsRequest) (*ListPaymentRequestsResponse, error) {
				return srv.(PaymentServiceServer).ListPaymentRequests(ctx, req)
			}),
		},
	},
	Metadata: "payment/v1/payment.json",
}
