// Package app holds the payment service use cases: gateway configs and
// payment requests, encrypted before they reach storage.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/ecommerce-promotions/internal/payment-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/payment-service/encryption"
)

type Repository interface {
	SaveGatewayConfig(ctx context.Context, cfg *domain.GatewayConfig) error
	GatewayConfig(ctx context.Context, name string) (*domain.GatewayConfig, error)
	SavePaymentRequest(ctx context.Context, req *domain.PaymentRequest) error
	PaymentRequest(ctx context.Context, id string) (*domain.PaymentRequest, error)
	PaymentRequestsForOrder(ctx context.Context, orderNumber string) ([]*domain.PaymentRequest, error)
}

type Service struct {
	repo     Repository
	configs  *encryption.GatewayConfigEncrypter
	requests *encryption.PaymentRequestEncrypter
	now      func() time.Time
	logger   *slog.Logger
}

func NewService(repo Repository, enc encryption.Encrypter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		configs:  encryption.NewGatewayConfigEncrypter(enc),
		requests: encryption.NewPaymentRequestEncrypter(enc),
		now:      time.Now,
		logger:   logger,
	}
}

// SaveGatewayConfig encrypts cfg's values and stores it. cfg is not modified.
func (s *Service) SaveGatewayConfig(ctx context.Context, cfg domain.GatewayConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("%w: gateway name is required", domain.ErrInvalidInput)
	}
	if err := s.configs.Encrypt(&cfg); err != nil {
		return fmt.Errorf("payment: %w", err)
	}
	if err := s.repo.SaveGatewayConfig(ctx, &cfg); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "gateway config saved", "gateway", cfg.Name, "keys", len(cfg.Config))
	return nil
}

// GatewayConfig returns the decrypted config of gateway name.
func (s *Service) GatewayConfig(ctx context.Context, name string) (*domain.GatewayConfig, error) {
	cfg, err := s.repo.GatewayConfig(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := s.configs.Decrypt(cfg); err != nil {
		return nil, fmt.Errorf("payment: %w", err)
	}
	return cfg, nil
}

// CreatePaymentRequest records a new request for an order. The returned
// request holds the plain payload.
func (s *Service) CreatePaymentRequest(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentRequest, error) {
	if req.OrderNumber == "" || req.GatewayName == "" {
		return nil, fmt.Errorf("%w: order number and gateway are required", domain.ErrInvalidInput)
	}
	if !req.Action.Valid() {
		return nil, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidInput, req.Action)
	}
	if _, err := s.repo.GatewayConfig(ctx, req.GatewayName); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	req.ID = uuid.NewString()
	req.State = domain.StateNew
	req.CreatedAt = now
	req.UpdatedAt = now

	if err := s.store(ctx, req); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "payment request created",
		"payment_request_id", req.ID, "order_number", req.OrderNumber, "action", req.Action, "amount", req.Amount)
	return &req, nil
}

// CompletePaymentRequest stores the gateway response and moves the request
// to a final state.
func (s *Service) CompletePaymentRequest(ctx context.Context, id string, state domain.PaymentRequestState, response map[string]any) (*domain.PaymentRequest, error) {
	if state != domain.StateCompleted && state != domain.StateFailed && state != domain.StateCancelled {
		return nil, fmt.Errorf("%w: %q is not a final state", domain.ErrInvalidInput, state)
	}
	req, err := s.PaymentRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	req.State = state
	req.ResponseData = response
	req.UpdatedAt = s.now().UTC()
	if err := s.store(ctx, *req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Service) PaymentRequest(ctx context.Context, id string) (*domain.PaymentRequest, error) {
	req, err := s.repo.PaymentRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requests.Decrypt(req); err != nil {
		return nil, fmt.Errorf("payment: %w", err)
	}
	return req, nil
}

func (s *Service) PaymentRequestsForOrder(ctx context.Context, orderNumber string) ([]*domain.PaymentRequest, error) {
	reqs, err := s.repo.PaymentRequestsForOrder(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	for _, req := range reqs {
		if err := s.requests.Decrypt(req); err != nil {
			return nil, fmt.Errorf("payment: %w", err)
		}
	}
	return reqs, nil
}

// store encrypts a copy of req and saves it.
func (s *Service) store(ctx context.Context, req domain.PaymentRequest) error {
	if err := s.requests.Encrypt(&req); err != nil {
		return fmt.Errorf("payment: %w", err)
	}
	return s.repo.SavePaymentRequest(ctx, &req)
}
