// Package app holds the pricing service use cases: catalog promotion runs,
// channel pricing lookups and order promotion previews.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	orderdomain "github.com/jcmexdev/ecommerce-promotions/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/order-service/promotion"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/catalogpromotion"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/pricehistory"
)

var ErrInvalidInput = errors.New("invalid input")

// Catalog is the store the pricing service runs on.
type Catalog interface {
	catalogpromotion.CatalogStore
	CatalogWriter
	Channel(ctx context.Context, code string) (domain.Channel, error)
	Variant(ctx context.Context, code string) (*domain.ProductVariant, error)
	Taxonomy(ctx context.Context) (domain.Taxonomy, error)
}

// DefaultMaxLineQuantity bounds the quantity of one order line. Every unit
// of a line is materialised, so the bound caps the memory of one request.
const DefaultMaxLineQuantity = 1000

type Service struct {
	catalog         Catalog
	processor       *catalogpromotion.Processor
	promotions      *promotion.Applicator
	maxLineQuantity int
	logger          *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMaxLineQuantity overrides DefaultMaxLineQuantity. Values below 1 are
// ignored.
func WithMaxLineQuantity(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.maxLineQuantity = n
		}
	}
}

func NewService(catalog Catalog, processor *catalogpromotion.Processor, promotions *promotion.Applicator, logger *slog.Logger, opts ...ServiceOption) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		catalog:         catalog,
		processor:       processor,
		promotions:      promotions,
		maxLineQuantity: DefaultMaxLineQuantity,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProcessCatalog re-applies every active catalog promotion.
func (s *Service) ProcessCatalog(ctx context.Context) (*catalogpromotion.Result, error) {
	return s.processor.Process(ctx)
}

// LoadFixture seeds the catalog.
func (s *Service) LoadFixture(ctx context.Context, f *Fixture) error {
	return f.Load(ctx, s.catalog)
}

// ChannelPricingView is a channel pricing as shown to shoppers.
type ChannelPricingView struct {
	VariantCode       string                    `json:"variant_code"`
	ChannelCode       string                    `json:"channel_code"`
	CurrencyCode      string                    `json:"currency_code"`
	Price             int64                     `json:"price"`
	OriginalPrice     *int64                    `json:"original_price,omitempty"`
	MinimumPrice      int64                     `json:"minimum_price"`
	IsPriceReduced    bool                      `json:"is_price_reduced"`
	AppliedPromotions []domain.AppliedPromotion `json:"applied_promotions"`

	// LowestPriceBeforeDiscount is only set when the channel shows it for
	// this variant.
	LowestPriceBeforeDiscount *int64 `json:"lowest_price_before_discount,omitempty"`
}

func (s *Service) ChannelPricing(ctx context.Context, variantCode, channelCode string) (*ChannelPricingView, error) {
	variant, err := s.catalog.Variant(ctx, variantCode)
	if err != nil {
		return nil, err
	}
	channel, err := s.catalog.Channel(ctx, channelCode)
	if err != nil {
		return nil, err
	}
	pricing := variant.ChannelPricingForChannel(channelCode)
	if pricing == nil {
		return nil, fmt.Errorf("variant %s in channel %s: %w", variantCode, channelCode, domain.ErrNotFound)
	}
	taxonomy, err := s.catalog.Taxonomy(ctx)
	if err != nil {
		return nil, err
	}

	view := &ChannelPricingView{
		VariantCode:       variantCode,
		ChannelCode:       channelCode,
		CurrencyCode:      channel.BaseCurrencyCode,
		Price:             pricing.Price,
		OriginalPrice:     pricing.OriginalPrice,
		MinimumPrice:      pricing.MinimumPrice,
		IsPriceReduced:    pricing.IsPriceReduced(),
		AppliedPromotions: pricing.AppliedPromotions,
	}
	if pricehistory.NewDisplayChecker(taxonomy).IsLowestPriceDisplayable(variant, channel) {
		view.LowestPriceBeforeDiscount = pricing.LowestPriceBeforeDiscount
	}
	return view, nil
}

type OrderLine struct {
	VariantCode string `json:"variant_code"`
	Quantity    int    `json:"quantity"`
}

type OrderPromotionsRequest struct {
	OrderNumber string                   `json:"order_number"`
	ChannelCode string                   `json:"channel_code"`
	Lines       []OrderLine              `json:"lines"`
	Promotions  []*orderdomain.Promotion `json:"promotions"`
}

type UnitView struct {
	Total       int64                    `json:"total"`
	Adjustments []orderdomain.Adjustment `json:"adjustments"`
}

type LineView struct {
	VariantCode string     `json:"variant_code"`
	UnitPrice   int64      `json:"unit_price"`
	Quantity    int        `json:"quantity"`
	Subtotal    int64      `json:"subtotal"`
	Total       int64      `json:"total"`
	Units       []UnitView `json:"units"`
}

type OrderPromotionsView struct {
	OrderNumber       string     `json:"order_number"`
	ChannelCode       string     `json:"channel_code"`
	CurrencyCode      string     `json:"currency_code"`
	Lines             []LineView `json:"lines"`
	ItemsTotal        int64      `json:"items_total"`
	AppliedPromotions []string   `json:"applied_promotions"`
}

// ApplyOrderPromotions prices the order lines at their current channel
// price, applies the given order promotions and returns the result.
func (s *Service) ApplyOrderPromotions(ctx context.Context, req OrderPromotionsRequest) (*OrderPromotionsView, error) {
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: order has no lines", ErrInvalidInput)
	}
	channel, err := s.catalog.Channel(ctx, req.ChannelCode)
	if err != nil {
		return nil, err
	}

	order := &orderdomain.Order{
		ID:           req.OrderNumber,
		Number:       req.OrderNumber,
		ChannelCode:  channel.Code,
		CurrencyCode: channel.BaseCurrencyCode,
	}
	for _, line := range req.Lines {
		if line.Quantity <= 0 || line.Quantity > s.maxLineQuantity {
			return nil, fmt.Errorf("%w: quantity %d for %s must be between 1 and %d",
				ErrInvalidInput, line.Quantity, line.VariantCode, s.maxLineQuantity)
		}
		variant, err := s.catalog.Variant(ctx, line.VariantCode)
		if err != nil {
			return nil, err
		}
		pricing := variant.ChannelPricingForChannel(channel.Code)
		if pricing == nil {
			return nil, fmt.Errorf("%w: %s is not sold in %s", ErrInvalidInput, line.VariantCode, channel.Code)
		}
		order.Items = append(order.Items, orderdomain.NewOrderItem(variant, pricing.Price, line.Quantity))
	}

	applied, err := s.promotions.ApplyAll(order, req.Promotions)
	if err != nil {
		if errors.Is(err, promotion.ErrInvalidArgument) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "order promotions applied",
		"order_number", order.Number, "channel", order.ChannelCode, "applied", applied, "items_total", order.ItemsTotal())

	return orderView(order, applied), nil
}

func orderView(order *orderdomain.Order, applied []string) *OrderPromotionsView {
	view := &OrderPromotionsView{
		OrderNumber:       order.Number,
		ChannelCode:       order.ChannelCode,
		CurrencyCode:      order.CurrencyCode,
		ItemsTotal:        order.ItemsTotal(),
		AppliedPromotions: applied,
	}
	for _, item := range order.Items {
		line := LineView{
			VariantCode: item.Variant.Code,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity(),
			Subtotal:    item.Subtotal(),
			Total:       item.Total(),
		}
		for _, unit := range item.Units {
			line.Units = append(line.Units, UnitView{Total: unit.Total(), Adjustments: unit.Adjustments})
		}
		view.Lines = append(view.Lines, line)
	}
	return view
}
