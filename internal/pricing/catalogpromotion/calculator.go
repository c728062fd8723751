package catalogpromotion

import (
	"errors"
	"fmt"
	"math"

	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
)

var (
	// ErrCalculatorNotFound is returned when no calculator handles an action
	// type.
	ErrCalculatorNotFound = errors.New("catalog promotion: no price calculator for action type")

	// ErrInvalidAction is returned for actions whose configuration cannot be
	// used to compute a price.
	ErrInvalidAction = errors.New("catalog promotion: invalid action configuration")
)

// PriceCalculator computes the price of a channel pricing after action.
type PriceCalculator interface {
	Calculate(pricing *domain.ChannelPricing, action domain.CatalogPromotionAction) (int64, error)
}

// TypedPriceCalculator is a PriceCalculator that handles a single action
// type.
type TypedPriceCalculator interface {
	PriceCalculator
	Supports(action domain.CatalogPromotionAction) bool
}

// ActionBasedPriceCalculator dispatches to the first calculator that
// supports the action type.
type ActionBasedPriceCalculator struct {
	calculators []TypedPriceCalculator
}

// NewActionBasedPriceCalculator returns a dispatcher over calculators. With
// no arguments the fixed and percentage calculators are registered.
func NewActionBasedPriceCalculator(calculators ...TypedPriceCalculator) *ActionBasedPriceCalculator {
	if len(calculators) == 0 {
		calculators = []TypedPriceCalculator{FixedDiscountPriceCalculator{}, PercentageDiscountPriceCalculator{}}
	}
	return &ActionBasedPriceCalculator{calculators: calculators}
}

func (c *ActionBasedPriceCalculator) Calculate(pricing *domain.ChannelPricing, action domain.CatalogPromotionAction) (int64, error) {
	for _, calc := range c.calculators {
		if calc.Supports(action) {
			return calc.Calculate(pricing, action)
		}
	}
	return 0, fmt.Errorf("%w %q", ErrCalculatorNotFound, action.Type)
}

// FixedDiscountPriceCalculator subtracts the per-channel amount of a
// fixed_discount action.
type FixedDiscountPriceCalculator struct{}

func (FixedDiscountPriceCalculator) Supports(action domain.CatalogPromotionAction) bool {
	return action.Type == domain.ActionFixedDiscount
}

func (FixedDiscountPriceCalculator) Calculate(pricing *domain.ChannelPricing, action domain.CatalogPromotionAction) (int64, error) {
	amount, ok := action.ChannelAmounts[pricing.ChannelCode]
	if !ok {
		return pricing.Price, nil
	}
	if amount < 0 {
		return 0, fmt.Errorf("%w: negative fixed amount %d for channel %s", ErrInvalidAction, amount, pricing.ChannelCode)
	}
	return floor(pricing.Price-amount, pricing.MinimumPrice), nil
}

// PercentageDiscountPriceCalculator takes a fraction off the current price.
type PercentageDiscountPriceCalculator struct{}

func (PercentageDiscountPriceCalculator) Supports(action domain.CatalogPromotionAction) bool {
	return action.Type == domain.ActionPercentageDiscount
}

func (PercentageDiscountPriceCalculator) Calculate(pricing *domain.ChannelPricing, action domain.CatalogPromotionAction) (int64, error) {
	if action.Amount < 0 || action.Amount > 1 {
		return 0, fmt.Errorf("%w: percentage %v outside [0, 1]", ErrInvalidAction, action.Amount)
	}
	price := float64(pricing.Price)
	discounted := int64(math.Round(price - price*action.Amount))
	return floor(discounted, pricing.MinimumPrice), nil
}

func floor(price, minimum int64) int64 {
	return max(price, minimum, 0)
}
