// Package promotion applies order promotions: it turns promotion actions into
// adjustments on order item units.
package promotion

import (
	"errors"
	"fmt"

	"github.com/jcmexdev/ecommerce-promotions/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/distributor"
)

// ErrInvalidArgument is returned when the caller passes inconsistent input.
var ErrInvalidArgument = errors.New("promotion: invalid argument")

// UnitsPromotionAdjustmentsApplicator spreads per-item promotion amounts over
// the units of each item.
type UnitsPromotionAdjustmentsApplicator struct {
	distributor distributor.IntegerDistributor
}

func NewUnitsPromotionAdjustmentsApplicator() *UnitsPromotionAdjustmentsApplicator {
	return &UnitsPromotionAdjustmentsApplicator{}
}

// Apply attaches promotion adjustments to the units of order. amounts holds
// one (negative) amount per order item, in item order. Each item amount is
// split evenly across the item's units, with the remainder on the leading
// units, and no unit is discounted below the variant's minimum price in the
// order's channel.
func (a *UnitsPromotionAdjustmentsApplicator) Apply(order *domain.Order, promotion *domain.Promotion, amounts []int64) error {
	if order.CountItems() != len(amounts) {
		return fmt.Errorf("%w: %d items but %d adjustment amounts", ErrInvalidArgument, order.CountItems(), len(amounts))
	}

	for i, item := range order.Items {
		if amounts[i] == 0 {
			continue
		}
		if err := a.applyOnItemUnits(order, item, promotion, amounts[i]); err != nil {
			return err
		}
	}
	return nil
}

func (a *UnitsPromotionAdjustmentsApplicator) applyOnItemUnits(order *domain.Order, item *domain.OrderItem, promotion *domain.Promotion, amount int64) error {
	if item.Quantity() == 0 {
		return nil
	}
	shares, err := a.distributor.Distribute(amount, item.Quantity())
	if err != nil {
		return fmt.Errorf("promotion: split %d over item %s: %w", amount, item.ID, err)
	}

	minimum := order.MinimumPrice(item)
	for i, unit := range item.Units {
		amount := clampToMinimum(unit.Total(), minimum, shares[i])
		if amount == 0 {
			continue
		}
		unit.AddAdjustment(domain.NewAdjustment(domain.AdjustmentOrderPromotion, promotion.Name, amount, promotion.Code))
	}
	return nil
}

// clampToMinimum shrinks a discount so that total+amount stays at or above
// minimum. It never turns a discount into a surcharge.
func clampToMinimum(total, minimum, amount int64) int64 {
	if total+amount < minimum {
		return min(minimum-total, 0)
	}
	return amount
}
