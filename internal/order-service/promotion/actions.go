package promotion

import (
	"fmt"
	"math"

	"github.com/jcmexdev/ecommerce-promotions/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pkg/distributor"
)

// ActionCommand executes and reverts one kind of promotion action.
type ActionCommand interface {
	// Execute applies the action and reports whether it changed the order.
	Execute(order *domain.Order, cfg domain.PromotionActionConfiguration, promotion *domain.Promotion) (bool, error)
	Revert(order *domain.Order, cfg domain.PromotionActionConfiguration, promotion *domain.Promotion)
}

// orderDiscount distributes an order level discount over items, then over
// units.
type orderDiscount struct {
	distributor distributor.MinimumPriceDistributor
	units       *UnitsPromotionAdjustmentsApplicator
}

func (d orderDiscount) apply(order *domain.Order, promotion *domain.Promotion, discount int64) (bool, error) {
	if discount >= 0 || order.CountItems() == 0 {
		return false, nil
	}

	totals := make([]int64, order.CountItems())
	minimums := make([]int64, order.CountItems())
	for i, item := range order.Items {
		totals[i] = item.Total()
		minimums[i] = order.MinimumPrice(item) * int64(item.Quantity())
	}

	amounts, err := d.distributor.Distribute(totals, minimums, discount)
	if err != nil {
		return false, fmt.Errorf("promotion: distribute %s: %w", promotion.Code, err)
	}

	var applied bool
	for _, a := range amounts {
		applied = applied || a != 0
	}
	if !applied {
		return false, nil
	}
	if err := d.units.Apply(order, promotion, amounts); err != nil {
		return false, err
	}
	return true, nil
}

func revertUnits(order *domain.Order, t domain.AdjustmentType, promotion *domain.Promotion) {
	for _, item := range order.Items {
		for _, unit := range item.Units {
			unit.RemoveAdjustments(t, promotion.Code)
		}
	}
}

// FixedDiscountCommand takes a fixed, per-channel amount off the order,
// capped at the items total.
type FixedDiscountCommand struct {
	orderDiscount
}

func NewFixedDiscountCommand(units *UnitsPromotionAdjustmentsApplicator) *FixedDiscountCommand {
	return &FixedDiscountCommand{orderDiscount{units: units}}
}

func (c *FixedDiscountCommand) Execute(order *domain.Order, cfg domain.PromotionActionConfiguration, promotion *domain.Promotion) (bool, error) {
	amount, ok := cfg.Amounts[order.ChannelCode]
	if !ok || amount <= 0 {
		return false, nil
	}
	amount = min(amount, order.ItemsTotal())
	return c.apply(order, promotion, -amount)
}

func (c *FixedDiscountCommand) Revert(order *domain.Order, _ domain.PromotionActionConfiguration, promotion *domain.Promotion) {
	revertUnits(order, domain.AdjustmentOrderPromotion, promotion)
}

// PercentageDiscountCommand takes a percentage of the items total off the
// order.
type PercentageDiscountCommand struct {
	orderDiscount
}

func NewPercentageDiscountCommand(units *UnitsPromotionAdjustmentsApplicator) *PercentageDiscountCommand {
	return &PercentageDiscountCommand{orderDiscount{units: units}}
}

func (c *PercentageDiscountCommand) Execute(order *domain.Order, cfg domain.PromotionActionConfiguration, promotion *domain.Promotion) (bool, error) {
	if err := validatePercentage(cfg.Percentage); err != nil {
		return false, err
	}
	discount := int64(math.Round(float64(order.ItemsTotal()) * cfg.Percentage))
	return c.apply(order, promotion, -discount)
}

func (c *PercentageDiscountCommand) Revert(order *domain.Order, _ domain.PromotionActionConfiguration, promotion *domain.Promotion) {
	revertUnits(order, domain.AdjustmentOrderPromotion, promotion)
}

// UnitDiscountCommand discounts every unit directly, either by a fixed
// per-channel amount or by a percentage of the unit price.
type UnitDiscountCommand struct {
	percentage bool
}

func NewUnitFixedDiscountCommand() *UnitDiscountCommand {
	return &UnitDiscountCommand{}
}

func NewUnitPercentageDiscountCommand() *UnitDiscountCommand {
	return &UnitDiscountCommand{percentage: true}
}

func (c *UnitDiscountCommand) Execute(order *domain.Order, cfg domain.PromotionActionConfiguration, promotion *domain.Promotion) (bool, error) {
	if c.percentage {
		if err := validatePercentage(cfg.Percentage); err != nil {
			return false, err
		}
	}

	var applied bool
	for _, item := range order.Items {
		var discount int64
		if c.percentage {
			discount = int64(math.Round(float64(item.UnitPrice) * cfg.Percentage))
		} else {
			discount = cfg.Amounts[order.ChannelCode]
		}
		if discount <= 0 {
			continue
		}

		minimum := order.MinimumPrice(item)
		for _, unit := range item.Units {
			amount := clampToMinimum(unit.Total(), max(minimum, 0), -min(discount, unit.Total()))
			if amount == 0 {
				continue
			}
			unit.AddAdjustment(domain.NewAdjustment(domain.AdjustmentOrderUnitPromotion, promotion.Name, amount, promotion.Code))
			applied = true
		}
	}
	return applied, nil
}

func (c *UnitDiscountCommand) Revert(order *domain.Order, _ domain.PromotionActionConfiguration, promotion *domain.Promotion) {
	revertUnits(order, domain.AdjustmentOrderUnitPromotion, promotion)
}

func validatePercentage(p float64) error {
	if p < 0 || p > 1 {
		return fmt.Errorf("%w: percentage %v outside [0, 1]", ErrInvalidArgument, p)
	}
	return nil
}
