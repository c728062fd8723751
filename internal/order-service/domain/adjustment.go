package domain

import "github.com/google/uuid"

type AdjustmentType string

const (
	AdjustmentOrderPromotion     AdjustmentType = "order_promotion"
	AdjustmentOrderItemPromotion AdjustmentType = "order_item_promotion"
	AdjustmentOrderUnitPromotion AdjustmentType = "order_unit_promotion"
	AdjustmentTax                AdjustmentType = "tax"
	AdjustmentShipping           AdjustmentType = "shipping"
)

// Adjustment is a monetary delta attached to an order, item or unit.
// Discounts are negative. Neutral adjustments (e.g. included taxes) are
// informative and do not change totals.
type Adjustment struct {
	ID         string         `json:"id"`
	Type       AdjustmentType `json:"type"`
	Label      string         `json:"label"`
	Amount     int64          `json:"amount"`
	OriginCode string         `json:"origin_code,omitempty"`
	Neutral    bool           `json:"neutral,omitempty"`
}

func NewAdjustment(t AdjustmentType, label string, amount int64, originCode string) Adjustment {
	return Adjustment{
		ID:         uuid.NewString(),
		Type:       t,
		Label:      label,
		Amount:     amount,
		OriginCode: originCode,
	}
}

func adjustmentsTotal(adjustments []Adjustment) int64 {
	var total int64
	for _, a := range adjustments {
		if !a.Neutral {
			total += a.Amount
		}
	}
	return total
}
