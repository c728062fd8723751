package domain

// PromotionActionType identifies an order promotion action command.
type PromotionActionType string

const (
	ActionOrderFixedDiscount      PromotionActionType = "order_fixed_discount"
	ActionOrderPercentageDiscount PromotionActionType = "order_percentage_discount"
	ActionUnitFixedDiscount       PromotionActionType = "unit_fixed_discount"
	ActionUnitPercentageDiscount  PromotionActionType = "unit_percentage_discount"
)

// PromotionActionConfiguration holds the parameters of an action. Fixed
// actions read Amounts keyed by channel code; percentage actions read
// Percentage as a fraction in [0, 1].
type PromotionActionConfiguration struct {
	Amounts    map[string]int64 `json:"amounts,omitempty" yaml:"amounts,omitempty"`
	Percentage float64          `json:"percentage,omitempty" yaml:"percentage,omitempty"`
}

type PromotionAction struct {
	Type          PromotionActionType          `json:"type" yaml:"type"`
	Configuration PromotionActionConfiguration `json:"configuration" yaml:"configuration"`
}

// Promotion is a cart/order promotion.
type Promotion struct {
	Code      string            `json:"code" yaml:"code"`
	Name      string            `json:"name" yaml:"name"`
	Priority  int               `json:"priority" yaml:"priority"`
	Exclusive bool              `json:"exclusive" yaml:"exclusive"`
	Actions   []PromotionAction `json:"actions" yaml:"actions"`
}
