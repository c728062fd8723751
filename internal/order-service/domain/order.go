package domain

import (
	"github.com/google/uuid"

	pricing "github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
)

type Order struct {
	ID             string
	Number         string
	ChannelCode    string
	CurrencyCode   string
	Items          []*OrderItem
	Adjustments    []Adjustment
	PromotionCodes []string
}

// CountItems returns the number of order lines.
func (o *Order) CountItems() int {
	return len(o.Items)
}

// ItemsTotal sums item totals, adjustments included.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.Total()
	}
	return total
}

// Total is the items total plus order level adjustments.
func (o *Order) Total() int64 {
	return o.ItemsTotal() + adjustmentsTotal(o.Adjustments)
}

func (o *Order) HasPromotion(code string) bool {
	for _, c := range o.PromotionCodes {
		if c == code {
			return true
		}
	}
	return false
}

func (o *Order) AddPromotion(code string) {
	if !o.HasPromotion(code) {
		o.PromotionCodes = append(o.PromotionCodes, code)
	}
}

func (o *Order) RemovePromotion(code string) {
	out := o.PromotionCodes[:0]
	for _, c := range o.PromotionCodes {
		if c != code {
			out = append(out, c)
		}
	}
	o.PromotionCodes = out
}

// MinimumPrice returns the per-unit price floor of item in the order's
// channel, 0 when the variant has no pricing there.
func (o *Order) MinimumPrice(item *OrderItem) int64 {
	if p := item.Variant.ChannelPricingForChannel(o.ChannelCode); p != nil {
		return p.MinimumPrice
	}
	return 0
}

type OrderItem struct {
	ID          string
	Variant     *pricing.ProductVariant
	UnitPrice   int64
	Units       []*OrderItemUnit
	Adjustments []Adjustment
}

// NewOrderItem returns an item with quantity units of variant.
func NewOrderItem(variant *pricing.ProductVariant, unitPrice int64, quantity int) *OrderItem {
	item := &OrderItem{
		ID:        uuid.NewString(),
		Variant:   variant,
		UnitPrice: unitPrice,
	}
	for range quantity {
		item.Units = append(item.Units, &OrderItemUnit{ID: uuid.NewString(), item: item})
	}
	return item
}

func (i *OrderItem) Quantity() int {
	return len(i.Units)
}

// Subtotal is the undiscounted line price.
func (i *OrderItem) Subtotal() int64 {
	return int64(i.Quantity()) * i.UnitPrice
}

// Total sums the unit totals and item level adjustments.
func (i *OrderItem) Total() int64 {
	total := adjustmentsTotal(i.Adjustments)
	for _, u := range i.Units {
		total += u.Total()
	}
	return total
}

type OrderItemUnit struct {
	ID          string
	Adjustments []Adjustment
	item        *OrderItem
}

// Total is the unit price plus non-neutral adjustments.
func (u *OrderItemUnit) Total() int64 {
	var price int64
	if u.item != nil {
		price = u.item.UnitPrice
	}
	return price + adjustmentsTotal(u.Adjustments)
}

func (u *OrderItemUnit) AddAdjustment(a Adjustment) {
	u.Adjustments = append(u.Adjustments, a)
}

// RemoveAdjustments drops the adjustments of type t that originate from
// originCode and returns how many were removed.
func (u *OrderItemUnit) RemoveAdjustments(t AdjustmentType, originCode string) int {
	kept := u.Adjustments[:0]
	removed := 0
	for _, a := range u.Adjustments {
		if a.Type == t && a.OriginCode == originCode {
			removed++
			continue
		}
		kept = append(kept, a)
	}
	u.Adjustments = kept
	return removed
}

// AdjustmentsTotalByType sums the adjustments of type t.
func (u *OrderItemUnit) AdjustmentsTotalByType(t AdjustmentType) int64 {
	var total int64
	for _, a := range u.Adjustments {
		if a.Type == t {
			total += a.Amount
		}
	}
	return total
}
