package promotion

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/jcmexdev/ecommerce-promotions/internal/order-service/domain"
)

// Applicator runs the action commands of order promotions.
type Applicator struct {
	commands map[domain.PromotionActionType]ActionCommand
	logger   *slog.Logger
}

// NewApplicator returns an applicator with the built-in action commands.
func NewApplicator(logger *slog.Logger) *Applicator {
	if logger == nil {
		logger = slog.Default()
	}
	units := NewUnitsPromotionAdjustmentsApplicator()
	return &Applicator{
		commands: map[domain.PromotionActionType]ActionCommand{
			domain.ActionOrderFixedDiscount:      NewFixedDiscountCommand(units),
			domain.ActionOrderPercentageDiscount: NewPercentageDiscountCommand(units),
			domain.ActionUnitFixedDiscount:       NewUnitFixedDiscountCommand(),
			domain.ActionUnitPercentageDiscount:  NewUnitPercentageDiscountCommand(),
		},
		logger: logger,
	}
}

// Register adds or replaces the command for t.
func (a *Applicator) Register(t domain.PromotionActionType, cmd ActionCommand) {
	a.commands[t] = cmd
}

// Apply executes every action of promotion. If any action changed the order,
// the promotion is recorded on it.
func (a *Applicator) Apply(order *domain.Order, promotion *domain.Promotion) (bool, error) {
	var applied bool
	for _, action := range promotion.Actions {
		cmd, ok := a.commands[action.Type]
		if !ok {
			a.logger.Warn("unknown promotion action", "promotion", promotion.Code, "action_type", action.Type)
			continue
		}
		changed, err := cmd.Execute(order, action.Configuration, promotion)
		if err != nil {
			a.Revert(order, promotion)
			return false, fmt.Errorf("promotion: apply %s: %w", promotion.Code, err)
		}
		applied = applied || changed
	}

	if applied {
		order.AddPromotion(promotion.Code)
	}
	return applied, nil
}

// Revert undoes every action of promotion and forgets it on the order.
func (a *Applicator) Revert(order *domain.Order, promotion *domain.Promotion) {
	for _, action := range promotion.Actions {
		if cmd, ok := a.commands[action.Type]; ok {
			cmd.Revert(order, action.Configuration, promotion)
		}
	}
	order.RemovePromotion(promotion.Code)
}

// ApplyAll tries the exclusive promotions first, by descending priority;
// the first one that applies is the only promotion on the order. Otherwise
// the non-exclusive promotions are applied by descending priority. It
// returns the codes of the applied promotions.
func (a *Applicator) ApplyAll(order *domain.Order, promotions []*domain.Promotion) ([]string, error) {
	sorted := append([]*domain.Promotion(nil), promotions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority > sorted[j].Priority })

	for _, p := range sorted {
		if !p.Exclusive {
			continue
		}
		applied, err := a.Apply(order, p)
		if err != nil {
			return nil, err
		}
		if applied {
			return []string{p.Code}, nil
		}
	}

	var codes []string
	for _, p := range sorted {
		if p.Exclusive {
			continue
		}
		applied, err := a.Apply(order, p)
		if err != nil {
			return codes, err
		}
		if applied {
			codes = append(codes, p.Code)
		}
	}
	return codes, nil
}
