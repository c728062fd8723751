package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	orderdomain "github.com/jcmexdev/ecommerce-promotions/internal/order-service/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/app"
)

type orderOptions struct {
	number     string
	channel    string
	lines      map[string]int
	promotions []string
}

func newOrderCommand(opts *options, out io.Writer) *cobra.Command {
	orderOpts := &orderOptions{}
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Price an order and apply the fixture's order promotions to it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if len(orderOpts.lines) == 0 {
				return errors.New("at least one --line is required")
			}
			s, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer s.close()

			promotions, err := selectPromotions(s.fixture.OrderPromotions, orderOpts.promotions)
			if err != nil {
				return err
			}
			req := app.OrderPromotionsRequest{
				OrderNumber: orderOpts.number,
				ChannelCode: orderOpts.channel,
				Promotions:  promotions,
			}
			for _, code := range slices.Sorted(maps.Keys(orderOpts.lines)) {
				req.Lines = append(req.Lines, app.OrderLine{VariantCode: code, Quantity: orderOpts.lines[code]})
			}

			view, err := s.svc.ApplyOrderPromotions(ctx, req)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(out, view)
			}
			return printOrder(out, view)
		},
	}
	cmd.Flags().StringVar(&orderOpts.number, "number", "CLI-000001", "order number")
	cmd.Flags().StringVar(&orderOpts.channel, "channel", "", "channel code")
	cmd.Flags().StringToIntVar(&orderOpts.lines, "line", nil, "order line as VARIANT=QUANTITY (repeatable)")
	cmd.Flags().StringSliceVar(&orderOpts.promotions, "promotion", nil, "order promotion codes to apply (all fixture order promotions when empty)")
	_ = cmd.MarkFlagRequired("channel")
	return cmd
}

// selectPromotions returns the promotions named by codes, or all of them when
// codes is empty.
func selectPromotions(all []*orderdomain.Promotion, codes []string) ([]*orderdomain.Promotion, error) {
	if len(codes) == 0 {
		return all, nil
	}
	byCode := make(map[string]*orderdomain.Promotion, len(all))
	for _, p := range all {
		byCode[p.Code] = p
	}
	selected := make([]*orderdomain.Promotion, 0, len(codes))
	for _, code := range codes {
		p, ok := byCode[code]
		if !ok {
			return nil, fmt.Errorf("order promotion %q is not in the fixture", code)
		}
		selected = append(selected, p)
	}
	return selected, nil
}

func printOrder(out io.Writer, view *app.OrderPromotionsView) error {
	money := newMoneyFormatter()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tQTY\tUNIT PRICE\tSUBTOTAL\tTOTAL")
	for _, line := range view.Lines {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			line.VariantCode,
			line.Quantity,
			money.format(line.UnitPrice, view.CurrencyCode),
			money.format(line.Subtotal, view.CurrencyCode),
			money.format(line.Total, view.CurrencyCode),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nItems total: %s\n", money.format(view.ItemsTotal, view.CurrencyCode))
	if len(view.AppliedPromotions) == 0 {
		fmt.Fprintln(out, "Applied promotions: none")
		return nil
	}
	fmt.Fprintf(out, "Applied promotions: %v\n", view.AppliedPromotions)
	return nil
}
