package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/app"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/catalogpromotion"
)

func newProcessCommand(opts *options, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Apply catalog promotions and print channel prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, opts)
			if err != nil {
				return err
			}
			defer s.close()

			var views []*app.ChannelPricingView
			for _, v := range s.fixture.Variants {
				for _, channel := range slices.Sorted(maps.Keys(v.Pricing)) {
					view, err := s.svc.ChannelPricing(ctx, v.Code, channel)
					if err != nil {
						return fmt.Errorf("price %s in %s: %w", v.Code, channel, err)
					}
					views = append(views, view)
				}
			}

			if opts.jsonOut {
				return writeJSON(out, struct {
					Run     *catalogpromotion.Result  `json:"run"`
					Pricing []*app.ChannelPricingView `json:"pricing"`
				}{s.result, views})
			}
			return printPricing(out, s, views)
		},
	}
}

func printPricing(out io.Writer, s *session, views []*app.ChannelPricingView) error {
	money := newMoneyFormatter()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tCHANNEL\tPRICE\tORIGINAL\tLOWEST BEFORE\tPROMOTIONS")
	for _, v := range views {
		original := "-"
		if v.IsPriceReduced {
			original = money.formatOptional(v.OriginalPrice, v.CurrencyCode)
		}
		codes := make([]string, 0, len(v.AppliedPromotions))
		for _, ap := range v.AppliedPromotions {
			codes = append(codes, ap.Code)
		}
		promotions := strings.Join(codes, ",")
		if promotions == "" {
			promotions = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.VariantCode,
			v.ChannelCode,
			money.format(v.Price, v.CurrencyCode),
			original,
			money.formatOptional(v.LowestPriceBeforeDiscount, v.CurrencyCode),
			promotions,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	money.p.Fprintf(out, "\n%d variants, %d active promotions, %d prices changed (run %s)\n",
		s.result.Variants, len(s.result.ActivePromotions), s.result.DiscountedPricings, s.result.RunID)
	return nil
}
