package catalogpromotion

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/ecommerce-promotions/internal/coordinator"
	"github.com/jcmexdev/ecommerce-promotions/internal/coordinator/runlog"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/pricehistory"
)

// CatalogStore is the catalog the processor reads from and writes back to.
type CatalogStore interface {
	Channels(ctx context.Context) ([]domain.Channel, error)
	Variants(ctx context.Context) ([]*domain.ProductVariant, error)
	CatalogPromotions(ctx context.Context) ([]*domain.CatalogPromotion, error)
	SaveChannelPricings(ctx context.Context, pricings []*domain.ChannelPricing) error
}

// Result summarises one processor run.
type Result struct {
	RunID              string   `json:"run_id"`
	Variants           int      `json:"variants"`
	ActivePromotions   []string `json:"active_promotions"`
	DiscountedPricings int      `json:"discounted_pricings"`
	LoggedPrices       int      `json:"logged_prices"`
}

// Processor re-applies every active catalog promotion to the whole catalog.
// Runs are serialised.
type Processor struct {
	mu         sync.Mutex
	store      CatalogStore
	applicator *CatalogPromotionApplicator
	history    *pricehistory.Logger
	lowest     *pricehistory.LowestPriceProcessor
	runLog     runlog.Repository
	now        func() time.Time
	logger     *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithRunLog persists every run transition to repo.
func WithRunLog(repo runlog.Repository) ProcessorOption {
	return func(p *Processor) { p.runLog = repo }
}

// WithClock overrides the time used to decide which promotions are active.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) { p.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) { p.logger = logger }
}

func NewProcessor(
	store CatalogStore,
	applicator *CatalogPromotionApplicator,
	history *pricehistory.Logger,
	lowest *pricehistory.LowestPriceProcessor,
	opts ...ProcessorOption,
) *Processor {
	p := &Processor{
		store:      store,
		applicator: applicator,
		history:    history,
		lowest:     lowest,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process clears every catalog promotion from the catalog, applies the
// promotions active now in priority order, records price history and saves
// the result. Any failure restores the catalog as it was.
func (p *Processor) Process(ctx context.Context) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	run := &catalogRun{
		processor: p,
		result:    &Result{RunID: uuid.NewString()},
		now:       p.now(),
	}
	steps := []coordinator.Step{
		&loadCatalogStep{run},
		&clearPromotionsStep{run},
		&applyPromotionsStep{run},
		&recordPriceHistoryStep{run},
		&persistPricingsStep{run},
	}

	if err := coordinator.NewOrchestrator(run.result.RunID, steps, p.runLog).Start(ctx); err != nil {
		return nil, fmt.Errorf("catalog promotion: process: %w", err)
	}

	p.logger.InfoContext(ctx, "catalog promotions processed",
		"run_id", run.result.RunID,
		"variants", run.result.Variants,
		"active_promotions", run.result.ActivePromotions,
		"discounted_pricings", run.result.DiscountedPricings,
	)
	return run.result, nil
}

// catalogRun is the state shared by the steps of one run.
type catalogRun struct {
	processor  *Processor
	result     *Result
	now        time.Time
	channels   map[string]domain.Channel
	variants   []*domain.ProductVariant
	promotions []*domain.CatalogPromotion
	snapshot   []*domain.ChannelPricing
}

func (r *catalogRun) pricings() []*domain.ChannelPricing {
	var out []*domain.ChannelPricing
	for _, v := range r.variants {
		codes := make([]string, 0, len(v.ChannelPricings))
		for code := range v.ChannelPricings {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			out = append(out, v.ChannelPricings[code])
		}
	}
	return out
}

type loadCatalogStep struct{ run *catalogRun }

func (s *loadCatalogStep) Name() string { return "Load_Catalog_Step" }

func (s *loadCatalogStep) Execute(ctx context.Context) error {
	store := s.run.processor.store

	channels, err := store.Channels(ctx)
	if err != nil {
		return fmt.Errorf("load channels: %w", err)
	}
	s.run.channels = make(map[string]domain.Channel, len(channels))
	for _, c := range channels {
		s.run.channels[c.Code] = c
	}

	if s.run.variants, err = store.Variants(ctx); err != nil {
		return fmt.Errorf("load variants: %w", err)
	}
	promotions, err := store.CatalogPromotions(ctx)
	if err != nil {
		return fmt.Errorf("load catalog promotions: %w", err)
	}

	for _, promo := range promotions {
		if promo.IsActiveAt(s.run.now) {
			s.run.promotions = append(s.run.promotions, promo)
		}
	}
	sort.SliceStable(s.run.promotions, func(i, j int) bool {
		return s.run.promotions[i].Priority > s.run.promotions[j].Priority
	})

	s.run.result.Variants = len(s.run.variants)
	for _, promo := range s.run.promotions {
		s.run.result.ActivePromotions = append(s.run.result.ActivePromotions, promo.Code)
	}
	return nil
}

func (s *loadCatalogStep) Compensate(context.Context) error { return nil }

type clearPromotionsStep struct{ run *catalogRun }

func (s *clearPromotionsStep) Name() string { return "Clear_Catalog_Promotions_Step" }

func (s *clearPromotionsStep) Execute(context.Context) error {
	pricings := s.run.pricings()
	s.run.snapshot = make([]*domain.ChannelPricing, len(pricings))
	for i, p := range pricings {
		s.run.snapshot[i] = p.Clone()
	}

	var clearer Clearer
	for _, v := range s.run.variants {
		clearer.ClearVariant(v)
	}
	return nil
}

// Compensate puts the in-memory pricings back the way they were loaded.
func (s *clearPromotionsStep) Compensate(context.Context) error {
	for i, p := range s.run.pricings() {
		if i < len(s.run.snapshot) {
			*p = *s.run.snapshot[i].Clone()
		}
	}
	return nil
}

type applyPromotionsStep struct{ run *catalogRun }

func (s *applyPromotionsStep) Name() string { return "Apply_Catalog_Promotions_Step" }

func (s *applyPromotionsStep) Execute(context.Context) error {
	for _, v := range s.run.variants {
		for _, promo := range s.run.promotions {
			if !promo.AppliesTo(v) {
				continue
			}
			if err := s.run.processor.applicator.ApplyOnVariant(v, promo); err != nil {
				return fmt.Errorf("apply %s on %s: %w", promo.Code, v.Code, err)
			}
		}
	}

	for _, p := range s.run.pricings() {
		if p.IsPriceReduced() {
			s.run.result.DiscountedPricings++
		}
	}
	return nil
}

func (s *applyPromotionsStep) Compensate(context.Context) error { return nil }

type recordPriceHistoryStep struct{ run *catalogRun }

func (s *recordPriceHistoryStep) Name() string { return "Record_Price_History_Step" }

func (s *recordPriceHistoryStep) Execute(ctx context.Context) error {
	p := s.run.processor
	if p.history == nil || p.lowest == nil {
		return nil
	}
	for _, pricing := range s.run.pricings() {
		logged, err := p.history.Log(ctx, pricing)
		if err != nil {
			return err
		}
		if logged {
			s.run.result.LoggedPrices++
		}

		channel, ok := s.run.channels[pricing.ChannelCode]
		if !ok {
			channel = domain.Channel{Code: pricing.ChannelCode}
		}
		if err := p.lowest.Process(ctx, pricing, channel); err != nil {
			return err
		}
	}
	return nil
}

// Compensate is a no-op: the price log is append-only and the next run logs
// the restored price again because it differs from the latest entry.
func (s *recordPriceHistoryStep) Compensate(context.Context) error { return nil }

type persistPricingsStep struct{ run *catalogRun }

func (s *persistPricingsStep) Name() string { return "Persist_Channel_Pricings_Step" }

func (s *persistPricingsStep) Execute(ctx context.Context) error {
	if err := s.run.processor.store.SaveChannelPricings(ctx, s.run.pricings()); err != nil {
		return fmt.Errorf("save channel pricings: %w", err)
	}
	return nil
}

func (s *persistPricingsStep) Compensate(ctx context.Context) error {
	return s.run.processor.store.SaveChannelPricings(ctx, s.run.snapshot)
}
