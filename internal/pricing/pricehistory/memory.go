package pricehistory

import (
	"context"
	"sync"
	"time"

	"github.com/jcmexdev/ecommerce-promotions/internal/pricing/domain"
)

// MemoryRepository is an in-process Repository, used by the CLI when no
// database is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries []domain.PriceLogEntry
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Append(_ context.Context, entry *domain.PriceLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	entry.ID = m.nextID
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MemoryRepository) FindLatest(_ context.Context, channelCode, variantCode string) (*domain.PriceLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.ChannelCode == channelCode && e.VariantCode == variantCode {
			return &e, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) FindLowestPriceInPeriod(_ context.Context, latestID int64, channelCode, variantCode string, since time.Time) (*int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var lowest *int64
	var inEffect *domain.PriceLogEntry
	for i := range m.entries {
		e := m.entries[i]
		if e.ChannelCode != channelCode || e.VariantCode != variantCode || e.ID >= latestID {
			continue
		}
		if e.LoggedAt.Before(since) {
			inEffect = &m.entries[i]
			continue
		}
		if lowest == nil || e.Price < *lowest {
			lowest = domain.Int64(e.Price)
		}
	}
	if inEffect != nil && (lowest == nil || inEffect.Price < *lowest) {
		lowest = domain.Int64(inEffect.Price)
	}
	return lowest, nil
}
