package database

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/facilityreservation/internal/domain/entities"
	"github.com/zatekoja/facilityreservation/internal/domain/providers"
	"github.com/zatekoja/facilityreservation/internal/domain/repositories"
)

// CachedFacilityAdapter wraps a FacilityRepository with read-through caching
// of single facilities. Every write evicts the facility's entry, and a read
// that overlapped a write is not cached, so blocked dates are never served
// older than the last completed write.
type CachedFacilityAdapter struct {
	adapter repositories.FacilityRepository
	cache   providers.CacheProvider

	// generation counts write starts and completions
	mu         sync.Mutex
	generation uint64
}

// NewCachedFacilityAdapter creates a new cached facility adapter
func NewCachedFacilityAdapter(adapter repositories.FacilityRepository, cache providers.CacheProvider) repositories.FacilityRepository {
	return &CachedFacilityAdapter{
		adapter: adapter,
		cache:   cache,
	}
}

const facilityByIDTTL = 5 * time.Minute

func facilityCacheKey(id string) string {
	return "facility:" + id
}

// Create creates a new facility
func (a *CachedFacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	return a.write(ctx, facility.ID, func() error {
		return a.adapter.Create(ctx, facility)
	})
}

// GetByID retrieves a facility by ID with caching
func (a *CachedFacilityAdapter) GetByID(ctx context.Context, id string) (*entities.Facility, error) {
	cacheKey := facilityCacheKey(id)

	if cached, err := a.cache.Get(ctx, cacheKey); err == nil {
		var facility entities.Facility
		if err := json.Unmarshal(cached, &facility); err == nil {
			return &facility, nil
		}
		log.Warn().Err(err).Str("facility_id", id).Msg("Failed to unmarshal cached facility")
	}

	readAt := a.currentGeneration()
	facility, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(facility)
	if err != nil {
		return facility, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.generation != readAt {
		log.Debug().Str("facility_id", id).Msg("Facility changed during read, not caching")
		return facility, nil
	}
	if err := a.cache.Set(ctx, cacheKey, data, facilityByIDTTL); err != nil {
		log.Warn().Err(err).Str("facility_id", id).Msg("Failed to cache facility")
	}

	return facility, nil
}

// List is not cached
func (a *CachedFacilityAdapter) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	return a.adapter.List(ctx, filter)
}

// AddBlockedDate blocks date and evicts the cached facility
func (a *CachedFacilityAdapter) AddBlockedDate(ctx context.Context, id, date string) error {
	return a.write(ctx, id, func() error {
		return a.adapter.AddBlockedDate(ctx, id, date)
	})
}

// RemoveBlockedDate unblocks date and evicts the cached facility
func (a *CachedFacilityAdapter) RemoveBlockedDate(ctx context.Context, id, date string) error {
	return a.write(ctx, id, func() error {
		return a.adapter.RemoveBlockedDate(ctx, id, date)
	})
}

// write evicts id before and after fn. The generation moves on both sides so
// any GetByID that read during fn skips its cache fill.
func (a *CachedFacilityAdapter) write(ctx context.Context, id string, fn func() error) error {
	a.mu.Lock()
	a.generation++
	a.evict(ctx, id)
	a.mu.Unlock()

	err := fn()

	a.mu.Lock()
	a.evict(ctx, id)
	a.generation++
	a.mu.Unlock()
	return err
}

func (a *CachedFacilityAdapter) currentGeneration() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.generation
}

func (a *CachedFacilityAdapter) evict(ctx context.Context, id string) {
	if err := a.cache.Delete(ctx, facilityCacheKey(id)); err != nil {
		log.Warn().Err(err).Str("facility_id", id).Msg("Failed to evict cached facility")
	}
}
