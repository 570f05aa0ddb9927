/*
resolver.go - Active parameter set resolution and activation

PURPOSE:
  Centralizes the "which configuration is in force" question. Callers never
  query the store for active flags themselves; they ask the Resolver, which
  also enforces the exactly-one-active invariant.

CONCURRENCY:
  Activate() is the only mutating operation in the whole engine. It runs as
  a serialized read-modify-write behind a mutex on top of the store's atomic
  flip, so there is no window with zero or two active sets. Reads are cached
  with a short TTL; stale reads within the TTL are acceptable because legal
  parameters change at most yearly. Activation invalidates the cache.
*/
package legal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/silvagro/nomina-engine/dates"
)

// Store is the persistence contract the resolver needs. Implementations live
// in store/memory and store/sqlite.
type Store interface {
	// Save inserts or replaces a parameter set.
	Save(ctx context.Context, set ParameterSet) error

	// Get returns a parameter set by id, or ErrNotFound.
	Get(ctx context.Context, id string) (ParameterSet, error)

	// List returns all parameter sets ordered by year.
	List(ctx context.Context) ([]ParameterSet, error)

	// ActiveSets returns every set currently flagged active. A healthy store
	// returns zero or one; more signals corruption.
	ActiveSets(ctx context.Context) ([]ParameterSet, error)

	// Activate atomically marks the given id active and clears the flag on
	// all others, in a single transaction. Returns ErrNotFound for an
	// unknown id.
	Activate(ctx context.Context, id string) error
}

// DefaultCacheTTL bounds how stale a cached active set may be.
const DefaultCacheTTL = 30 * time.Second

// Resolver resolves and activates legal parameter sets.
type Resolver struct {
	store Store

	activateMu sync.Mutex // serializes Activate

	cacheMu  sync.RWMutex
	cached   *ParameterSet
	cachedAt time.Time
	ttl      time.Duration

	now func() time.Time // injectable clock for tests
}

// NewResolver builds a resolver with the default cache TTL.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store, ttl: DefaultCacheTTL, now: time.Now}
}

// WithCacheTTL overrides the cache validity window. Zero disables caching.
func (r *Resolver) WithCacheTTL(ttl time.Duration) *Resolver {
	r.ttl = ttl
	return r
}

// Active returns the parameter set in force for the given date's year.
// Fails with ErrConfigurationNotFound when no active set matches the year
// and with ErrInvariantViolation when more than one set is active.
func (r *Resolver) Active(ctx context.Context, asOf dates.Date) (ParameterSet, error) {
	set, err := r.activeSet(ctx)
	if err != nil {
		if errors.Is(err, ErrConfigurationNotFound) {
			return ParameterSet{}, &ConfigurationNotFoundError{Year: asOf.Year()}
		}
		return ParameterSet{}, err
	}
	if set.Year != asOf.Year() {
		return ParameterSet{}, &ConfigurationNotFoundError{Year: asOf.Year()}
	}
	return set, nil
}

// ActiveForYear is Active keyed by year instead of date.
func (r *Resolver) ActiveForYear(ctx context.Context, year int) (ParameterSet, error) {
	return r.Active(ctx, dates.New(year, time.January, 1))
}

// Activate flips the active flag to the given set and invalidates the cache.
func (r *Resolver) Activate(ctx context.Context, id string) error {
	r.activateMu.Lock()
	defer r.activateMu.Unlock()

	if err := r.store.Activate(ctx, id); err != nil {
		return err
	}
	r.Invalidate()
	return nil
}

// Invalidate drops the cached active set.
func (r *Resolver) Invalidate() {
	r.cacheMu.Lock()
	r.cached = nil
	r.cacheMu.Unlock()
}

func (r *Resolver) activeSet(ctx context.Context) (ParameterSet, error) {
	r.cacheMu.RLock()
	if r.cached != nil && r.now().Sub(r.cachedAt) < r.ttl {
		set := *r.cached
		r.cacheMu.RUnlock()
		return set, nil
	}
	r.cacheMu.RUnlock()

	active, err := r.store.ActiveSets(ctx)
	if err != nil {
		return ParameterSet{}, err
	}

	switch len(active) {
	case 0:
		return ParameterSet{}, ErrConfigurationNotFound
	case 1:
		// fall through
	default:
		ids := make([]string, len(active))
		for i, s := range active {
			ids[i] = s.ID
		}
		return ParameterSet{}, &InvariantViolationError{ActiveIDs: ids}
	}

	set := active[0]
	r.cacheMu.Lock()
	r.cached = &set
	r.cachedAt = r.now()
	r.cacheMu.Unlock()
	return set, nil
}
