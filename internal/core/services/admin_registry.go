package services

import (
	"RelayBot/internal/core/domain"
	"RelayBot/internal/core/ports"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
)

// AdminRegistry owns the ordered set of administrator ids.
// All methods are safe for concurrent use; mutations and their
// persistence run under one lock so the store sees them in order.
type AdminRegistry struct {
	mu    sync.RWMutex
	ids   []int64
	store ports.AdminStore
	log   zerolog.Logger
}

// NewAdminRegistry seeds the registry from the store. When the store has
// nothing saved, defaults are used and written back.
func NewAdminRegistry(
	ctx context.Context,
	store ports.AdminStore,
	defaults []int64,
	baseLogger *zerolog.Logger,
) (*AdminRegistry, error) {
	r := &AdminRegistry{
		store: store,
		log:   baseLogger.With().Str("component", "admin_registry").Logger(),
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		// Same as the store being empty: fall back to defaults, but say so.
		r.log.Error().Err(err).Msg("Failed to load admin list, using defaults")
	}

	ids := dedupe(loaded)
	seeded := false
	if len(ids) == 0 {
		ids = dedupe(defaults)
		seeded = true
	}
	if len(ids) == 0 {
		return nil, errors.New("admin registry would start empty: no saved or default admin ids")
	}
	r.ids = ids

	if seeded && err == nil {
		if err := store.Save(ctx, r.snapshot()); err != nil {
			r.log.Warn().Err(err).Msg("Failed to save default admin list")
		}
	}

	r.log.Info().Int("count", len(r.ids)).Ints64("admin_ids", r.ids).Bool("seeded", seeded).Msg("Admin registry ready")
	return r, nil
}

// List returns the current members in insertion order.
func (r *AdminRegistry) List() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

// Contains reports whether id is an administrator.
func (r *AdminRegistry) Contains(id int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.ids, id)
}

// Len returns the number of administrators.
func (r *AdminRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}

// Add appends id and returns the result with the member count seen under
// the same lock. The returned error is only ever a persistence failure;
// the result is valid either way.
func (r *AdminRegistry) Add(ctx context.Context, id int64) (domain.AddResult, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.ids, id) {
		return domain.AdminAlreadyMember, len(r.ids), nil
	}
	r.ids = append(r.ids, id)
	r.log.Info().Int64("admin_id", id).Int("count", len(r.ids)).Msg("Administrator added")

	return domain.AdminAdded, len(r.ids), r.persistLocked(ctx)
}

// Remove deletes id on behalf of actor.
//
// Checks run in this order: NotFound, CannotRemoveSelf, CannotRemoveLast.
// A single admin removing themself therefore gets CannotRemoveSelf.
// The count is the member count after the call.
func (r *AdminRegistry) Remove(ctx context.Context, id, actor int64) (domain.RemoveResult, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.Index(r.ids, id)
	switch {
	case idx < 0:
		return domain.AdminNotFound, len(r.ids), nil
	case id == actor:
		return domain.AdminCannotRemoveSelf, len(r.ids), nil
	case len(r.ids) <= 1:
		return domain.AdminCannotRemoveLast, len(r.ids), nil
	}

	r.ids = slices.Delete(r.ids, idx, idx+1)
	r.log.Info().Int64("admin_id", id).Int64("actor_id", actor).Int("count", len(r.ids)).Msg("Administrator removed")

	return domain.AdminRemoved, len(r.ids), r.persistLocked(ctx)
}

// persistLocked saves the current snapshot. The in-memory change is kept
// even if saving fails.
func (r *AdminRegistry) persistLocked(ctx context.Context) error {
	if err := r.store.Save(ctx, r.snapshot()); err != nil {
		r.log.Error().Err(err).Msg("Failed to persist admin list")
		return fmt.Errorf("%w: %v", domain.ErrPersistenceFailure, err)
	}
	return nil
}

func (r *AdminRegistry) snapshot() []int64 {
	return slices.Clone(r.ids)
}

func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
