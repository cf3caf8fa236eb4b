// Package memory keeps journal data in process memory. It backs the CLI
// tests and short-lived tooling that has no database at hand.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/wealthlog-backend/internal/domain"
)

type snapshotKey struct {
	date  domain.Date
	class domain.InstrumentClass
}

type targetKey struct {
	class  domain.InstrumentClass
	period domain.Period
}

// Store holds snapshots, adjustments and targets behind one lock
type Store struct {
	mu          sync.RWMutex
	snapshots   map[snapshotKey]domain.Snapshot
	adjustments []domain.Adjustment
	targets     map[targetKey]domain.Target
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		snapshots: make(map[snapshotKey]domain.Snapshot),
		targets:   make(map[targetKey]domain.Target),
	}
}

// Snapshots returns the store as a domain.SnapshotRepository
func (s *Store) Snapshots() domain.SnapshotRepository { return snapshotRepository{s} }

// Adjustments returns the store as a domain.AdjustmentRepository
func (s *Store) Adjustments() domain.AdjustmentRepository { return adjustmentRepository{s} }

// Days returns the store as a domain.DayRepository
func (s *Store) Days() domain.DayRepository { return dayRepository{s} }

// Targets returns the store as a domain.TargetRepository
func (s *Store) Targets() domain.TargetRepository { return targetRepository{s} }

type snapshotRepository struct{ s *Store }

func (r snapshotRepository) Upsert(ctx context.Context, snapshot *domain.Snapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.upsertSnapshot(snapshot)
	return nil
}

// upsertSnapshot requires s.mu held for writing
func (s *Store) upsertSnapshot(snapshot *domain.Snapshot) {
	key := snapshotKey{snapshot.Date, snapshot.Class}
	if existing, ok := s.snapshots[key]; ok {
		snapshot.ID = existing.ID
	}
	s.snapshots[key] = *snapshot
}

func (r snapshotRepository) GetByKey(ctx context.Context, date domain.Date, class domain.InstrumentClass) (*domain.Snapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	snapshot, ok := r.s.snapshots[snapshotKey{date, class}]
	if !ok {
		return nil, fmt.Errorf("snapshot %s %s: %w", date, class, domain.ErrNotFound)
	}
	return &snapshot, nil
}

func (r snapshotRepository) List(ctx context.Context, class *domain.InstrumentClass) ([]domain.Snapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Snapshot{}
	for _, snapshot := range r.s.snapshots {
		if class == nil || snapshot.Class == *class {
			out = append(out, snapshot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].Class < out[j].Class
	})
	return out, nil
}

func (r snapshotRepository) Delete(ctx context.Context, date domain.Date, class domain.InstrumentClass) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := snapshotKey{date, class}
	if _, ok := r.s.snapshots[key]; !ok {
		return false, nil
	}
	delete(r.s.snapshots, key)
	return true, nil
}

type adjustmentRepository struct{ s *Store }

func (r adjustmentRepository) Replace(ctx context.Context, date domain.Date, class domain.InstrumentClass, adjustment *domain.Adjustment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.replaceAdjustments(date, class, adjustment)
	return nil
}

// replaceAdjustments requires s.mu held for writing
func (s *Store) replaceAdjustments(date domain.Date, class domain.InstrumentClass, adjustment *domain.Adjustment) {
	kept := s.adjustments[:0]
	for _, a := range s.adjustments {
		if a.Date != date || a.Class != class {
			kept = append(kept, a)
		}
	}
	s.adjustments = kept

	if adjustment != nil {
		s.adjustments = append(s.adjustments, *adjustment)
	}
}

func (r adjustmentRepository) List(ctx context.Context, class *domain.InstrumentClass) ([]domain.Adjustment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []domain.Adjustment{}
	for _, a := range r.s.adjustments {
		if class == nil || a.Class == *class {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r adjustmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, a := range r.s.adjustments {
		if a.ID == id {
			r.s.adjustments = append(r.s.adjustments[:i], r.s.adjustments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("adjustment %s: %w", id, domain.ErrNotFound)
}

type dayRepository struct{ s *Store }

func (r dayRepository) SaveDay(ctx context.Context, snapshot *domain.Snapshot, adjustment *domain.Adjustment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.upsertSnapshot(snapshot)
	r.s.replaceAdjustments(snapshot.Date, snapshot.Class, adjustment)
	return nil
}

type targetRepository struct{ s *Store }

func (r targetRepository) Upsert(ctx context.Context, target *domain.Target) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := targetKey{target.Class, target.Period}
	if existing, ok := r.s.targets[key]; ok {
		target.ID = existing.ID
	}
	r.s.targets[key] = *target
	return nil
}

func (r targetRepository) Get(ctx context.Context, class domain.InstrumentClass, period domain.Period) (*domain.Target, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	target, ok := r.s.targets[targetKey{class, period}]
	if !ok {
		return nil, fmt.Errorf("target %s %s: %w", class, period, domain.ErrNotFound)
	}
	return &target, nil
}

func (r targetRepository) List(ctx context.Context) ([]domain.Target, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]domain.Target, 0, len(r.s.targets))
	for _, t := range r.s.targets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Class != out[j].Class {
			return out[i].Class > out[j].Class
		}
		return out[i].Period < out[j].Period
	})
	return out, nil
}

func (r targetRepository) Delete(ctx context.Context, class domain.InstrumentClass, period domain.Period) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := targetKey{class, period}
	if _, ok := r.s.targets[key]; !ok {
		return fmt.Errorf("target %s %s: %w", class, period, domain.ErrNotFound)
	}
	delete(r.s.targets, key)
	return nil
}
