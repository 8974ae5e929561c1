// Package pinned keeps the per-schedule list of pinned users and the
// hydrated summaries shown for them.
package pinned

import (
	"checkinboard/internal/models"
	"checkinboard/internal/providers"
	"context"
	"fmt"
	"slices"
	"sync"

	json "github.com/goccy/go-json"
	"go.uber.org/atomic"
)

const (
	// StorageKey is the storage record holding the registry.
	StorageKey = "pinned-users"

	// MaxPinned is the most users one schedule can pin.
	MaxPinned = 5
)

// UserDetailFetcher loads one user's full check-in record.
type UserDetailFetcher interface {
	GetUserDetail(ctx context.Context, scheduleID, userID string) (*models.UserDetail, error)
}

// KeyValueStorage persists string records under fixed keys.
type KeyValueStorage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Registry maps a schedule id to its pinned user ids in pin order.
type Registry map[string][]string

// Store owns the pin registry of every schedule and the summaries loaded
// for pinned users. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	registry Registry
	cache    *SummaryCache
	storage  KeyValueStorage
	fetcher  UserDetailFetcher
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	loading  atomic.Int32
}

func NewStore(storage KeyValueStorage, fetcher UserDetailFetcher, cache *SummaryCache, logger providers.Logger, metrics providers.MetricsProviderInterface) *Store {
	s := &Store{
		cache:   cache,
		storage: storage,
		fetcher: fetcher,
		logger:  logger,
		metrics: metrics,
	}
	s.registry = s.load()
	for scheduleID, ids := range s.registry {
		metrics.SetPinnedTotal(scheduleID, len(ids))
	}
	return s
}

// load never fails: a missing or unreadable record is an empty registry.
// Duplicates and entries beyond MaxPinned are dropped.
func (s *Store) load() Registry {
	raw, ok := s.storage.Get(StorageKey)
	if !ok || raw == "" {
		return make(Registry)
	}
	var stored Registry
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warnf(providers.TypePinned, "Corrupt pinned registry, starting empty: %s", err)
		return make(Registry)
	}

	registry := make(Registry, len(stored))
	for scheduleID, ids := range stored {
		clean := make([]string, 0, min(len(ids), MaxPinned))
		for _, id := range ids {
			if len(clean) == MaxPinned {
				break
			}
			if !slices.Contains(clean, id) {
				clean = append(clean, id)
			}
		}
		registry[scheduleID] = clean
	}
	return registry
}

// persist must be called with mu held.
func (s *Store) persist() error {
	data, err := json.Marshal(s.registry)
	if err != nil {
		return fmt.Errorf("encode pinned registry: %w", err)
	}
	if err := s.storage.Set(StorageKey, string(data)); err != nil {
		s.logger.Errorf(providers.TypePinned, "Unable to persist pinned registry: %s", err)
		return fmt.Errorf("persist pinned registry: %w", err)
	}
	return nil
}

func (s *Store) GetPinnedIds(scheduleID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids, ok := s.registry[scheduleID]
	if !ok {
		return []string{}
	}
	return slices.Clone(ids)
}

func (s *Store) IsPinned(scheduleID, userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.registry[scheduleID], userID)
}

func (s *Store) GetPinnedCount(scheduleID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry[scheduleID])
}

func (s *Store) CanPin(scheduleID string) bool {
	return s.GetPinnedCount(scheduleID) < MaxPinned
}

// GetPinnedUserList returns the loaded summaries in pin order. Users that
// have not been hydrated yet are left out.
func (s *Store) GetPinnedUserList(scheduleID string) []models.UserCheckinItem {
	ids := s.GetPinnedIds(scheduleID)
	users := make([]models.UserCheckinItem, 0, len(ids))
	for _, id := range ids {
		if item, ok := s.cache.Get(id); ok {
			users = append(users, item)
		}
	}
	return users
}

// PinUser reports false only when the schedule is full. Pinning an already
// pinned user succeeds without changes. A non-nil error means the registry
// changed in memory but could not be written.
func (s *Store) PinUser(scheduleID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pinLocked(scheduleID, userID)
}

func (s *Store) pinLocked(scheduleID, userID string) (bool, error) {
	ids := s.registry[scheduleID]
	if slices.Contains(ids, userID) {
		return true, nil
	}
	if len(ids) >= MaxPinned {
		return false, nil
	}
	s.registry[scheduleID] = append(ids, userID)
	s.metrics.SetPinnedTotal(scheduleID, len(ids)+1)
	return true, s.persist()
}

// UnpinUser removes the user from the schedule and drops its summary from
// the cache, which is shared by all schedules.
func (s *Store) UnpinUser(scheduleID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unpinLocked(scheduleID, userID)
}

func (s *Store) unpinLocked(scheduleID, userID string) error {
	ids, ok := s.registry[scheduleID]
	if !ok {
		return nil
	}
	idx := slices.Index(ids, userID)
	if idx == -1 {
		return nil
	}
	s.registry[scheduleID] = slices.Delete(ids, idx, idx+1)
	s.cache.Del(userID)
	s.metrics.SetPinnedTotal(scheduleID, len(ids)-1)
	return s.persist()
}

// TogglePin unpins a pinned user and pins any other, reporting whether the
// user ends up pinned.
func (s *Store) TogglePin(scheduleID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.registry[scheduleID], userID) {
		return false, s.unpinLocked(scheduleID, userID)
	}
	return s.pinLocked(scheduleID, userID)
}

// ClearPinned drops the schedule's entry. It empties the whole summary
// cache, including summaries of users pinned under other schedules; those
// come back on their next hydration.
func (s *Store) ClearPinned(scheduleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.registry, scheduleID)
	s.cache.Clear()
	s.metrics.SetPinnedTotal(scheduleID, 0)
	return s.persist()
}

// FetchPinnedUsers loads the detail of every user pinned for the schedule in
// parallel. A user whose detail cannot be fetched is unpinned. The batch is
// not cancelled with ctx; it always runs to completion.
func (s *Store) FetchPinnedUsers(ctx context.Context, scheduleID string) {
	ids := s.GetPinnedIds(scheduleID)
	if len(ids) == 0 {
		return
	}

	s.loading.Inc()
	defer s.loading.Dec()

	ctx = context.WithoutCancel(ctx)
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Go(func() {
			s.hydrate(ctx, scheduleID, id)
		})
	}
	wg.Wait()
}

func (s *Store) hydrate(ctx context.Context, scheduleID, userID string) {
	detail, err := s.fetcher.GetUserDetail(ctx, scheduleID, userID)
	if err != nil {
		s.metrics.IncHydrations(providers.HydrationFailed)
		s.logger.Warnf(providers.TypePinned, "Failed to fetch pinned user %s of schedule %s, unpinning: %s", userID, scheduleID, err)
		_ = s.UnpinUser(scheduleID, userID)
		return
	}
	s.metrics.IncHydrations(providers.HydrationOK)

	s.mu.Lock()
	defer s.mu.Unlock()
	// the user may have been unpinned while the request was in flight
	if !s.pinnedAnywhere(userID) {
		return
	}
	if err := s.cache.Set(userID, detail.Summary()); err != nil {
		s.logger.Warnf(providers.TypePinned, "Unable to cache pinned user %s: %s", userID, err)
	}
}

func (s *Store) pinnedAnywhere(userID string) bool {
	for _, ids := range s.registry {
		if slices.Contains(ids, userID) {
			return true
		}
	}
	return false
}

// IsLoadingPinned reports whether any hydration batch is in flight.
func (s *Store) IsLoadingPinned() bool {
	return s.loading.Load() > 0
}

// Registry returns a copy of every schedule's pinned ids.
func (s *Store) Registry() Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Registry, len(s.registry))
	for scheduleID, ids := range s.registry {
		out[scheduleID] = slices.Clone(ids)
	}
	return out
}

// ScheduleIDs lists the schedules that currently have pinned users.
func (s *Store) ScheduleIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.registry))
	for scheduleID, ids := range s.registry {
		if len(ids) > 0 {
			out = append(out, scheduleID)
		}
	}
	slices.Sort(out)
	return out
}

func (s *Store) CachedCount() int {
	return s.cache.Len()
}
