// Package scheduler keeps pinned users fresh in the background.
package scheduler

import (
	"checkinboard/internal/providers"
	"checkinboard/internal/scheduler/interfaces"
	"checkinboard/internal/structures"
	"context"
	"sync"

	"github.com/roylee0704/gron"
)

// PinnedRefresher is the part of the pinned store the refresh job drives.
type PinnedRefresher interface {
	ScheduleIDs() []string
	FetchPinnedUsers(ctx context.Context, scheduleID string)
}

type Scheduler struct {
	config *structures.Config
	logger providers.Logger
	pins   PinnedRefresher
	cron   *gron.Cron
	opsMu  sync.Mutex
}

// Init starts the refresh job. A zero refresh interval leaves it off.
func (s *Scheduler) Init() {
	interval := s.config.Pinned.RefreshInterval
	if interval <= 0 {
		s.logger.Infof(providers.TypeApp, "Pinned refresh disabled")
		return
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(interval), s.Refresh)
	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Pinned refresh every %s", interval)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Refresh re-hydrates every schedule that has pinned users, one schedule at
// a time. Overlapping runs are serialized.
func (s *Scheduler) Refresh() {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	schedules := s.pins.ScheduleIDs()
	if len(schedules) == 0 {
		return
	}
	s.logger.Debugf(providers.TypePinned, "Refreshing pinned users of %d schedules", len(schedules))
	for _, id := range schedules {
		s.pins.FetchPinnedUsers(context.Background(), id)
	}
	s.logger.Debugf(providers.TypePinned, "Pinned users refreshed")
}

func NewScheduler(config *structures.Config, logger providers.Logger, pins PinnedRefresher) interfaces.SchedulerInterface {
	return &Scheduler{
		config: config,
		logger: logger,
		pins:   pins,
	}
}
