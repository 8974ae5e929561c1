package services

import (
	"checkinboard/internal/models"
	"checkinboard/internal/providers"
	"context"
	"slices"
	"sync"
)

// CheckinAPI is the part of the check-in API the dashboard reads.
type CheckinAPI interface {
	GetStats(ctx context.Context, scheduleID string) (*models.ScheduleStats, error)
	GetUsers(ctx context.Context, scheduleID string, params models.UserQueryParams) (*models.UserListResponse, error)
	GetUserDetail(ctx context.Context, scheduleID, userID string) (*models.UserDetail, error)
	GetDayDetail(ctx context.Context, scheduleID, dayLabel string) (*models.DayDetail, error)
	SearchUsers(ctx context.Context, scheduleID, q string, limit int) (*models.SearchResponse, error)
	GetThreads(ctx context.Context, scheduleID string) (*models.ThreadListResponse, error)
}

const (
	msgStatsFailed     = "Failed to load schedule statistics"
	msgUsersFailed     = "Failed to load user list"
	msgMoreUsersFailed = "Failed to load more users"
	msgUserFailed      = "Failed to load user detail"
	msgDayFailed       = "Failed to load day detail"
	msgSearchFailed    = "Failed to search users"
	msgThreadsFailed   = "Failed to load threads"
)

// DashboardState is what the dashboard views render.
type DashboardState struct {
	ScheduleStats    *models.ScheduleStats    `json:"scheduleStats"`
	Users            []models.UserCheckinItem `json:"users"`
	CurrentUser      *models.UserDetail       `json:"currentUser"`
	CurrentDayDetail *models.DayDetail        `json:"currentDayDetail"`
	Pagination       *models.Pagination       `json:"pagination"`
	SearchResults    []models.SearchResult    `json:"searchResults"`
	IsLoading        bool                     `json:"isLoading"`
	Error            *string                  `json:"error"`
	HasUsers         bool                     `json:"hasUsers"`
	HasMorePages     bool                     `json:"hasMorePages"`
}

type CheckinService struct {
	mu      sync.RWMutex
	api     CheckinAPI
	logger  providers.Logger
	state   DashboardState
	loading int
}

func NewCheckinService(api CheckinAPI, logger providers.Logger) *CheckinService {
	s := &CheckinService{api: api, logger: logger}
	s.resetLocked()
	return s
}

func (s *CheckinService) resetLocked() {
	s.state = DashboardState{
		Users:         []models.UserCheckinItem{},
		SearchResults: []models.SearchResult{},
	}
	s.loading = 0
}

// begin marks a request in flight and clears the last error.
func (s *CheckinService) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading++
	s.state.Error = nil
}

// finish records err, if any, and returns it unchanged.
func (s *CheckinService) finish(err error, fallback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading > 0 {
		s.loading--
	}
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = fallback
		}
		s.state.Error = &msg
		s.logger.Warnf(providers.TypeApi, "%s: %s", fallback, err)
	}
	return err
}

func (s *CheckinService) FetchScheduleStats(ctx context.Context, scheduleID string) (*models.ScheduleStats, error) {
	s.begin()
	stats, err := s.api.GetStats(ctx, scheduleID)
	if err == nil {
		s.mu.Lock()
		s.state.ScheduleStats = stats
		s.mu.Unlock()
	}
	return stats, s.finish(err, msgStatsFailed)
}

// FetchUsers replaces the user list with the requested page.
func (s *CheckinService) FetchUsers(ctx context.Context, scheduleID string, params models.UserQueryParams) (*models.UserListResponse, error) {
	s.begin()
	resp, err := s.api.GetUsers(ctx, scheduleID, params)
	if err == nil {
		s.mu.Lock()
		s.state.Users = slices.Clone(resp.Users)
		if s.state.Users == nil {
			s.state.Users = []models.UserCheckinItem{}
		}
		pagination := resp.Pagination
		s.state.Pagination = &pagination
		s.mu.Unlock()
	}
	return resp, s.finish(err, msgUsersFailed)
}

// FetchMoreUsers appends the page after the current one. Without a next
// page it does nothing and returns nil.
func (s *CheckinService) FetchMoreUsers(ctx context.Context, scheduleID string, params models.UserQueryParams) (*models.UserListResponse, error) {
	s.mu.RLock()
	pagination := s.state.Pagination
	s.mu.RUnlock()
	if pagination == nil || !pagination.HasNextPage {
		return nil, nil
	}

	s.begin()
	params.Page = pagination.CurrentPage + 1
	resp, err := s.api.GetUsers(ctx, scheduleID, params)
	if err == nil {
		s.mu.Lock()
		s.state.Users = append(s.state.Users, resp.Users...)
		next := resp.Pagination
		s.state.Pagination = &next
		s.mu.Unlock()
	}
	return resp, s.finish(err, msgMoreUsersFailed)
}

func (s *CheckinService) FetchUserDetail(ctx context.Context, scheduleID, userID string) (*models.UserDetail, error) {
	s.begin()
	detail, err := s.api.GetUserDetail(ctx, scheduleID, userID)
	if err == nil {
		s.mu.Lock()
		s.state.CurrentUser = detail
		s.mu.Unlock()
	}
	return detail, s.finish(err, msgUserFailed)
}

func (s *CheckinService) FetchDayDetail(ctx context.Context, scheduleID, dayLabel string) (*models.DayDetail, error) {
	s.begin()
	day, err := s.api.GetDayDetail(ctx, scheduleID, dayLabel)
	if err == nil {
		s.mu.Lock()
		s.state.CurrentDayDetail = day
		s.mu.Unlock()
	}
	return day, s.finish(err, msgDayFailed)
}

func (s *CheckinService) SearchUsers(ctx context.Context, scheduleID, q string, limit int) (*models.SearchResponse, error) {
	s.begin()
	resp, err := s.api.SearchUsers(ctx, scheduleID, q, limit)
	if err == nil {
		s.mu.Lock()
		s.state.SearchResults = slices.Clone(resp.Results)
		if s.state.SearchResults == nil {
			s.state.SearchResults = []models.SearchResult{}
		}
		s.mu.Unlock()
	}
	return resp, s.finish(err, msgSearchFailed)
}

// FetchThreads does not touch the dashboard state.
func (s *CheckinService) FetchThreads(ctx context.Context, scheduleID string) (*models.ThreadListResponse, error) {
	resp, err := s.api.GetThreads(ctx, scheduleID)
	if err != nil {
		s.logger.Warnf(providers.TypeApi, "%s: %s", msgThreadsFailed, err)
	}
	return resp, err
}

func (s *CheckinService) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Error = nil
}

func (s *CheckinService) ClearSearchResults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SearchResults = []models.SearchResult{}
}

func (s *CheckinService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *CheckinService) HasUsers() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Users) > 0
}

func (s *CheckinService) HasMorePages() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Pagination != nil && s.state.Pagination.HasNextPage
}

func (s *CheckinService) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

// State returns a snapshot of the dashboard state.
func (s *CheckinService) State() DashboardState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Users = slices.Clone(s.state.Users)
	st.SearchResults = slices.Clone(s.state.SearchResults)
	st.IsLoading = s.loading > 0
	st.HasUsers = len(s.state.Users) > 0
	st.HasMorePages = s.state.Pagination != nil && s.state.Pagination.HasNextPage
	return st
}
