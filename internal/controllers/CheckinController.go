package controllers

import (
	"checkinboard/internal/models"
	"checkinboard/internal/providers"
	"checkinboard/internal/services"
	"context"
	"net/http"
	"strconv"
)

type DashboardServiceInterface interface {
	FetchScheduleStats(ctx context.Context, scheduleID string) (*models.ScheduleStats, error)
	FetchUsers(ctx context.Context, scheduleID string, params models.UserQueryParams) (*models.UserListResponse, error)
	FetchMoreUsers(ctx context.Context, scheduleID string, params models.UserQueryParams) (*models.UserListResponse, error)
	FetchUserDetail(ctx context.Context, scheduleID, userID string) (*models.UserDetail, error)
	FetchDayDetail(ctx context.Context, scheduleID, dayLabel string) (*models.DayDetail, error)
	SearchUsers(ctx context.Context, scheduleID, q string, limit int) (*models.SearchResponse, error)
	FetchThreads(ctx context.Context, scheduleID string) (*models.ThreadListResponse, error)
	ClearError()
	ClearSearchResults()
	Reset()
	State() services.DashboardState
}

type CheckinController struct {
	logger  providers.Logger
	service DashboardServiceInterface
}

func NewCheckinController(logger providers.Logger, service DashboardServiceInterface) *CheckinController {
	return &CheckinController{logger: logger, service: service}
}

// positiveInt reads an optional positive integer query parameter.
func positiveInt(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func userQuery(w http.ResponseWriter, r *http.Request) (models.UserQueryParams, bool) {
	page, ok := positiveInt(r, "page")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_PAGE", "page must be a positive integer")
		return models.UserQueryParams{}, false
	}
	limit, ok := positiveInt(r, "limit")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
		return models.UserQueryParams{}, false
	}
	return models.UserQueryParams{Page: page, Limit: limit, Search: r.URL.Query().Get("search")}, true
}

func (cc *CheckinController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := cc.service.FetchScheduleStats(r.Context(), r.PathValue("scheduleId"))
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (cc *CheckinController) Users(w http.ResponseWriter, r *http.Request) {
	params, ok := userQuery(w, r)
	if !ok {
		return
	}
	resp, err := cc.service.FetchUsers(r.Context(), r.PathValue("scheduleId"), params)
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type usersStateResponse struct {
	Users        []models.UserCheckinItem `json:"users"`
	Pagination   *models.Pagination       `json:"pagination"`
	HasMorePages bool                     `json:"hasMorePages"`
}

// MoreUsers appends the next page and answers with the accumulated list.
func (cc *CheckinController) MoreUsers(w http.ResponseWriter, r *http.Request) {
	params, ok := userQuery(w, r)
	if !ok {
		return
	}
	if _, err := cc.service.FetchMoreUsers(r.Context(), r.PathValue("scheduleId"), params); err != nil {
		cc.fail(w, r, err)
		return
	}
	st := cc.service.State()
	writeJSON(w, http.StatusOK, usersStateResponse{Users: st.Users, Pagination: st.Pagination, HasMorePages: st.HasMorePages})
}

func (cc *CheckinController) UserDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := cc.service.FetchUserDetail(r.Context(), r.PathValue("scheduleId"), r.PathValue("userId"))
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (cc *CheckinController) DayDetail(w http.ResponseWriter, r *http.Request) {
	day, err := cc.service.FetchDayDetail(r.Context(), r.PathValue("scheduleId"), r.PathValue("dayLabel"))
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (cc *CheckinController) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUERY", "q is required")
		return
	}
	limit, ok := positiveInt(r, "limit")
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer")
		return
	}
	resp, err := cc.service.SearchUsers(r.Context(), r.PathValue("scheduleId"), q, limit)
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (cc *CheckinController) Threads(w http.ResponseWriter, r *http.Request) {
	resp, err := cc.service.FetchThreads(r.Context(), r.PathValue("scheduleId"))
	if err != nil {
		cc.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (cc *CheckinController) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cc.service.State())
}

func (cc *CheckinController) ResetState(w http.ResponseWriter, r *http.Request) {
	cc.service.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (cc *CheckinController) ClearError(w http.ResponseWriter, r *http.Request) {
	cc.service.ClearError()
	w.WriteHeader(http.StatusNoContent)
}

func (cc *CheckinController) ClearSearch(w http.ResponseWriter, r *http.Request) {
	cc.service.ClearSearchResults()
	w.WriteHeader(http.StatusNoContent)
}

func (cc *CheckinController) fail(w http.ResponseWriter, r *http.Request, err error) {
	cc.logger.Warnf(providers.TypeApi, "%s %s failed: %s", r.Method, r.URL.Path, err)
	writeUpstreamError(w, err)
}
