package services

import (
	"checkinboard/internal/models"
	"checkinboard/internal/testutil"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAPI struct {
	stats    *models.ScheduleStats
	pages    map[int]*models.UserListResponse
	detail   *models.UserDetail
	day      *models.DayDetail
	search   *models.SearchResponse
	threads  *models.ThreadListResponse
	err      error
	gotPages []int
	gotQuery models.UserQueryParams
}

func (m *mockAPI) GetStats(_ context.Context, _ string) (*models.ScheduleStats, error) {
	return m.stats, m.err
}

func (m *mockAPI) GetUsers(_ context.Context, _ string, params models.UserQueryParams) (*models.UserListResponse, error) {
	m.gotPages = append(m.gotPages, params.Page)
	m.gotQuery = params
	if m.err != nil {
		return nil, m.err
	}
	return m.pages[params.Page], nil
}

func (m *mockAPI) GetUserDetail(_ context.Context, _, _ string) (*models.UserDetail, error) {
	return m.detail, m.err
}

func (m *mockAPI) GetDayDetail(_ context.Context, _, _ string) (*models.DayDetail, error) {
	return m.day, m.err
}

func (m *mockAPI) SearchUsers(_ context.Context, _, _ string, _ int) (*models.SearchResponse, error) {
	return m.search, m.err
}

func (m *mockAPI) GetThreads(_ context.Context, _ string) (*models.ThreadListResponse, error) {
	return m.threads, m.err
}

func page(n int, hasNext bool, ids ...string) *models.UserListResponse {
	resp := &models.UserListResponse{
		Pagination: models.Pagination{CurrentPage: n, HasNextPage: hasNext, HasPrevPage: n > 1},
	}
	for _, id := range ids {
		resp.Users = append(resp.Users, models.UserCheckinItem{DiscordUserID: id})
	}
	return resp
}

func userIDs(users []models.UserCheckinItem) []string {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.DiscordUserID)
	}
	return ids
}

func TestCheckinService_InitialState(t *testing.T) {
	svc := NewCheckinService(&mockAPI{}, &testutil.MockLogger{})
	st := svc.State()

	assert.Empty(t, st.Users)
	assert.NotNil(t, st.Users)
	assert.Nil(t, st.Pagination)
	assert.Nil(t, st.Error)
	assert.False(t, st.IsLoading)
	assert.False(t, svc.HasUsers())
	assert.False(t, svc.HasMorePages())
}

func TestCheckinService_FetchScheduleStats(t *testing.T) {
	api := &mockAPI{stats: &models.ScheduleStats{ScheduleID: "s1", TotalCheckins: 9}}
	svc := NewCheckinService(api, &testutil.MockLogger{})

	stats, err := svc.FetchScheduleStats(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 9, stats.TotalCheckins)
	assert.Equal(t, "s1", svc.State().ScheduleStats.ScheduleID)
	assert.False(t, svc.IsLoading())
}

func TestCheckinService_FetchUsersAndMore(t *testing.T) {
	api := &mockAPI{pages: map[int]*models.UserListResponse{
		1: page(1, true, "a", "b"),
		2: page(2, true, "c"),
		3: page(3, false, "d"),
	}}
	svc := NewCheckinService(api, &testutil.MockLogger{})
	ctx := context.Background()

	_, err := svc.FetchUsers(ctx, "s1", models.UserQueryParams{Page: 1, Limit: 2, Search: "x"})
	require.NoError(t, err)
	assert.True(t, svc.HasUsers())
	assert.True(t, svc.HasMorePages())

	_, err = svc.FetchMoreUsers(ctx, "s1", models.UserQueryParams{Limit: 2, Search: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", api.gotQuery.Search)
	_, err = svc.FetchMoreUsers(ctx, "s1", models.UserQueryParams{Limit: 2})
	require.NoError(t, err)

	st := svc.State()
	assert.Equal(t, []string{"a", "b", "c", "d"}, userIDs(st.Users))
	assert.Equal(t, 3, st.Pagination.CurrentPage)
	assert.False(t, svc.HasMorePages())

	resp, err := svc.FetchMoreUsers(ctx, "s1", models.UserQueryParams{})
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, []int{1, 2, 3}, api.gotPages)
}

func TestCheckinService_FetchMoreUsers_WithoutPagination(t *testing.T) {
	api := &mockAPI{}
	svc := NewCheckinService(api, &testutil.MockLogger{})

	resp, err := svc.FetchMoreUsers(context.Background(), "s1", models.UserQueryParams{})
	assert.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, api.gotPages)
}

func TestCheckinService_FetchUsersReplacesList(t *testing.T) {
	api := &mockAPI{pages: map[int]*models.UserListResponse{1: page(1, false, "a")}}
	svc := NewCheckinService(api, &testutil.MockLogger{})

	_, _ = svc.FetchUsers(context.Background(), "s1", models.UserQueryParams{Page: 1})
	_, _ = svc.FetchUsers(context.Background(), "s1", models.UserQueryParams{Page: 1})

	assert.Equal(t, []string{"a"}, userIDs(svc.State().Users))
}

func TestCheckinService_ErrorIsRecordedAndReturned(t *testing.T) {
	boom := errors.New("upstream down")
	logger := &testutil.MockLogger{}
	svc := NewCheckinService(&mockAPI{err: boom}, logger)

	_, err := svc.FetchUserDetail(context.Background(), "s1", "u1")
	assert.ErrorIs(t, err, boom)

	st := svc.State()
	require.NotNil(t, st.Error)
	assert.Equal(t, "upstream down", *st.Error)
	assert.False(t, st.IsLoading)
	assert.Equal(t, 1, logger.Count("warn"))

	svc.ClearError()
	assert.Nil(t, svc.State().Error)
}

func TestCheckinService_SuccessClearsPreviousError(t *testing.T) {
	api := &mockAPI{err: errors.New("x")}
	svc := NewCheckinService(api, &testutil.MockLogger{})
	_, _ = svc.FetchDayDetail(context.Background(), "s1", "D1")
	require.NotNil(t, svc.State().Error)

	api.err = nil
	api.day = &models.DayDetail{DayLabel: "D1"}
	_, err := svc.FetchDayDetail(context.Background(), "s1", "D1")
	require.NoError(t, err)

	st := svc.State()
	assert.Nil(t, st.Error)
	assert.Equal(t, "D1", st.CurrentDayDetail.DayLabel)
}

func TestCheckinService_SearchAndClear(t *testing.T) {
	api := &mockAPI{search: &models.SearchResponse{
		Results: []models.SearchResult{{DiscordUserID: "u1"}},
		Query:   "u",
		Count:   1,
	}}
	svc := NewCheckinService(api, &testutil.MockLogger{})

	resp, err := svc.SearchUsers(context.Background(), "s1", "u", 10)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
	assert.Len(t, svc.State().SearchResults, 1)

	svc.ClearSearchResults()
	assert.Empty(t, svc.State().SearchResults)
}

func TestCheckinService_Reset(t *testing.T) {
	api := &mockAPI{
		stats:  &models.ScheduleStats{ScheduleID: "s1"},
		detail: &models.UserDetail{DiscordUserID: "u1"},
		pages:  map[int]*models.UserListResponse{1: page(1, true, "a")},
	}
	svc := NewCheckinService(api, &testutil.MockLogger{})
	ctx := context.Background()
	_, _ = svc.FetchScheduleStats(ctx, "s1")
	_, _ = svc.FetchUserDetail(ctx, "s1", "u1")
	_, _ = svc.FetchUsers(ctx, "s1", models.UserQueryParams{Page: 1})

	svc.Reset()

	st := svc.State()
	assert.Nil(t, st.ScheduleStats)
	assert.Nil(t, st.CurrentUser)
	assert.Nil(t, st.Pagination)
	assert.Empty(t, st.Users)
	assert.False(t, st.HasMorePages)
}

func TestCheckinService_FetchThreadsLeavesState(t *testing.T) {
	api := &mockAPI{threads: &models.ThreadListResponse{Count: 2}}
	svc := NewCheckinService(api, &testutil.MockLogger{})

	resp, err := svc.FetchThreads(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Count)
	assert.Nil(t, svc.State().Error)
}
