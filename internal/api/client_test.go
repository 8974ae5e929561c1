package api

import (
	"checkinboard/internal/models"
	"checkinboard/internal/providers"
	"checkinboard/internal/structures"
	"checkinboard/internal/testutil"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache                      { return &memCache{data: make(map[string][]byte)} }
func (m *memCache) Get(key string) ([]byte, bool) { v, ok := m.data[key]; return v, ok }
func (m *memCache) Set(key string, value []byte)  { m.data[key] = value }
func (m *memCache) Del(key string)                { delete(m.data, key) }
func (m *memCache) Clear()                        { m.data = make(map[string][]byte) }

func newTestClient(t *testing.T, handler http.HandlerFunc, cache providers.CacheProviderInterface) (*Client, *testutil.MockMetrics) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := &structures.Config{
		Api: structures.ApiConfig{BaseURL: srv.URL + "/", Timeout: 2 * time.Second},
	}
	metrics := &testutil.MockMetrics{}
	return NewClient(conf, cache, &testutil.MockLogger{}, metrics), metrics
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_GetUserDetail(t *testing.T) {
	var gotPath string
	c, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, `{"success":true,"data":{
			"discordUserId":"42","username":"ann","displayName":"Ann","avatarUrl":null,"totalCheckinDays":1,
			"checkinDetails":[
				{"dayLabel":"D1","dayNumber":1,"date":"2024-01-01","checkedIn":true,"checkinTime":"2024-01-01T08:00:00Z","messageId":"m1","threadId":"t1","threadTitle":"Day 1","threadUrl":"https://x/t1"},
				{"dayLabel":"D2","dayNumber":2,"date":"2024-01-02","checkedIn":false,"checkinTime":null,"messageId":null,"threadId":"t2","threadTitle":"Day 2","threadUrl":"https://x/t2"}
			]}}`)
	}, newMemCache())

	detail, err := c.GetUserDetail(context.Background(), "sched-1", "42")
	require.NoError(t, err)

	assert.Equal(t, "/api/checkin/sched-1/users/42", gotPath)
	assert.Equal(t, "42", detail.DiscordUserID)
	assert.Nil(t, detail.AvatarURL)
	require.Len(t, detail.CheckinDetails, 2)
	require.NotNil(t, detail.CheckinDetails[0].CheckinTime)
	assert.Nil(t, detail.CheckinDetails[1].MessageID)
	assert.Equal(t, map[string]bool{"D1": true, "D2": false}, detail.Summary().CheckinStatus)
	assert.Equal(t, []string{"user"}, metrics.Upstream)
}

func TestClient_GetUsers_Query(t *testing.T) {
	var gotQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"users":[{"discordUserId":"1","checkinStatus":{"D1":true}}],
			"pagination":{"currentPage":2,"totalPages":3,"totalCount":25,"limit":10,"hasNextPage":true,"hasPrevPage":true}}}`)
	}, newMemCache())

	resp, err := c.GetUsers(context.Background(), "s1", models.UserQueryParams{Page: 2, Limit: 10, Search: "an n"})
	require.NoError(t, err)

	assert.Equal(t, "limit=10&page=2&search=an+n", gotQuery)
	require.Len(t, resp.Users, 1)
	assert.True(t, resp.Users[0].CheckinStatus["D1"])
	assert.True(t, resp.Pagination.HasNextPage)
}

func TestClient_GetUsers_NoQuery(t *testing.T) {
	var gotURI string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"users":[],"pagination":{}}}`)
	}, newMemCache())

	_, err := c.GetUsers(context.Background(), "s1", models.UserQueryParams{})
	require.NoError(t, err)
	assert.Equal(t, "/api/checkin/s1/users", gotURI)
}

func TestClient_SearchUsers(t *testing.T) {
	var gotURI string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotURI = r.URL.RequestURI()
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"results":[{"discordUserId":"7","totalCheckinDays":3}],"query":"bo","count":1}}`)
	}, newMemCache())

	resp, err := c.SearchUsers(context.Background(), "s1", "bo", 5)
	require.NoError(t, err)
	assert.Equal(t, "/api/checkin/s1/search?limit=5&q=bo", gotURI)
	assert.Equal(t, 1, resp.Count)
}

func TestClient_OtherEndpoints(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/checkin/s1/stats":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"scheduleId":"s1","progress":0.5,"checkinMode":"extended","extendedHours":4}}`)
		case "/api/checkin/s1/days/Day%201", "/api/checkin/s1/days/Day 1":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"dayLabel":"Day 1","checkinCount":2}}`)
		case "/api/checkin/s1/threads":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"threads":[{"threadId":"t1"}],"count":1}}`)
		default:
			writeJSON(w, http.StatusNotFound, `{"success":false}`)
		}
	}, newMemCache())
	ctx := context.Background()

	stats, err := c.GetStats(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, models.CheckinModeExtended, stats.CheckinMode)
	require.NotNil(t, stats.ExtendedHours)
	assert.Equal(t, 4, *stats.ExtendedHours)

	day, err := c.GetDayDetail(ctx, "s1", "Day 1")
	require.NoError(t, err)
	assert.Equal(t, 2, day.CheckinCount)

	threads, err := c.GetThreads(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, threads.Count)
}

func TestClient_APIErrorMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"success":false,"error":{"code":"USER_NOT_FOUND","message":"no such user"}}`)
	}, newMemCache())

	_, err := c.GetUserDetail(context.Background(), "s1", "x")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "USER_NOT_FOUND", apiErr.Code)
	assert.Equal(t, "no such user", err.Error())
}

func TestClient_APIErrorWithoutMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"success":false}`)
	}, newMemCache())

	_, err := c.GetStats(context.Background(), "s1")
	require.Error(t, err)
	assert.Equal(t, "HTTP 500", err.Error())
}

func TestClient_NonJSONResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}, newMemCache())

	_, err := c.GetStats(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrUnexpectedContentType)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	conf := &structures.Config{Api: structures.ApiConfig{BaseURL: srv.URL, Timeout: time.Second}}
	c := NewClient(conf, newMemCache(), &testutil.MockLogger{}, &testutil.MockMetrics{})

	_, err := c.GetStats(context.Background(), "s1")
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestClient_CachesSuccessfulResponses(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"threads":[],"count":0}}`)
	}, newMemCache())

	for range 3 {
		_, err := c.GetThreads(context.Background(), "s1")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_DoesNotCacheErrors(t *testing.T) {
	var calls atomic.Int32
	cache := newMemCache()
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusBadGateway, `{"success":false}`)
	}, cache)

	_, err := c.GetThreads(context.Background(), "s1")
	require.Error(t, err)
	_, err = c.GetThreads(context.Background(), "s1")
	require.Error(t, err)

	assert.Equal(t, int32(2), calls.Load())
	assert.Empty(t, cache.data)
}

func TestClient_NullDataIsAnError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"null data", `{"success":true,"data":null}`},
		{"missing data", `{"success":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newMemCache()
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, tt.body)
			}, cache)

			detail, err := c.GetUserDetail(context.Background(), "s1", "gone")
			assert.Nil(t, detail)
			assert.True(t, errors.Is(err, ErrEmptyData))
			assert.Empty(t, cache.data)
		})
	}
}

func TestLiveFetcher_SkipsCachedAnswer(t *testing.T) {
	var calls atomic.Int32
	cache := newMemCache()
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"discordUserId":"42","username":"ann"}}`)
			return
		}
		writeJSON(w, http.StatusNotFound, `{"success":false,"error":{"code":"NOT_FOUND","message":"user not found"}}`)
	}, cache)

	_, err := c.GetUserDetail(context.Background(), "s1", "42")
	require.NoError(t, err)
	require.Len(t, cache.data, 1)

	_, err = NewLiveFetcher(c).GetUserDetail(context.Background(), "s1", "42")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, int32(2), calls.Load())
	assert.Empty(t, cache.data)
}

func TestLiveFetcher_RefreshesCache(t *testing.T) {
	var calls atomic.Int32
	cache := newMemCache()
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"discordUserId":"42","username":"ann"}}`)
	}, cache)

	detail, err := NewLiveFetcher(c).GetUserDetail(context.Background(), "s1", "42")
	require.NoError(t, err)
	assert.Equal(t, "ann", detail.Username)

	_, err = c.GetUserDetail(context.Background(), "s1", "42")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
