// Package api is the client of the remote check-in REST API.
package api

import (
	"bytes"
	"checkinboard/internal/models"
	"checkinboard/internal/providers"
	"checkinboard/internal/structures"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const maxResponseBodySize = 4 << 20 // 4 MB

var (
	ErrUnreachable           = errors.New("unable to reach check-in API")
	ErrUnexpectedContentType = errors.New("check-in API did not answer with JSON")
	ErrEmptyData             = errors.New("check-in API answered without data")
)

// APIError is a non-2xx answer from the check-in API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "HTTP " + strconv.Itoa(e.Status)
}

type Client struct {
	baseURL string
	http    *http.Client
	cache   providers.CacheProviderInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.Api.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.Api.Timeout},
		cache:   cache,
		logger:  logger,
		metrics: metrics,
	}
}

func (c *Client) GetStats(ctx context.Context, scheduleID string) (*models.ScheduleStats, error) {
	return fetchApi[models.ScheduleStats](ctx, c, true, "stats", schedulePath(scheduleID, "stats"))
}

func (c *Client) GetUsers(ctx context.Context, scheduleID string, params models.UserQueryParams) (*models.UserListResponse, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	return fetchApi[models.UserListResponse](ctx, c, true, "users", withQuery(schedulePath(scheduleID, "users"), query))
}

func (c *Client) GetUserDetail(ctx context.Context, scheduleID, userID string) (*models.UserDetail, error) {
	return fetchApi[models.UserDetail](ctx, c, true, "user", schedulePath(scheduleID, "users", userID))
}

// LiveFetcher loads user details straight from the API, skipping cached
// answers, so a user removed upstream is noticed on the next fetch.
type LiveFetcher struct {
	client *Client
}

func NewLiveFetcher(client *Client) *LiveFetcher {
	return &LiveFetcher{client: client}
}

func (f *LiveFetcher) GetUserDetail(ctx context.Context, scheduleID, userID string) (*models.UserDetail, error) {
	return fetchApi[models.UserDetail](ctx, f.client, false, "user", schedulePath(scheduleID, "users", userID))
}

func (c *Client) GetDayDetail(ctx context.Context, scheduleID, dayLabel string) (*models.DayDetail, error) {
	return fetchApi[models.DayDetail](ctx, c, true, "day", schedulePath(scheduleID, "days", dayLabel))
}

func (c *Client) SearchUsers(ctx context.Context, scheduleID, q string, limit int) (*models.SearchResponse, error) {
	query := url.Values{"q": {q}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return fetchApi[models.SearchResponse](ctx, c, true, "search", withQuery(schedulePath(scheduleID, "search"), query))
}

func (c *Client) GetThreads(ctx context.Context, scheduleID string) (*models.ThreadListResponse, error) {
	return fetchApi[models.ThreadListResponse](ctx, c, true, "threads", schedulePath(scheduleID, "threads"))
}

func schedulePath(scheduleID string, segments ...string) string {
	var b strings.Builder
	b.WriteString("/api/checkin/")
	b.WriteString(url.PathEscape(scheduleID))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func withQuery(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	return path + "?" + query.Encode()
}

// fetchApi returns the decoded data field of the envelope at path. Successful
// payloads are stored in the response cache keyed by path; only cached calls
// read from it.
func fetchApi[T any](ctx context.Context, c *Client, cached bool, endpoint, path string) (*T, error) {
	var data []byte
	ok := false
	if cached {
		data, ok = c.cache.Get(path)
	}
	if !ok {
		var err error
		data, err = c.do(ctx, endpoint, path)
		if err != nil {
			c.cache.Del(path)
			return nil, err
		}
		c.cache.Set(path, data)
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		c.cache.Del(path)
		return nil, fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, endpoint, path string) ([]byte, error) {
	start := time.Now()
	defer func() { c.metrics.ObserveUpstreamDuration(endpoint, time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Errorf(providers.TypeApi, "GET %s failed: %s", path, err)
		return nil, fmt.Errorf("%w (%s): %w", ErrUnreachable, c.baseURL, err)
	}
	defer resp.Body.Close()

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		c.logger.Warnf(providers.TypeApi, "GET %s answered %d with content type %q", path, resp.StatusCode, resp.Header.Get("Content-Type"))
		return nil, ErrUnexpectedContentType
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", endpoint, err)
	}

	var envelope models.ApiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode %s envelope: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		c.logger.Warnf(providers.TypeApi, "GET %s answered %d: %s", path, resp.StatusCode, apiErr)
		return nil, apiErr
	}

	if data := bytes.TrimSpace(envelope.Data); len(data) == 0 || bytes.Equal(data, []byte("null")) {
		c.logger.Warnf(providers.TypeApi, "GET %s answered %d without data", path, resp.StatusCode)
		return nil, fmt.Errorf("%s: %w", endpoint, ErrEmptyData)
	}

	c.logger.Debugf(providers.TypeApi, "GET %s answered %d in %s", path, resp.StatusCode, time.Since(start))
	return envelope.Data, nil
}
