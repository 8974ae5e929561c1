package testutil

import (
	"checkinboard/internal/models"
	"checkinboard/internal/providers"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu          sync.Mutex
	Hydrations  map[string]int
	PinnedTotal map[string]int
	CacheHits   int
	CacheMisses int
	Upstream    []string
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {}
func (m *MockMetrics) ObserveUpstreamDuration(endpoint string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Upstream = append(m.Upstream, endpoint)
}
func (m *MockMetrics) IncHydrations(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Hydrations == nil {
		m.Hydrations = make(map[string]int)
	}
	m.Hydrations[result]++
}
func (m *MockMetrics) SetPinnedTotal(schedule string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PinnedTotal == nil {
		m.PinnedTotal = make(map[string]int)
	}
	m.PinnedTotal[schedule] = count
}

// MockStorage implements storage.StorageInterface in memory.
type MockStorage struct {
	mu      sync.Mutex
	Data    map[string]string
	Writes  int
	SetErr  error
	Deleted []string
}

func NewMockStorage() *MockStorage {
	return &MockStorage{Data: make(map[string]string)}
}

func (m *MockStorage) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Writes++
	m.Data[key] = value
	return nil
}

func (m *MockStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, key)
	delete(m.Data, key)
	return nil
}

// WriteCount returns the number of successful Set calls.
func (m *MockStorage) WriteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Writes
}

// MockCompressor implements storage.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

var ErrUserNotFound = errors.New("user not found")

// MockFetcher implements pinned.UserDetailFetcher. Users absent from Details
// fail with ErrUserNotFound, as do ids listed in Fail.
type MockFetcher struct {
	mu      sync.Mutex
	Details map[string]*models.UserDetail
	Fail    map[string]error
	Calls   []string
	// Gate, when set, blocks every call until it is closed.
	Gate chan struct{}
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Details: make(map[string]*models.UserDetail),
		Fail:    make(map[string]error),
	}
}

func (m *MockFetcher) GetUserDetail(ctx context.Context, scheduleID, userID string) (*models.UserDetail, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, scheduleID+"/"+userID)
	gate := m.Gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.Fail[userID]; ok {
		return nil, err
	}
	d, ok := m.Details[userID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", userID, ErrUserNotFound)
	}
	return d, nil
}

func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// UserDetail builds a detail record whose days are labelled day1..dayN, with
// checked[i] deciding day i+1.
func UserDetail(id string, checked ...bool) *models.UserDetail {
	d := &models.UserDetail{
		DiscordUserID: id,
		Username:      strings.ToLower(id),
		DisplayName:   "User " + id,
	}
	for i, c := range checked {
		if c {
			d.TotalCheckinDays++
		}
		d.CheckinDetails = append(d.CheckinDetails, models.CheckinDetailItem{
			DayLabel:  fmt.Sprintf("day%d", i+1),
			DayNumber: i + 1,
			CheckedIn: c,
		})
	}
	return d
}
