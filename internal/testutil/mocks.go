package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"mulesync/internal/models"
	"mulesync/internal/providers"
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

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
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

// Entries returns a copy of the recorded entries of type t.
func (m *MockLogger) Entries(t providers.TypeEnum) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Logs {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// MockMetrics implements providers.MetricsProviderInterface and keeps counters in memory.
type MockMetrics struct {
	mu               sync.Mutex
	Requests         map[string]int
	CacheHits        int
	CacheMisses      int
	Persisted        int
	QueueSize        int
	Jobs             map[string]int
	JobDurations     int
	Lockouts         int
	Upstream         map[string]int
	MalformedFields  int
	SkippedItemCount int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Requests: make(map[string]int),
		Jobs:     make(map[string]int),
		Upstream: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests[fmt.Sprintf("%s %d", endpoint, status)]++
}
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
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}
func (m *MockMetrics) SetQueueSize(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueueSize = size
}
func (m *MockMetrics) IncJobsTotal(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Jobs[outcome]++
}
func (m *MockMetrics) ObserveJobDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.JobDurations++
}
func (m *MockMetrics) IncLockouts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lockouts++
}
func (m *MockMetrics) IncUpstreamRequests(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Upstream[fmt.Sprintf("%s %d", endpoint, status)]++
}
func (m *MockMetrics) ObserveUpstreamDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) AddParserDiagnostics(malformedFields, skippedItems int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MalformedFields += malformedFields
	m.SkippedItemCount += skippedItems
}

// JobCount returns the number of jobs recorded with outcome.
func (m *MockMetrics) JobCount(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Jobs[outcome]
}

func (m *MockMetrics) LockoutCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Lockouts
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockStore is an in-memory snapshot store. A missing id loads as nil, nil.
type MockStore struct {
	mu        sync.Mutex
	Snapshots map[uuid.UUID]*models.Snapshot
	SaveErr   error
	Saves     int
}

func NewMockStore() *MockStore {
	return &MockStore{Snapshots: make(map[uuid.UUID]*models.Snapshot)}
}

func (m *MockStore) Load(id uuid.UUID) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Snapshots[id], nil
}

func (m *MockStore) Save(snap *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Snapshots[snap.CredentialID] = snap
	return nil
}

func (m *MockStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saves
}

func (m *MockStore) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Snapshots, id)
	return nil
}

// MockClient implements gameapi.ClientInterface with an injectable fetch.
type MockClient struct {
	mu      sync.Mutex
	FetchFn func(ctx context.Context, cred models.Credential, previous *models.Snapshot) (*models.Snapshot, error)
	Calls   []models.Credential
}

func (m *MockClient) FetchSnapshot(ctx context.Context, cred models.Credential, previous *models.Snapshot) (*models.Snapshot, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, cred)
	fn := m.FetchFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, cred, previous)
	}
	snap := models.NewSnapshot(cred.ID)
	snap.Name = cred.Email
	return snap, nil
}

func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
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
