package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mulesync/internal/models"
	"mulesync/internal/services"
	"mulesync/internal/testutil"
)

// --- local mocks (scoped to controller tests) ---

type mockService struct {
	reloadAllN   int
	reloadAllErr error
	reloadErr    error
	reloaded     []uuid.UUID
	reloadAll    int
	cancelled    int
	status       services.ReloadStatus
	snapshot     *models.Snapshot
	snapshotErr  error
	snapshotHits int
}

func (m *mockService) ReloadAll() (int, error) {
	m.reloadAll++
	return m.reloadAllN, m.reloadAllErr
}

func (m *mockService) Reload(id uuid.UUID) error {
	m.reloaded = append(m.reloaded, id)
	return m.reloadErr
}

func (m *mockService) Cancel()                       { m.cancelled++ }
func (m *mockService) Status() services.ReloadStatus { return m.status }

func (m *mockService) Snapshot(_ uuid.UUID) (*models.Snapshot, error) {
	m.snapshotHits++
	return m.snapshot, m.snapshotErr
}

// --- helpers ---

func newTestController(svc *mockService, cache *testutil.MockCache) *ApiController {
	return NewApiController(&testutil.MockLogger{}, svc, cache)
}

// --- Reload tests ---

func TestReload_All(t *testing.T) {
	svc := &mockService{reloadAllN: 3}
	ac := newTestController(svc, testutil.NewMockCache())

	req := httptest.NewRequest(http.MethodPost, "/reload", nil)
	rr := httptest.NewRecorder()
	ac.Reload(rr, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, 1, svc.reloadAll)
	assert.JSONEq(t, `{"queued":3}`, rr.Body.String())
}

func TestReload_Single(t *testing.T) {
	svc := &mockService{}
	ac := newTestController(svc, testutil.NewMockCache())
	id := uuid.New()

	req := httptest.NewRequest(http.MethodPost, "/reload?id="+id.String(), nil)
	rr := httptest.NewRecorder()
	ac.Reload(rr, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, []uuid.UUID{id}, svc.reloaded)
	assert.Equal(t, 0, svc.reloadAll)
	assert.JSONEq(t, `{"queued":1}`, rr.Body.String())
}

func TestReload_InvalidID(t *testing.T) {
	svc := &mockService{}
	ac := newTestController(svc, testutil.NewMockCache())

	req := httptest.NewRequest(http.MethodPost, "/reload?id=nope", nil)
	rr := httptest.NewRecorder()
	ac.Reload(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, svc.reloaded)
}

func TestReload_UnknownAccount(t *testing.T) {
	svc := &mockService{reloadErr: services.ErrUnknownAccount}
	ac := newTestController(svc, testutil.NewMockCache())

	req := httptest.NewRequest(http.MethodPost, "/reload?id="+uuid.NewString(), nil)
	rr := httptest.NewRecorder()
	ac.Reload(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestReload_NoAccounts(t *testing.T) {
	svc := &mockService{reloadAllErr: services.ErrNoAccounts}
	ac := newTestController(svc, testutil.NewMockCache())

	req := httptest.NewRequest(http.MethodPost, "/reload", nil)
	rr := httptest.NewRecorder()
	ac.Reload(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

// --- Cancel / Status tests ---

func TestCancel(t *testing.T) {
	svc := &mockService{}
	ac := newTestController(svc, testutil.NewMockCache())

	req := httptest.NewRequest(http.MethodPost, "/cancel", nil)
	rr := httptest.NewRecorder()
	ac.Cancel(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 1, svc.cancelled)
}

func TestGetStatus_ReturnsJSON(t *testing.T) {
	until := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	id := uuid.New()
	svc := &mockService{status: services.ReloadStatus{
		Processing:   true,
		QueueSize:    2,
		LockoutUntil: &until,
		Accounts: []services.AccountStatus{
			{ID: id, Email: "a@example.com", Status: "Success"},
		},
	}}
	ac := newTestController(svc, testutil.NewMockCache())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()
	ac.GetStatus(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["processing"])
	assert.Equal(t, float64(2), resp["queue_size"])
	assert.Equal(t, "2026-01-02T03:04:05Z", resp["lockout_until"])
	accounts := resp["accounts"].([]interface{})
	require.Len(t, accounts, 1)
	assert.Equal(t, "Success", accounts[0].(map[string]interface{})["status"])
	assert.Equal(t, id.String(), accounts[0].(map[string]interface{})["id"])
}

// --- Snapshot / cache tests ---

func TestGetSnapshot_MissingID(t *testing.T) {
	svc := &mockService{}
	ac := newTestController(svc, testutil.NewMockCache())

	req := httptest.NewRequest(http.MethodGet, "/snapshot", nil)
	rr := httptest.NewRecorder()
	ac.GetSnapshot(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, svc.snapshotHits)
}

func TestGetSnapshot_CacheMissSavesResult(t *testing.T) {
	id := uuid.New()
	snap := models.NewSnapshot(id)
	snap.Name = "MuleOne"
	svc := &mockService{snapshot: snap}
	cache := testutil.NewMockCache()
	ac := newTestController(svc, cache)

	req := httptest.NewRequest(http.MethodGet, "/snapshot?id="+id.String(), nil)
	rr := httptest.NewRecorder()
	ac.GetSnapshot(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "MuleOne", resp["name"])

	val, ok := cache.Get(services.SnapshotCacheKey(id))
	assert.True(t, ok)
	assert.Equal(t, rr.Body.Bytes(), val)
}

func TestGetSnapshot_CacheHitServiceNotCalled(t *testing.T) {
	id := uuid.New()
	cache := testutil.NewMockCache()
	cache.Set(services.SnapshotCacheKey(id), []byte(`{"name":"Cached"}`))
	svc := &mockService{}
	ac := newTestController(svc, cache)

	req := httptest.NewRequest(http.MethodGet, "/snapshot?id="+id.String(), nil)
	rr := httptest.NewRecorder()
	ac.GetSnapshot(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"name":"Cached"}`, rr.Body.String())
	assert.Equal(t, 0, svc.snapshotHits)
}

func TestGetSnapshot_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unknown account", services.ErrUnknownAccount, http.StatusNotFound},
		{"nothing stored", services.ErrNoSnapshot, http.StatusNotFound},
		{"store failure", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := testutil.NewMockCache()
			ac := newTestController(&mockService{snapshotErr: tt.err}, cache)
			id := uuid.New()

			req := httptest.NewRequest(http.MethodGet, "/snapshot?id="+id.String(), nil)
			rr := httptest.NewRecorder()
			ac.GetSnapshot(rr, req)

			assert.Equal(t, tt.code, rr.Code)
			_, cached := cache.Get(services.SnapshotCacheKey(id))
			assert.False(t, cached)
		})
	}
}

func TestErrorStatus_Wrapped(t *testing.T) {
	err := errors.Join(errors.New("context"), services.ErrUnknownAccount)
	assert.Equal(t, http.StatusNotFound, errorStatus(err))
}
