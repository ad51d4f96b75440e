package controllers

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"mulesync/internal/providers"
	"mulesync/internal/services"
)

type ApiController struct {
	logger  providers.Logger
	service services.ReloadServiceInterface
	cache   providers.CacheProviderInterface
}

type reloadResponse struct {
	Queued int `json:"queued"`
}

func NewApiController(logger providers.Logger, service services.ReloadServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		service: service,
		cache:   cache,
	}
}

func getAccountID(r *http.Request) (uuid.UUID, bool, error) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		return uuid.Nil, false, nil
	}
	id, err := uuid.Parse(raw)
	return id, true, err
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrUnknownAccount), errors.Is(err, services.ErrNoSnapshot):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNoAccounts):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (ac *ApiController) fail(w http.ResponseWriter, err error) {
	code := errorStatus(err)
	if code == http.StatusInternalServerError {
		ac.logger.Errorf(providers.TypeApp, "Request failed: %s", err)
	}
	http.Error(w, http.StatusText(code), code)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(gson)
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.fail(w, err)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// Reload queues one account when ?id= is given, every account otherwise.
func (ac *ApiController) Reload(w http.ResponseWriter, r *http.Request) {
	id, single, err := getAccountID(r)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if single {
		if err = ac.service.Reload(id); err != nil {
			ac.fail(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, reloadResponse{Queued: 1})
		return
	}

	n, err := ac.service.ReloadAll()
	if err != nil {
		ac.fail(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, reloadResponse{Queued: n})
}

func (ac *ApiController) Cancel(w http.ResponseWriter, r *http.Request) {
	ac.service.Cancel()
	ac.logger.Infof(providers.TypeApp, "Reload queue cancelled by %s", r.RemoteAddr)
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.service.Status())
}

func (ac *ApiController) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok, err := getAccountID(r)
	if err != nil || !ok {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	ac.serveFromCacheOrCompute(w, services.SnapshotCacheKey(id), func() (any, error) {
		return ac.service.Snapshot(id)
	})
}
