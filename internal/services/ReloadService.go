package services

import (
	"context"
	"errors"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"mulesync/internal/gameapi"
	"mulesync/internal/models"
	"mulesync/internal/providers"
	"mulesync/internal/reload"
	"mulesync/internal/reload/interfaces"
	storage "mulesync/internal/storage/interfaces"
)

const maxStatusLines = 50

var (
	ErrNoAccounts = errors.New("no accounts configured")
	ErrNoSnapshot = errors.New("no snapshot stored")
)

type ReloadServiceInterface interface {
	ReloadAll() (int, error)
	Reload(id uuid.UUID) error
	Cancel()
	Status() ReloadStatus
	Snapshot(id uuid.UUID) (*models.Snapshot, error)
}

type AccountStatus struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReloadStatus struct {
	Processing   bool            `json:"processing"`
	QueueSize    int             `json:"queue_size"`
	LockoutUntil *time.Time      `json:"lockout_until"`
	Accounts     []AccountStatus `json:"accounts"`
	Log          []string        `json:"log"`
}

func SnapshotCacheKey(id uuid.UUID) string {
	return "snapshot:" + id.String()
}

// ReloadService turns accounts into reload jobs and keeps what the queue
// reports: the latest snapshot per account, persisted and cached, and the
// latest status line per account.
type ReloadService struct {
	logger   providers.Logger
	accounts AccountServiceInterface
	client   gameapi.ClientInterface
	store    storage.SnapshotStoreInterface
	cache    providers.CacheProviderInterface
	queue    interfaces.ReloadQueueInterface

	unsubscribe func()

	mu       sync.RWMutex
	latest   map[uuid.UUID]*models.Snapshot
	statuses map[uuid.UUID]AccountStatus
	lines    []string
}

func NewReloadService(
	logger providers.Logger,
	accounts AccountServiceInterface,
	client gameapi.ClientInterface,
	store storage.SnapshotStoreInterface,
	cache providers.CacheProviderInterface,
	queue interfaces.ReloadQueueInterface,
	bus *reload.EventBus,
) *ReloadService {
	rs := &ReloadService{
		logger:   logger,
		accounts: accounts,
		client:   client,
		store:    store,
		cache:    cache,
		queue:    queue,
		latest:   make(map[uuid.UUID]*models.Snapshot),
		statuses: make(map[uuid.UUID]AccountStatus),
	}

	rs.unsubscribe = bus.Subscribe(reload.Handlers{
		SnapshotUpdated:  rs.onSnapshot,
		CredentialStatus: rs.onStatus,
		StatusLine:       rs.onLine,
		JobFailed: func(label string, err error) {
			logger.Warnf(providers.TypeReload, "Reload failed for %s: %s", label, err)
		},
		AllDrained: func() {
			logger.Infof(providers.TypeReload, "Reload queue drained")
		},
	})
	return rs
}

func (rs *ReloadService) ReloadAll() (int, error) {
	creds := rs.accounts.List()
	if len(creds) == 0 {
		return 0, ErrNoAccounts
	}

	tasks := make([]interfaces.Task, 0, len(creds))
	for _, cred := range creds {
		tasks = append(tasks, rs.task(cred))
	}
	rs.queue.EnqueueBatch(tasks)
	return len(tasks), nil
}

func (rs *ReloadService) Reload(id uuid.UUID) error {
	cred, err := rs.accounts.Get(id)
	if err != nil {
		return err
	}
	task := rs.task(cred)
	rs.queue.Enqueue(task.CredentialID, task.Label, task.Job)
	return nil
}

func (rs *ReloadService) Cancel() {
	rs.queue.Cancel()
}

func (rs *ReloadService) Status() ReloadStatus {
	status := ReloadStatus{
		Processing: rs.queue.IsProcessing(),
		QueueSize:  rs.queue.QueueCount(),
	}
	if until, locked := rs.queue.LockoutUntil(); locked {
		status.LockoutUntil = &until
	}

	rs.mu.RLock()
	defer rs.mu.RUnlock()
	for _, cred := range rs.accounts.List() {
		st, ok := rs.statuses[cred.ID]
		if !ok {
			st = AccountStatus{ID: cred.ID}
		}
		st.Email = cred.Email
		status.Accounts = append(status.Accounts, st)
	}
	status.Log = append([]string(nil), rs.lines...)
	return status
}

// Snapshot returns the latest snapshot of an account, reading the store when
// nothing has been reloaded since start-up.
func (rs *ReloadService) Snapshot(id uuid.UUID) (*models.Snapshot, error) {
	if _, err := rs.accounts.Get(id); err != nil {
		return nil, err
	}
	if snap := rs.memoized(id); snap != nil {
		return snap, nil
	}

	snap, err := rs.store.Load(id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

func (rs *ReloadService) Close() {
	rs.unsubscribe()
}

func (rs *ReloadService) task(cred models.Credential) interfaces.Task {
	return interfaces.Task{
		CredentialID: cred.ID,
		Label:        cred.Email,
		Job: func(ctx context.Context) (*models.Snapshot, error) {
			return rs.client.FetchSnapshot(ctx, cred, rs.previous(cred.ID))
		},
	}
}

func (rs *ReloadService) previous(id uuid.UUID) *models.Snapshot {
	if snap := rs.memoized(id); snap != nil {
		return snap
	}
	snap, err := rs.store.Load(id)
	if err != nil {
		rs.logger.Errorf(providers.TypeApp, "Error while loading snapshot %s: %s", id, err)
		return nil
	}
	return snap
}

func (rs *ReloadService) memoized(id uuid.UUID) *models.Snapshot {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.latest[id]
}

func (rs *ReloadService) onSnapshot(id uuid.UUID, snap *models.Snapshot) {
	rs.mu.Lock()
	rs.latest[id] = snap
	rs.mu.Unlock()

	if err := rs.store.Save(snap); err != nil {
		rs.logger.Errorf(providers.TypeApp, "Error while saving snapshot %s: %s", id, err)
	}

	data, err := json.Marshal(snap)
	if err != nil {
		rs.cache.Del(SnapshotCacheKey(id))
		return
	}
	rs.cache.Set(SnapshotCacheKey(id), data)
}

func (rs *ReloadService) onStatus(id uuid.UUID, status string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.statuses[id] = AccountStatus{ID: id, Status: status, UpdatedAt: time.Now()}
}

func (rs *ReloadService) onLine(line string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.lines = append(rs.lines, line)
	if over := len(rs.lines) - maxStatusLines; over > 0 {
		rs.lines = append(rs.lines[:0], rs.lines[over:]...)
	}
}
