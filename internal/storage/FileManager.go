package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"mulesync/internal/models"
	"mulesync/internal/providers"
	"mulesync/internal/storage/interfaces"
	"mulesync/internal/structures"
)

const snapshotExt = ".snap"

// FileManager keeps one zstd-compressed JSON file per credential under storage.dir.
type FileManager struct {
	dir        string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	mu         sync.Mutex
}

func NewFileManager(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) (interfaces.SnapshotStoreInterface, error) {
	if err := os.MkdirAll(conf.Storage.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileManager{
		dir:        conf.Storage.Dir,
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}, nil
}

func (f *FileManager) path(id uuid.UUID) string {
	return filepath.Join(f.dir, id.String()+snapshotExt)
}

func (f *FileManager) Save(snap *models.Snapshot) error {
	start := time.Now()
	defer func() { f.metrics.ObservePersistenceDuration(time.Since(start)) }()

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fileName := f.path(snap.CredentialID)
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

// Load reads the stored snapshot for id. A file that cannot be decoded is
// removed and reported as missing.
func (f *FileManager) Load(id uuid.UUID) (*models.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fileName := f.path(id)
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		f.discard(fileName, err)
		return nil, nil
	}

	var snap models.Snapshot
	if err := json.Unmarshal(decompressedData, &snap); err != nil {
		f.discard(fileName, err)
		return nil, nil
	}
	if snap.CredentialID != id {
		f.discard(fileName, fmt.Errorf("credential id %s does not match file", snap.CredentialID))
		return nil, nil
	}
	return &snap, nil
}

func (f *FileManager) Delete(id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(id))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (f *FileManager) discard(fileName string, cause error) {
	f.logger.Warnf(providers.TypeApp, "Corrupt snapshot %s removed: %s", fileName, cause)
	if err := os.Remove(fileName); err != nil && !os.IsNotExist(err) {
		f.logger.Errorf(providers.TypeApp, "Error while removing %s: %s", fileName, err)
	}
}
