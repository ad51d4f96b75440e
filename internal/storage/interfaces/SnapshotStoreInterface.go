package interfaces

import (
	"github.com/google/uuid"

	"mulesync/internal/models"
)

// SnapshotStoreInterface persists the last known snapshot per credential.
// Load returns nil, nil when nothing is stored for id.
type SnapshotStoreInterface interface {
	Load(id uuid.UUID) (*models.Snapshot, error)
	Save(snap *models.Snapshot) error
	Delete(id uuid.UUID) error
}
