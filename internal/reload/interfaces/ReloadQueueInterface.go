package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"

	"mulesync/internal/models"
)

// Job refreshes one credential. It must honour ctx cancellation.
type Job func(ctx context.Context) (*models.Snapshot, error)

type Task struct {
	CredentialID uuid.UUID
	Label        string
	Job          Job
}

type ReloadQueueInterface interface {
	Enqueue(credentialID uuid.UUID, label string, job Job)
	EnqueueBatch(tasks []Task)
	Cancel()
	QueueCount() int
	IsProcessing() bool
	LockoutUntil() (time.Time, bool)
}
