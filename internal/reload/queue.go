package reload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"mulesync/internal/models"
	"mulesync/internal/providers"
	"mulesync/internal/reload/interfaces"
	"mulesync/internal/structures"
)

const (
	StatusRefreshing  = "Refreshing..."
	StatusSuccess     = "Success"
	StatusPassword    = "Password Error"
	StatusLockout     = "Login limit - paused"
	StatusRateLimited = "Rate limited - retrying"
	StatusError       = "Error"
)

type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeFailed
	outcomeRequeued
	outcomeLockout
	outcomeCancelled
)

// ReloadQueue serialises reload jobs against the game service. One drain
// goroutine runs at a time; producers only append.
type ReloadQueue struct {
	interval time.Duration
	backoff  time.Duration
	cooldown time.Duration

	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	bus     *EventBus

	processing atomic.Bool
	// lastDispatch is owned by the drain goroutine and survives Cancel.
	lastDispatch time.Time

	mu           sync.Mutex
	queue        []interfaces.Task
	generation   uint64
	runID        uuid.UUID
	cancelRun    context.CancelFunc
	lockoutUntil time.Time
	resumeTimer  *time.Timer
}

func NewReloadQueue(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, bus *EventBus) *ReloadQueue {
	rc := conf.Reload
	return &ReloadQueue{
		interval: rc.RateLimitInterval,
		backoff:  rc.RateLimitBackoff,
		cooldown: rc.LockoutCooldown,
		logger:   logger,
		metrics:  metrics,
		bus:      bus,
	}
}

func (q *ReloadQueue) Enqueue(credentialID uuid.UUID, label string, job interfaces.Job) {
	q.mu.Lock()
	q.queue = append(q.queue, interfaces.Task{CredentialID: credentialID, Label: label, Job: job})
	q.queueChangedLocked()
	q.statusLocked("Queued single account: %s. QueueCount=%d", label, len(q.queue))
	q.mu.Unlock()

	q.kick()
}

func (q *ReloadQueue) EnqueueBatch(tasks []interfaces.Task) {
	if len(tasks) == 0 {
		return
	}
	q.mu.Lock()
	q.queue = append(q.queue, tasks...)
	q.queueChangedLocked()
	q.statusLocked("Queued %d accounts. QueueCount=%d", len(tasks), len(q.queue))
	q.mu.Unlock()

	q.kick()
}

// Cancel abandons the in-flight job, empties the queue and forgets any
// lockout. Nothing from the cancelled run is published afterwards, and
// events it published that subscribers have not yet handled are dropped.
func (q *ReloadQueue) Cancel() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.generation++
	q.bus.advance()
	if q.cancelRun != nil {
		q.cancelRun()
		q.cancelRun = nil
	}
	if q.resumeTimer != nil {
		q.resumeTimer.Stop()
		q.resumeTimer = nil
	}
	cleared := len(q.queue)
	q.queue = nil
	hadLockout := !q.lockoutUntil.IsZero()
	q.lockoutUntil = time.Time{}

	q.queueChangedLocked()
	if hadLockout {
		q.bus.lockoutChanged(nil)
	}
	q.statusLocked("CancelProcessing called. Cleared %d items. Lockout cleared.", cleared)
}

func (q *ReloadQueue) QueueCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// IsProcessing reports whether a run is draining jobs. A cancelled run that
// has not yet unwound already counts as idle.
func (q *ReloadQueue) IsProcessing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.cancelRun != nil
}

func (q *ReloadQueue) LockoutUntil() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lockoutUntil, !q.lockoutUntil.IsZero()
}

func (q *ReloadQueue) kick() {
	if !q.processing.CompareAndSwap(false, true) {
		return
	}
	go q.drain()
}

func (q *ReloadQueue) drain() {
	for {
		q.run()
		q.processing.Store(false)

		// An append that raced the end of run found the gate closed.
		if !q.runnable() || !q.processing.CompareAndSwap(false, true) {
			return
		}
	}
}

func (q *ReloadQueue) runnable() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue) > 0 && q.resumeTimer == nil && !time.Now().Before(q.lockoutUntil)
}

func (q *ReloadQueue) run() {
	q.mu.Lock()
	q.runID = uuid.New()
	if until := q.lockoutUntil; time.Now().Before(until) {
		wait := time.Until(until)
		q.statusLocked("Login limit in effect. Pausing for %.0fs (until %s).", wait.Seconds(), until.UTC().Format(time.RFC3339Nano))
		q.scheduleResumeLocked(wait, "initial-lockout")
		q.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gen := q.generation
	q.cancelRun = cancel
	q.statusLocked("=== PROCESS START (RunId=%s) QueueCount=%d ===", q.runID, len(q.queue))
	q.mu.Unlock()

	var succeeded, failed int
	cancelled := false
loop:
	for {
		task, ok := q.next(gen)
		if !ok {
			cancelled = ctx.Err() != nil
			break
		}
		switch q.dispatch(ctx, gen, task) {
		case outcomeSuccess:
			succeeded++
		case outcomeFailed:
			failed++
		case outcomeLockout:
			break loop
		case outcomeCancelled:
			cancelled = true
			break loop
		}
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if gen != q.generation {
		return
	}
	q.cancelRun = nil
	paused := q.resumeTimer != nil
	q.statusLocked("=== PROCESS END (RunId=%s) Success=%d Errors=%d Paused=%t QueueCount=%d ===",
		q.runID, succeeded, failed, paused, len(q.queue))
	if !cancelled && !paused {
		q.bus.allDrained()
		q.statusLocked("All jobs drained.")
	}
}

// next pops the head of the queue unless the run has been cancelled.
func (q *ReloadQueue) next(gen uint64) (interfaces.Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if gen != q.generation || len(q.queue) == 0 {
		return interfaces.Task{}, false
	}
	task := q.queue[0]
	q.queue[0] = interfaces.Task{}
	q.queue = q.queue[1:]
	q.queueChangedLocked()
	q.statusLocked("Dequeue %s. Remaining=%d", task.Label, len(q.queue))
	return task, true
}

func (q *ReloadQueue) dispatch(ctx context.Context, gen uint64, task interfaces.Task) outcome {
	q.emit(gen, func() {
		q.bus.credentialStatus(task.CredentialID, StatusRefreshing)
		q.statusLocked("Begin reload for %s", task.Label)
	})

	if wait := q.interval - time.Since(q.lastDispatch); wait > 0 {
		q.emit(gen, func() { q.statusLocked("Rate-limit sleep %dms", wait.Milliseconds()) })
		if !sleepCtx(ctx, wait) {
			q.metrics.IncJobsTotal("cancelled")
			return outcomeCancelled
		}
	}

	q.lastDispatch = time.Now()
	start := q.lastDispatch
	snap, err := q.invoke(ctx, task)
	q.metrics.ObserveJobDuration(time.Since(start))
	if ctx.Err() != nil {
		q.metrics.IncJobsTotal("cancelled")
		return outcomeCancelled
	}

	switch {
	case errors.Is(err, models.ErrLockout):
		q.handleLockout(gen, task, err.Error())
		return outcomeLockout

	case snap != nil && models.IsLockoutMessage(snap.ErrorMessage):
		q.handleLockout(gen, task, snap.ErrorMessage)
		return outcomeLockout

	case errors.Is(err, models.ErrRateLimited):
		q.metrics.IncJobsTotal("rate_limited")
		q.emit(gen, func() {
			q.bus.credentialStatus(task.CredentialID, StatusRateLimited)
			q.statusLocked("HTTP 429 for %s. Requeue and sleep %s. Err=%s", task.Label, q.backoff, err)
		})
		if !sleepCtx(ctx, q.backoff) {
			q.metrics.IncJobsTotal("cancelled")
			return outcomeCancelled
		}
		q.requeue(gen, task)
		return outcomeRequeued

	case err != nil:
		q.metrics.IncJobsTotal("failed")
		status := StatusError + ": " + errorText(err)
		if errors.Is(err, models.ErrPasswordInvalid) {
			status = StatusPassword
		}
		q.emit(gen, func() {
			if snap != nil {
				q.bus.snapshotUpdated(task.CredentialID, snap)
			}
			q.bus.jobFailed(task.Label, err)
			q.bus.credentialStatus(task.CredentialID, status)
			q.statusLocked("Error processing %s: %s", task.Label, err)
		})
		return outcomeFailed

	case snap == nil:
		q.metrics.IncJobsTotal("failed")
		q.emit(gen, func() {
			q.bus.jobFailed(task.Label, errors.New("reload returned no snapshot"))
			q.bus.credentialStatus(task.CredentialID, StatusError)
			q.statusLocked("Null data for %s", task.Label)
		})
		return outcomeFailed
	}

	status := snapshotStatus(snap)
	q.emit(gen, func() {
		q.bus.snapshotUpdated(task.CredentialID, snap)
		q.bus.credentialStatus(task.CredentialID, status)
		q.statusLocked("%s for %s", status, task.Label)
	})
	if snap.HasError() {
		q.metrics.IncJobsTotal("failed")
		return outcomeFailed
	}
	q.metrics.IncJobsTotal("success")
	return outcomeSuccess
}

func (q *ReloadQueue) invoke(ctx context.Context, task interfaces.Task) (snap *models.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snap, err = nil, fmt.Errorf("reload job panicked: %v", r)
		}
	}()
	return task.Job(ctx)
}

func (q *ReloadQueue) requeue(gen uint64, task interfaces.Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if gen != q.generation {
		return
	}
	q.queue = append(q.queue, task)
	q.queueChangedLocked()
}

func (q *ReloadQueue) handleLockout(gen uint64, task interfaces.Task, msg string) {
	q.metrics.IncJobsTotal("lockout")
	q.metrics.IncLockouts()

	q.mu.Lock()
	defer q.mu.Unlock()
	if gen != q.generation {
		return
	}
	q.queue = append(q.queue, task)
	q.queueChangedLocked()

	q.lockoutUntil = time.Now().Add(q.cooldown)
	until := q.lockoutUntil
	q.bus.lockoutChanged(&until)
	q.statusLocked("LOCKOUT '%s'. Requeued %s. Pausing ALL until %s (~%.0fs). Remaining=%d",
		msg, task.Label, until.UTC().Format(time.RFC3339Nano), q.cooldown.Seconds(), len(q.queue))
	q.bus.credentialStatus(task.CredentialID, StatusLockout)

	q.scheduleResumeLocked(q.cooldown, "lockout-detected")
}

// scheduleResumeLocked arms the single resume timer. A second request while
// one is pending is ignored.
func (q *ReloadQueue) scheduleResumeLocked(wait time.Duration, reason string) {
	if q.resumeTimer != nil {
		q.statusLocked("Resume already scheduled. Reason=%s Wait=%.0fs", reason, wait.Seconds())
		return
	}
	gen := q.generation
	q.statusLocked("Scheduling resume in %.0fs. Reason=%s", wait.Seconds(), reason)
	q.resumeTimer = time.AfterFunc(wait, func() { q.resume(gen) })
}

func (q *ReloadQueue) resume(gen uint64) {
	q.mu.Lock()
	if gen != q.generation {
		q.mu.Unlock()
		return
	}
	q.resumeTimer = nil
	q.lockoutUntil = time.Time{}
	q.bus.lockoutChanged(nil)
	pending := len(q.queue)
	q.statusLocked("Resume timer fired. QueueCount=%d IsProcessing=%t", pending, q.cancelRun != nil)
	q.mu.Unlock()

	if pending > 0 {
		q.kick()
	}
}

// emit runs fn under the queue lock unless the run it belongs to was cancelled.
func (q *ReloadQueue) emit(gen uint64, fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if gen != q.generation {
		return
	}
	fn()
}

func (q *ReloadQueue) queueChangedLocked() {
	q.bus.queueChanged(len(q.queue))
	q.metrics.SetQueueSize(len(q.queue))
}

func (q *ReloadQueue) statusLocked(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	line := fmt.Sprintf("[%s] [ReloadQueue] [Run:%s] %s", time.Now().UTC().Format(time.RFC3339Nano), q.runID, msg)
	q.logger.Infof(providers.TypeReload, "[Run:%s] %s", q.runID, msg)
	q.bus.statusLine(line)
}

func snapshotStatus(snap *models.Snapshot) string {
	switch {
	case snap.PasswordError:
		return StatusPassword
	case snap.ErrorMessage != "":
		return StatusError + ": " + snap.ErrorMessage
	default:
		return StatusSuccess
	}
}

func errorText(err error) string {
	var se *models.ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return err.Error()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
