package interfaces

type SchedulerInterface interface {
	Init()
	Stop()
}

// BatchReloader queues every known credential and reports how many were queued.
type BatchReloader interface {
	ReloadAll() (int, error)
}
