package reload

import (
	"sync"

	"github.com/roylee0704/gron"

	"mulesync/internal/providers"
	"mulesync/internal/reload/interfaces"
	"mulesync/internal/structures"
)

// AutoScheduler queues a full reload on start-up and then every
// reload.autoInterval. A tick is skipped while the queue still has work.
type AutoScheduler struct {
	config   *structures.Config
	logger   providers.Logger
	queue    interfaces.ReloadQueueInterface
	reloader interfaces.BatchReloader
	cron     *gron.Cron
	opsMu    sync.Mutex
}

func (s *AutoScheduler) Init() {
	if s.config.Reload.OnStart {
		s.reloadAll("startup")
	}

	interval := s.config.Reload.AutoInterval
	if interval <= 0 {
		s.logger.Infof(providers.TypeApp, "Periodic reload disabled")
		return
	}

	s.cron = gron.New()
	s.cron.AddFunc(gron.Every(interval), func() {
		s.reloadAll("scheduled")
	})
	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Periodic reload every %s", interval)
}

func (s *AutoScheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *AutoScheduler) reloadAll(reason string) {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	if s.queue.IsProcessing() || s.queue.QueueCount() > 0 {
		s.logger.Infof(providers.TypeReload, "Skipping %s reload: queue busy (%d waiting)", reason, s.queue.QueueCount())
		return
	}
	if until, locked := s.queue.LockoutUntil(); locked {
		s.logger.Infof(providers.TypeReload, "Skipping %s reload: login limit until %s", reason, until)
		return
	}

	n, err := s.reloader.ReloadAll()
	if err != nil {
		s.logger.Errorf(providers.TypeReload, "Error while queueing %s reload: %s", reason, err)
		return
	}
	s.logger.Infof(providers.TypeReload, "Queued %s reload of %d accounts", reason, n)
}

func NewAutoScheduler(config *structures.Config, logger providers.Logger, queue interfaces.ReloadQueueInterface, reloader interfaces.BatchReloader) interfaces.SchedulerInterface {
	return &AutoScheduler{
		config:   config,
		logger:   logger,
		queue:    queue,
		reloader: reloader,
	}
}
