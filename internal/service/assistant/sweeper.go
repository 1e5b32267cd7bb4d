package assistant

import (
	"log"
	"sync"
	"time"

	"github.com/rauldpena/delicia/backend/internal/config"
)

// Sweeper owns the two background cleanups: reaping idle contexts and
// sweeping stale histories. The two run on independent, configurable tickers
// because they protect different stores. Scheduling is an explicit lifecycle:
// nothing runs until Start, and tests can call the sweep methods directly.
type Sweeper struct {
	svc *Service
	cfg config.AssistantConfig

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSweeper builds a sweeper over the service's stores.
func NewSweeper(svc *Service, cfg config.AssistantConfig) *Sweeper {
	return &Sweeper{
		svc:  svc,
		cfg:  cfg,
		stop: make(chan struct{}),
	}
}

// Start launches both timers. Call Stop to shut them down.
func (s *Sweeper) Start() {
	s.wg.Add(2)

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cfg.ContextReapInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.ReapContexts()
			}
		}
	}()

	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cfg.HistorySweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				s.SweepHistories()
			}
		}
	}()
}

// Stop halts both timers and waits for in-flight sweeps to finish.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
	s.wg.Wait()
}

// ReapContexts removes contexts idle past the configured age and releases the
// per-session turn locks of the reaped sessions.
func (s *Sweeper) ReapContexts() {
	removed := s.svc.sessions.ReapOlderThan(s.cfg.ContextMaxAge)
	if len(removed) == 0 {
		return
	}
	s.svc.releaseLocks(removed)
	log.Printf("[sweeper] reaped %d idle session contexts", len(removed))
}

// SweepHistories removes histories not updated within the retention window.
func (s *Sweeper) SweepHistories() {
	s.svc.history.SweepStale(s.cfg.HistoryRetention)
}
