package refresh

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"remotive-ranker/internal/config"
	"remotive-ranker/internal/events"
)

// Scheduler drives periodic refreshes from the cron spec in config and
// tracks lifecycle state in an atomic.Value so the API can report it.
type Scheduler struct {
	cron     *cron.Cron
	db       *sql.DB
	cfgVal   *atomic.Value // stores config.Config
	status   *atomic.Value // stores Status
	hub      *events.Hub
	notifier Notifier

	// running gates Run: a cron tick and a POST /refresh may race, and
	// only the CAS winner proceeds.
	running atomic.Int32
}

func NewScheduler(db *sql.DB, cfgVal, status *atomic.Value, hub *events.Hub, notifier Notifier) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		db:       db,
		cfgVal:   cfgVal,
		status:   status,
		hub:      hub,
		notifier: notifier,
	}
}

// Start registers the refresh job and kicks one off immediately so the
// snapshot is populated without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	cfg := s.cfgVal.Load().(config.Config)

	if _, err := s.cron.AddFunc(cfg.Polling.RefreshSpec, func() {
		s.Run(ctx)
	}); err != nil {
		return fmt.Errorf("cron.AddFunc(%q): %w", cfg.Polling.RefreshSpec, err)
	}

	s.cron.Start()
	log.Printf("[scheduler] started, spec=%q", cfg.Polling.RefreshSpec)

	go s.Run(ctx)
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] stopped")
}

// Run executes one refresh with status bookkeeping. Concurrent invocations
// past the first are skipped.
func (s *Scheduler) Run(ctx context.Context) {
	if !s.running.CompareAndSwap(0, 1) {
		log.Println("[refresh] already running, skipping")
		return
	}
	defer s.running.Store(0)

	st := s.loadStatus()
	st.Running = true
	st.LastRunAt = time.Now().UTC().Format(time.RFC3339)
	s.status.Store(st)

	cfg := s.cfgVal.Load().(config.Config)
	res, err := RunOnce(ctx, s.db, cfg, s.hub, s.notifier)

	st = s.loadStatus()
	st.Running = false
	st.Fetched = res.Fetched
	st.Admitted = res.Admitted
	if err != nil {
		st.LastError = err.Error()
		log.Printf("[refresh] error: %v", err)
	} else {
		st.LastError = ""
		st.LastOkAt = time.Now().UTC().Format(time.RFC3339)
		log.Printf("[refresh] ok fetched=%d admitted=%d new=%d", res.Fetched, res.Admitted, res.New)
	}
	s.status.Store(st)
}

func (s *Scheduler) loadStatus() Status {
	if v := s.status.Load(); v != nil {
		return v.(Status)
	}
	return Status{}
}
