package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// CatalogReloader is the slice of the translation service the refresher needs.
type CatalogReloader interface {
	Reload(ctx context.Context, forceRefresh bool) error
}

// CatalogRefresher periodically reloads the translation catalog. The reload
// itself is staleness-gated, so a schedule tighter than the staleness window
// only costs a timestamp read.
type CatalogRefresher struct {
	reloader CatalogReloader
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isWorking  bool
	cancelFunc context.CancelFunc
}

// NewCatalogRefresher creates a new refresher with a standard 5-field cron
// schedule.
func NewCatalogRefresher(reloader CatalogReloader, schedule string) *CatalogRefresher {
	return &CatalogRefresher{
		reloader: reloader,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *CatalogRefresher) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runRefresh()
	})
	if err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Catalog refresher: started with schedule '%s'", s.schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running refresh to
// complete.
func (s *CatalogRefresher) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Catalog refresher: stopped")
}

// RunNow triggers an immediate refresh.
func (s *CatalogRefresher) RunNow() {
	go s.runRefresh()
}

// IsRunning returns whether the scheduler is active.
func (s *CatalogRefresher) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next refresh will occur.
func (s *CatalogRefresher) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *CatalogRefresher) runRefresh() {
	s.mu.Lock()
	if s.isWorking {
		s.mu.Unlock()
		log.Printf("Catalog refresh: skipped (already refreshing)")
		return
	}
	s.isWorking = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isWorking = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()
	if err := s.reloader.Reload(ctx, false); err != nil {
		log.Printf("Catalog refresh: failed: %v", err)
		return
	}
	log.Printf("Catalog refresh: completed in %v", time.Since(start).Round(time.Millisecond))
}
