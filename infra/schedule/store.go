package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/kfenech/ferrywatch/core/model"
	"github.com/kfenech/ferrywatch/infra/logger"
)

// Config defines settings for the schedule collaborator.
type Config struct {
	BaseURL string `json:"base_url"`
	// CacheDir is where per-day documents are cached on disk.
	CacheDir string `json:"cache_dir"`
	// RefreshMinutes is how often the store checks for a day rollover.
	RefreshMinutes int `json:"refresh_minutes"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.RefreshMinutes <= 0 {
		c.RefreshMinutes = 30
	}
}

// Store serves the current day's schedule to the predictors. It clears and
// refetches when the calendar date rolls over; a failed fetch degrades to
// "no schedule" rather than serving yesterday's board.
type Store struct {
	mu      sync.RWMutex
	current *model.FerrySchedule
	fetcher *Fetcher
	refresh time.Duration
	log     logger.Logger
	// alert pings ops on fetch failures; may be nil.
	alert func(msg string)
}

// NewStore creates a Store around the given fetcher.
func NewStore(fetcher *Fetcher, cfg Config, alert func(string)) *Store {
	cfg.SetDefaults()
	return &Store{
		fetcher: fetcher,
		refresh: time.Duration(cfg.RefreshMinutes) * time.Minute,
		log:     logger.New("schedule_store"),
		alert:   alert,
	}
}

// Current returns today's schedule or nil when none is available. A schedule
// whose date no longer matches today is withheld; the next Refresh replaces
// it.
func (s *Store) Current(now time.Time) *model.FerrySchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil || s.current.Date != now.Format("2006-01-02") {
		return nil
	}
	return s.current
}

// Refresh fetches today's schedule if the stored one is missing or stale.
func (s *Store) Refresh(ctx context.Context, now time.Time) error {
	if s.Current(now) != nil {
		return nil
	}
	sched, err := s.fetcher.Fetch(ctx, now)
	if err != nil {
		s.log.Errorf("schedule fetch: %v", err)
		if s.alert != nil {
			s.alert("Schedule fetch error: " + err.Error())
		}
		return err
	}
	s.mu.Lock()
	s.current = sched
	s.mu.Unlock()
	return nil
}

// Run refreshes immediately and then on every tick until the context is
// cancelled. Fetch failures are retried on the next tick.
func (s *Store) Run(ctx context.Context) {
	_ = s.Refresh(ctx, time.Now())
	ticker := time.NewTicker(s.refresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Refresh(ctx, time.Now())
		}
	}
}
