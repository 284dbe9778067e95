// Package schedule fetches and caches the published daily departure board.
// The operator publishes one JSON document per calendar day; the fetcher
// keeps a per-day file cache so a restart does not re-hit the endpoint.
package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kfenech/ferrywatch/core/model"
	"github.com/kfenech/ferrywatch/infra/logger"
)

const defaultBaseURL = "https://static.gozochannel.com/schedules"

// Fetcher retrieves one day's schedule from the published endpoint.
type Fetcher struct {
	baseURL  string
	client   *http.Client
	cacheDir string
	log      logger.Logger
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithBaseURL overrides the published schedule endpoint.
func WithBaseURL(u string) Option { return func(f *Fetcher) { f.baseURL = u } }

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(f *Fetcher) { f.client = c } }

// WithCacheDir sets the directory for the per-day file cache. Empty disables
// caching.
func WithCacheDir(dir string) Option { return func(f *Fetcher) { f.cacheDir = dir } }

// NewFetcher creates a Fetcher with a 10 second request timeout by default.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     logger.New("schedule_fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// timeEntry is one departure slot as published.
type timeEntry struct {
	Name string `json:"name"` // "09:00"
	Slug string `json:"slug"`
}

// apiResponse mirrors the published document.
type apiResponse struct {
	Date  string `json:"date"`
	Times struct {
		Cirkewwa []timeEntry `json:"cirkewwa"`
		Mgarr    []timeEntry `json:"mgarr"`
	} `json:"times"`
}

// Fetch returns the schedule for the given day, consulting the file cache
// first. The returned schedule's departures are deduplicated in published
// order.
func (f *Fetcher) Fetch(ctx context.Context, day time.Time) (*model.FerrySchedule, error) {
	dateStr := day.Format("2006-01-02")

	if cached := f.loadCache(dateStr); cached != nil {
		f.log.Infof("loaded schedule for %s from cache", dateStr)
		return cached, nil
	}

	url := fmt.Sprintf("%s/%s/passenger.json", f.baseURL, day.Format("2006/01/02"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}

	sched := &model.FerrySchedule{
		Date:     data.Date,
		Cirkewwa: dedupe(data.Times.Cirkewwa),
		Mgarr:    dedupe(data.Times.Mgarr),
	}
	f.saveCache(dateStr, sched)
	f.log.Infof("fetched schedule for %s: %d Cirkewwa departures, %d Mgarr departures",
		dateStr, len(sched.Cirkewwa), len(sched.Mgarr))
	return sched, nil
}

// dedupe collapses repeated slots while keeping published order.
func dedupe(entries []timeEntry) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range entries {
		if seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		out = append(out, e.Name)
	}
	return out
}

func (f *Fetcher) cachePath(dateStr string) string {
	return filepath.Join(f.cacheDir, "schedule-"+dateStr+".json")
}

func (f *Fetcher) loadCache(dateStr string) *model.FerrySchedule {
	if f.cacheDir == "" {
		return nil
	}
	raw, err := os.ReadFile(f.cachePath(dateStr))
	if err != nil {
		return nil
	}
	var sched model.FerrySchedule
	if err := json.Unmarshal(raw, &sched); err != nil {
		return nil
	}
	return &sched
}

func (f *Fetcher) saveCache(dateStr string, sched *model.FerrySchedule) {
	if f.cacheDir == "" {
		return
	}
	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		f.log.Warnf("create cache dir: %v", err)
		return
	}
	raw, err := json.MarshalIndent(sched, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(f.cachePath(dateStr), raw, 0o644); err != nil {
		f.log.Warnf("write schedule cache: %v", err)
	}
}
