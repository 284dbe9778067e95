// Package crossingstats measures how long the observed crossings actually
// take, as a sanity check on the fixed crossing-time constant the predictors
// use. Results are purely observational and only surface through the metrics
// sink; nothing feeds back into the predictions.
package crossingstats

import (
	"context"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	coremetrics "github.com/kfenech/ferrywatch/core/metrics"
	"github.com/kfenech/ferrywatch/core/model"
	"github.com/kfenech/ferrywatch/infra/logger"
	"github.com/kfenech/ferrywatch/internal/eventbus"
)

// maxSamples bounds the in-memory window per terminal. Older crossings age
// out; nothing is persisted.
const maxSamples = 50

// Tracker watches state transitions and records completed crossings.
type Tracker struct {
	bus  *eventbus.Bus
	sink coremetrics.MetricsSink
	log  logger.Logger

	mu sync.Mutex
	// departedAt holds the moment a vessel was last seen leaving a terminal,
	// keyed by MMSI.
	departedAt map[int]departure
	samples    map[model.Terminal][]float64
	lastState  map[int]model.VesselState
}

type departure struct {
	from model.Terminal
	at   time.Time
}

// New creates a Tracker.
func New(bus *eventbus.Bus, sink coremetrics.MetricsSink) *Tracker {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Tracker{
		bus:        bus,
		sink:       sink,
		log:        logger.New("crossingstats"),
		departedAt: map[int]departure{},
		samples:    map[model.Terminal][]float64{},
		lastState:  map[int]model.VesselState{},
	}
}

// Run consumes fleet updates until the context is cancelled.
func (t *Tracker) Run(ctx context.Context) {
	id, ch := t.bus.Subscribe()
	defer t.bus.Unsubscribe(id)
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-ch:
			if !ok {
				return
			}
			for _, v := range update.Vessels {
				t.Observe(v, time.Now())
			}
		}
	}
}

// Observe feeds one classified fix into the tracker.
func (t *Tracker) Observe(v model.Vessel, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.lastState[v.MMSI]
	t.lastState[v.MMSI] = v.State
	if prev == "" || prev == v.State {
		return
	}

	// Leaving a berth starts the clock.
	for _, terminal := range []model.Terminal{model.TerminalCirkewwa, model.TerminalMgarr} {
		if prev.DockedAt(terminal) && v.State.EnRouteTo(terminal.Other()) {
			t.departedAt[v.MMSI] = departure{from: terminal, at: now}
			return
		}
	}

	// Arriving at the far berth completes a crossing.
	for _, terminal := range []model.Terminal{model.TerminalCirkewwa, model.TerminalMgarr} {
		if !v.State.DockedAt(terminal) {
			continue
		}
		dep, ok := t.departedAt[v.MMSI]
		if !ok || dep.from == terminal {
			continue
		}
		delete(t.departedAt, v.MMSI)
		minutes := now.Sub(dep.at).Minutes()
		if minutes <= 0 || minutes > 120 {
			// Stale departure marker, e.g. the vessel went off to lay-up.
			continue
		}
		t.record(terminal, minutes, now)
	}
}

func (t *Tracker) record(arrivedAt model.Terminal, minutes float64, now time.Time) {
	s := append(t.samples[arrivedAt], minutes)
	if len(s) > maxSamples {
		s = s[len(s)-maxSamples:]
	}
	t.samples[arrivedAt] = s

	mean, std := stat.MeanStdDev(s, nil)
	if len(s) < 2 {
		std = 0
	}
	t.log.Debugw("crossing completed", map[string]any{
		"terminal": arrivedAt,
		"minutes":  minutes,
		"mean":     mean,
	})
	_ = t.sink.RecordCrossing(coremetrics.CrossingEvent{
		Terminal:    arrivedAt,
		MeanMinutes: mean,
		StdDev:      std,
		Samples:     len(s),
		Time:        now,
	})
}

// Mean returns the observed mean crossing minutes into a terminal and the
// sample count.
func (t *Tracker) Mean(terminal model.Terminal) (float64, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.samples[terminal]
	if len(s) == 0 {
		return 0, 0
	}
	return stat.Mean(s, nil), len(s)
}
