// Package safetywatch re-evaluates terminal safety on every fleet update and
// pushes a notification to subscribed devices when a terminal's verdict
// changes tier.
package safetywatch

import (
	"context"
	"time"

	coremetrics "github.com/kfenech/ferrywatch/core/metrics"
	"github.com/kfenech/ferrywatch/core/model"
	"github.com/kfenech/ferrywatch/core/predict"
	"github.com/kfenech/ferrywatch/infra/logger"
	"github.com/kfenech/ferrywatch/infra/push"
	"github.com/kfenech/ferrywatch/internal/eventbus"
)

// ScheduleSource yields the current day's schedule, or nil.
type ScheduleSource interface {
	Current(now time.Time) *model.FerrySchedule
}

// Watcher tracks the last verdict per terminal and alerts on change.
type Watcher struct {
	bus      *eventbus.Bus
	sched    ScheduleSource
	sender   push.Sender
	registry *push.Registry
	sink     coremetrics.MetricsSink
	log      logger.Logger

	last map[model.Terminal]predict.SafetyStatus
}

// New creates a Watcher. sender may be nil, in which case changes are only
// logged.
func New(bus *eventbus.Bus, sched ScheduleSource, sender push.Sender, registry *push.Registry, sink coremetrics.MetricsSink) *Watcher {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Watcher{
		bus:      bus,
		sched:    sched,
		sender:   sender,
		registry: registry,
		sink:     sink,
		log:      logger.New("safetywatch"),
		last:     map[model.Terminal]predict.SafetyStatus{},
	}
}

// Run consumes fleet updates until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	id, ch := w.bus.Subscribe()
	defer w.bus.Unsubscribe(id)
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-ch:
			if !ok {
				return
			}
			w.evaluate(ctx, update)
		}
	}
}

func (w *Watcher) evaluate(ctx context.Context, update eventbus.FleetUpdate) {
	now := time.Now()
	var nikolaus *model.Vessel
	for i := range update.Vessels {
		if update.Vessels[i].IsNikolaus {
			nikolaus = &update.Vessels[i]
			break
		}
	}

	var sched *model.FerrySchedule
	if w.sched != nil {
		sched = w.sched.Current(now)
	}

	for _, terminal := range []model.Terminal{model.TerminalCirkewwa, model.TerminalMgarr} {
		res := predict.TerminalSafety(nikolaus, terminal, nil, sched, now)
		prev, seen := w.last[terminal]
		w.last[terminal] = res.Status
		if !seen || prev == res.Status {
			continue
		}
		w.log.Infof("%s safety changed %s -> %s: %s", terminal, prev, res.Status, res.Reason)
		w.notify(ctx, terminal, res)
	}
}

func (w *Watcher) notify(ctx context.Context, terminal model.Terminal, res predict.SafetyResult) {
	if w.sender == nil || w.registry == nil {
		return
	}
	title := "Ferry update for " + terminal.DisplayName()
	for _, sub := range w.registry.For(string(terminal)) {
		err := w.sender.Send(ctx, sub.Token, title, res.Reason)
		if err != nil {
			w.log.Warnf("push to %s failed: %v", sub.ID, err)
		}
		_ = w.sink.RecordPush(coremetrics.PushEvent{Delivered: err == nil, Time: time.Now()})
	}
}
