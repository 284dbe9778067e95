package routes

import (
	"time"

	coremetrics "github.com/kfenech/ferrywatch/core/metrics"
	"github.com/kfenech/ferrywatch/core/model"
	"github.com/kfenech/ferrywatch/core/vesselstore"
	"github.com/kfenech/ferrywatch/infra/push"
	"github.com/kfenech/ferrywatch/internal/eventbus"
)

// ScheduleSource yields the current day's schedule, or nil when none is
// loaded.
type ScheduleSource interface {
	Current(now time.Time) *model.FerrySchedule
}

// Deps carries the shared state the route handlers read from.
type Deps struct {
	Store    vesselstore.Store
	Schedule ScheduleSource
	Bus      *eventbus.Bus
	Registry *push.Registry
	Sink     coremetrics.MetricsSink
}

func (d Deps) sink() coremetrics.MetricsSink {
	if d.Sink == nil {
		return coremetrics.NopSink{}
	}
	return d.Sink
}

func (d Deps) currentSchedule(now time.Time) *model.FerrySchedule {
	if d.Schedule == nil {
		return nil
	}
	return d.Schedule.Current(now)
}
