package app

import (
	"time"

	"github.com/kfenech/ferrywatch/core/classify"
	coremetrics "github.com/kfenech/ferrywatch/core/metrics"
	"github.com/kfenech/ferrywatch/core/model"
	"github.com/kfenech/ferrywatch/core/predict"
	"github.com/kfenech/ferrywatch/core/vesselstore"
	"github.com/kfenech/ferrywatch/infra/logger"
	"github.com/kfenech/ferrywatch/internal/eventbus"
)

// ingestor is the MQTT handler: it classifies incoming fixes, updates the
// fleet store and fans the refreshed fleet out on the bus.
type ingestor struct {
	store *vesselstore.MemoryStore
	bus   *eventbus.Bus
	sink  coremetrics.MetricsSink
	log   logger.Logger
}

func newIngestor(store *vesselstore.MemoryStore, bus *eventbus.Bus, sink coremetrics.MetricsSink) *ingestor {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &ingestor{store: store, bus: bus, sink: sink, log: logger.New("ingest")}
}

func (i *ingestor) HandlePosition(snap model.VesselSnapshot) {
	vessel, ok := classify.Vessel(snap)
	if !ok {
		i.log.Debugf("ignore fix from unknown MMSI %d", snap.MMSI)
		return
	}
	i.store.Set(vessel)
	i.bus.Publish(eventbus.FleetUpdate{Vessels: i.store.List()})
	if err := i.sink.RecordFeedTick(coremetrics.FeedTickEvent{Vessel: vessel, Time: snap.Timestamp}); err != nil {
		i.log.Warnf("record feed tick: %v", err)
	}
}

func (i *ingestor) HandleQueue(terminal model.Terminal, q model.QueueSnapshot) {
	i.store.SetQueue(terminal, q)
	if err := i.sink.RecordQueue(coremetrics.QueueEvent{
		Terminal:      terminal,
		CarEquivalent: predict.CarEquivalent(q),
		Time:          time.Now(),
	}); err != nil {
		i.log.Warnf("record queue: %v", err)
	}
}
