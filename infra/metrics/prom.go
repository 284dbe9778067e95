package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kfenech/ferrywatch/core/metrics"
)

// PromSink records tracker events in Prometheus metrics.
type PromSink struct {
	feedTicks   *prometheus.CounterVec
	vesselState *prometheus.GaugeVec
	vesselSpeed *prometheus.GaugeVec
	queueSize   *prometheus.GaugeVec
	predictions *prometheus.CounterVec
	crossing    *prometheus.GaugeVec
	pushes      *prometheus.CounterVec
	streams     prometheus.Gauge
}

// NewPromSink registers ferry metrics on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. If the collectors are already
// registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	feedTicks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ferry_feed_ticks_total",
		Help: "Total number of processed position updates",
	}, []string{"mmsi", "state"})
	vesselState := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ferry_vessel_state",
		Help: "Current vessel state, one series per vessel and state",
	}, []string{"mmsi", "name", "state"})
	vesselSpeed := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ferry_vessel_speed_knots",
		Help: "Last reported vessel speed in knots",
	}, []string{"mmsi", "name"})
	queueSize := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ferry_queue_car_equivalents",
		Help: "Car-equivalent queue length per terminal",
	}, []string{"terminal"})
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ferry_predictions_total",
		Help: "Predictions served, by kind and outcome",
	}, []string{"kind", "terminal", "outcome"})
	crossing := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ferry_crossing_minutes_mean",
		Help: "Observed mean crossing duration into a terminal",
	}, []string{"terminal"})
	pushes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ferry_push_notifications_total",
		Help: "Push notification attempts",
	}, []string{"delivered"})
	streams := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ferry_stream_clients",
		Help: "Currently connected fleet-stream clients",
	})

	collectors := []prometheus.Collector{feedTicks, vesselState, vesselSpeed, queueSize, predictions, crossing, pushes, streams}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			collectors[i] = are.ExistingCollector
		}
	}
	return &PromSink{
		feedTicks:   collectors[0].(*prometheus.CounterVec),
		vesselState: collectors[1].(*prometheus.GaugeVec),
		vesselSpeed: collectors[2].(*prometheus.GaugeVec),
		queueSize:   collectors[3].(*prometheus.GaugeVec),
		predictions: collectors[4].(*prometheus.CounterVec),
		crossing:    collectors[5].(*prometheus.GaugeVec),
		pushes:      collectors[6].(*prometheus.CounterVec),
		streams:     collectors[7].(prometheus.Gauge),
	}, nil
}

func (s *PromSink) RecordFeedTick(ev coremetrics.FeedTickEvent) error {
	mmsi := strconv.Itoa(ev.Vessel.MMSI)
	state := string(ev.Vessel.State)
	s.feedTicks.WithLabelValues(mmsi, state).Inc()
	s.vesselSpeed.WithLabelValues(mmsi, ev.Vessel.Name).Set(float64(ev.Vessel.SpeedTenths) / 10)
	// One-hot across states so dashboards can pivot on the active one.
	for _, st := range []string{"DOCKED_CIRKEWWA", "DOCKED_MGARR", "EN_ROUTE_TO_CIRKEWWA", "EN_ROUTE_TO_MGARR", "UNKNOWN"} {
		val := 0.0
		if st == state {
			val = 1
		}
		s.vesselState.WithLabelValues(mmsi, ev.Vessel.Name, st).Set(val)
	}
	return nil
}

func (s *PromSink) RecordQueue(ev coremetrics.QueueEvent) error {
	s.queueSize.WithLabelValues(string(ev.Terminal)).Set(float64(ev.CarEquivalent))
	return nil
}

func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predictions.WithLabelValues(ev.Kind, string(ev.Terminal), ev.Outcome).Inc()
	return nil
}

func (s *PromSink) RecordCrossing(ev coremetrics.CrossingEvent) error {
	s.crossing.WithLabelValues(string(ev.Terminal)).Set(ev.MeanMinutes)
	return nil
}

func (s *PromSink) RecordPush(ev coremetrics.PushEvent) error {
	s.pushes.WithLabelValues(strconv.FormatBool(ev.Delivered)).Inc()
	return nil
}

func (s *PromSink) RecordStream(ev coremetrics.StreamEvent) error {
	s.streams.Set(float64(ev.Active))
	return nil
}
