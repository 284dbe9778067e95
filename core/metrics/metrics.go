package metrics

import (
	"time"

	"github.com/kfenech/ferrywatch/core/model"
)

// FeedTickEvent is one processed position update.
type FeedTickEvent struct {
	Vessel model.Vessel
	Time   time.Time
}

// QueueEvent is one processed queue-sensor update.
type QueueEvent struct {
	Terminal      model.Terminal
	CarEquivalent int
	Time          time.Time
}

// PredictionEvent records one prediction served to a caller.
type PredictionEvent struct {
	Kind     string // "safety" or "ferry"
	Terminal model.Terminal
	Outcome  string // safety status or confidence tier
	Time     time.Time
}

// CrossingEvent summarizes the observed crossing durations so far.
type CrossingEvent struct {
	Terminal    model.Terminal
	MeanMinutes float64
	StdDev      float64
	Samples     int
	Time        time.Time
}

// PushEvent records one push notification attempt.
type PushEvent struct {
	Delivered bool
	Time      time.Time
}

// StreamEvent reports the number of connected fleet-stream clients after a
// connect or disconnect.
type StreamEvent struct {
	Active int
	Time   time.Time
}

// MetricsSink records tracker events for observability. Implementations must
// be safe for concurrent use; failures are reported, never fatal.
type MetricsSink interface {
	RecordFeedTick(ev FeedTickEvent) error
	RecordQueue(ev QueueEvent) error
	RecordPrediction(ev PredictionEvent) error
	RecordCrossing(ev CrossingEvent) error
	RecordPush(ev PushEvent) error
	RecordStream(ev StreamEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordFeedTick(FeedTickEvent) error     { return nil }
func (NopSink) RecordQueue(QueueEvent) error           { return nil }
func (NopSink) RecordPrediction(PredictionEvent) error { return nil }
func (NopSink) RecordCrossing(CrossingEvent) error     { return nil }
func (NopSink) RecordPush(PushEvent) error             { return nil }
func (NopSink) RecordStream(StreamEvent) error         { return nil }

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}
