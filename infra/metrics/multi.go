package metrics

import coremetrics "github.com/kfenech/ferrywatch/core/metrics"

// MultiSink fanouts events to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordFeedTick forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordFeedTick(ev coremetrics.FeedTickEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordFeedTick(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordQueue(ev coremetrics.QueueEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordQueue(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPrediction(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordCrossing(ev coremetrics.CrossingEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordCrossing(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordPush(ev coremetrics.PushEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPush(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordStream(ev coremetrics.StreamEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordStream(ev); err != nil {
			return err
		}
	}
	return nil
}
