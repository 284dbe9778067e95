package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kfenech/ferrywatch/core/metrics"
	"github.com/kfenech/ferrywatch/infra/logger"
)

// InfluxSink writes tracker events to an InfluxDB instance using the official
// client. Raw position tracks are never written, only aggregate events.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

func (s *InfluxSink) RecordFeedTick(ev coremetrics.FeedTickEvent) error {
	p := write.NewPointWithMeasurement("feed_tick").
		AddTag("mmsi", strconv.Itoa(ev.Vessel.MMSI)).
		AddTag("name", ev.Vessel.Name).
		AddTag("state", string(ev.Vessel.State)).
		AddField("speed_knots", round3(float64(ev.Vessel.SpeedTenths)/10)).
		SetTime(ev.Time)
	return s.write(p)
}

func (s *InfluxSink) RecordQueue(ev coremetrics.QueueEvent) error {
	p := write.NewPointWithMeasurement("queue").
		AddTag("terminal", string(ev.Terminal)).
		AddField("car_equivalents", ev.CarEquivalent).
		SetTime(ev.Time)
	return s.write(p)
}

func (s *InfluxSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	p := write.NewPointWithMeasurement("prediction").
		AddTag("kind", ev.Kind).
		AddTag("terminal", string(ev.Terminal)).
		AddTag("outcome", ev.Outcome).
		AddField("count", 1).
		SetTime(ev.Time)
	return s.write(p)
}

func (s *InfluxSink) RecordCrossing(ev coremetrics.CrossingEvent) error {
	p := write.NewPointWithMeasurement("crossing").
		AddTag("terminal", string(ev.Terminal)).
		AddField("mean_minutes", round3(ev.MeanMinutes)).
		AddField("stddev_minutes", round3(ev.StdDev)).
		AddField("samples", ev.Samples).
		SetTime(ev.Time)
	return s.write(p)
}

func (s *InfluxSink) RecordPush(ev coremetrics.PushEvent) error {
	p := write.NewPointWithMeasurement("push").
		AddTag("delivered", strconv.FormatBool(ev.Delivered)).
		AddField("count", 1).
		SetTime(ev.Time)
	return s.write(p)
}

func (s *InfluxSink) RecordStream(ev coremetrics.StreamEvent) error {
	p := write.NewPointWithMeasurement("stream").
		AddField("clients", ev.Active).
		SetTime(ev.Time)
	return s.write(p)
}

func (s *InfluxSink) write(p *write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
