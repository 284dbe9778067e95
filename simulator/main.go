// The simulator publishes a synthetic AIS and queue feed for local
// development: the four Gozo Channel hulls shuttling between Cirkewwa and
// Mgarr, plus a slowly drifting vehicle queue at each terminal. Point a
// ferrywatch instance at the same broker and the whole pipeline runs without
// a live relay.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kfenech/ferrywatch/core/model"
)

type Config struct {
	Broker   string
	Interval time.Duration
	Speedup  float64
	Dwell    float64
	Crossing float64
	Hulls    int
	Seed     int64
	Verbose  bool
}

func main() {
	cfg := parseFlags()
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli, err := newMQTTClient(cfg.Broker, "ferrywatch-sim")
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect %s: %v\n", cfg.Broker, err)
		os.Exit(1)
	}
	defer cli.Disconnect(250)

	fleet := GenerateFleet(FleetConfig{
		DwellMinutes:    cfg.Dwell,
		CrossingMinutes: cfg.Crossing,
		Hulls:           cfg.Hulls,
	})
	queues := map[model.Terminal]*QueueWalk{
		model.TerminalCirkewwa: NewQueueWalk(cfg.Seed, model.QueueSnapshot{Cars: 40, Trucks: 4, Motorbikes: 10}),
		model.TerminalMgarr:    NewQueueWalk(cfg.Seed+1, model.QueueSnapshot{Cars: 25, Trucks: 2, Motorbikes: 6}),
	}

	start := time.Now()
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()
	tick := 0

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			simMinutes := now.Sub(start).Minutes() * cfg.Speedup
			for i := range fleet {
				publishPosition(cli, &fleet[i], simMinutes, now)
			}
			// Queue sensors report far less often than the AIS relay.
			if tick%6 == 0 {
				for terminal, walk := range queues {
					publishQueue(cli, terminal, walk.Next())
				}
			}
			tick++
		}
	}
}

func parseFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Broker, "broker", "tcp://localhost:1883", "MQTT broker URL")
	flag.DurationVar(&cfg.Interval, "interval", 5*time.Second, "position publish interval")
	flag.Float64Var(&cfg.Speedup, "speedup", 1, "simulated clock multiplier")
	flag.Float64Var(&cfg.Dwell, "dwell", 15, "minutes docked between crossings")
	flag.Float64Var(&cfg.Crossing, "crossing", 25, "crossing duration in minutes")
	flag.IntVar(&cfg.Hulls, "hulls", 0, "limit the fleet size (0 = all four)")
	flag.Int64Var(&cfg.Seed, "seed", 1, "queue walk seed")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose logging")
	flag.Parse()
	return cfg
}

func publishPosition(cli pahoPublisher, f *SimulatedFerry, simMinutes float64, now time.Time) {
	snap := f.Fix(simMinutes)
	payload, err := json.Marshal(map[string]interface{}{
		"MMSI":      snap.MMSI,
		"LAT":       snap.Lat,
		"LON":       snap.Lon,
		"SPEED":     snap.SpeedTenths,
		"HEADING":   snap.Heading,
		"COURSE":    snap.Course,
		"TIMESTAMP": now.UnixMilli(),
	})
	if err != nil {
		log.Printf("%s: marshal: %v", f.Name, err)
		return
	}
	topic := fmt.Sprintf("ferries/positions/%d", snap.MMSI)
	if token := cli.Publish(topic, 0, false, payload); token.Wait() && token.Error() != nil {
		log.Printf("%s: publish: %v", f.Name, token.Error())
	}
}

func publishQueue(cli pahoPublisher, terminal model.Terminal, q model.QueueSnapshot) {
	payload, err := json.Marshal(q)
	if err != nil {
		log.Printf("queue %s: marshal: %v", terminal, err)
		return
	}
	topic := fmt.Sprintf("ferries/queues/%s", terminal)
	if token := cli.Publish(topic, 0, false, payload); token.Wait() && token.Error() != nil {
		log.Printf("queue %s: publish: %v", terminal, token.Error())
	}
}
