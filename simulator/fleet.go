package main

import (
	"math/rand"

	"github.com/kfenech/ferrywatch/core/model"
)

// FleetConfig holds the shared timing parameters for the simulated fleet.
type FleetConfig struct {
	DwellMinutes    float64
	CrossingMinutes float64
	// Hulls limits the fleet size, mostly useful for single-boat testing.
	// Zero means all four.
	Hulls int
}

// GenerateFleet builds the Gozo Channel fleet with staggered cycle offsets:
// two hulls start from each berth, half a leg apart, which is roughly how the
// real rotation looks on a normal day.
func GenerateFleet(cfg FleetConfig) []SimulatedFerry {
	leg := cfg.DwellMinutes + cfg.CrossingMinutes
	fleet := []SimulatedFerry{
		{MMSI: model.NikolausMMSI, Name: "MV Nikolaos", Home: model.TerminalCirkewwa, Offset: 0},
		{MMSI: 215145000, Name: "MV Malita", Home: model.TerminalMgarr, Offset: 0},
		{MMSI: 248928000, Name: "MV Gaudos", Home: model.TerminalCirkewwa, Offset: leg / 2},
		{MMSI: 248692000, Name: "MV Ta' Pinu", Home: model.TerminalMgarr, Offset: leg / 2},
	}
	if cfg.Hulls > 0 && cfg.Hulls < len(fleet) {
		fleet = fleet[:cfg.Hulls]
	}
	for i := range fleet {
		fleet[i].DwellMinutes = cfg.DwellMinutes
		fleet[i].CrossingMinutes = cfg.CrossingMinutes
	}
	return fleet
}

// QueueWalk drifts a terminal's vehicle counts with a bounded random walk so
// the queue feed looks alive without running away.
type QueueWalk struct {
	rng   *rand.Rand
	queue model.QueueSnapshot
}

func NewQueueWalk(seed int64, start model.QueueSnapshot) *QueueWalk {
	return &QueueWalk{rng: rand.New(rand.NewSource(seed)), queue: start}
}

// Next advances the walk one step and returns the new snapshot.
func (w *QueueWalk) Next() model.QueueSnapshot {
	w.queue.Cars = clampCount(w.queue.Cars+w.rng.Intn(11)-5, 300)
	w.queue.Trucks = clampCount(w.queue.Trucks+w.rng.Intn(3)-1, 40)
	w.queue.Motorbikes = clampCount(w.queue.Motorbikes+w.rng.Intn(5)-2, 60)
	return w.queue
}

func clampCount(n, max int) int {
	if n < 0 {
		return 0
	}
	if n > max {
		return max
	}
	return n
}
