package predict

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kfenech/ferrywatch/core/geo"
	"github.com/kfenech/ferrywatch/core/model"
)

// Confidence grades how directly observed the supporting data is. The tiers
// are advisory and surfaced to the UI as-is; nothing downstream branches on
// them.
type Confidence string

const (
	// ConfidenceHigh means the vessel is physically docked at the target now.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium means readiness was computed from a live en-route fix.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow covers the fallback, no-data and unreachable-drain cases.
	ConfidenceLow Confidence = "low"
)

// FerryPrediction answers "which boat will this user most likely board".
// DepartureTime is nil when the ferry is already there and waiting, otherwise
// an "HH:MM" estimate.
type FerryPrediction struct {
	Ferry         *model.Vessel `json:"ferry"`
	Confidence    Confidence    `json:"confidence"`
	Reason        string        `json:"reason"`
	DepartureTime *string       `json:"departure_time"`
}

// readiness is one vessel's earliest possible departure from the target
// terminal, in minutes of day.
type readiness struct {
	vessel model.Vessel
	ready  float64
	// depart is ready snapped onto the published schedule when one is
	// available; equal to ready otherwise.
	depart float64
	docked bool
	detail string
}

// LikelyFerry predicts which vessel and departure will serve a user arriving
// at the target terminal after driveTime minutes (nil means imminently).
// Both sched and queue are optional; without queue data the prediction falls
// back to the queue-free path, and without a schedule departures are estimated
// purely from vessel readiness.
func LikelyFerry(vessels []model.Vessel, terminal model.Terminal, driveTime *int, sched *model.FerrySchedule, queue *model.QueueSnapshot, now time.Time) FerryPrediction {
	if len(vessels) == 0 {
		return FerryPrediction{Confidence: ConfidenceLow, Reason: "No ferry data available"}
	}

	nowMin := float64(now.Hour()*60 + now.Minute())
	userArrival := nowMin
	if driveTime != nil {
		userArrival = nowMin + float64(*driveTime+BufferTime)
	}

	timeline := readinessTimeline(vessels, terminal, nowMin)
	if len(timeline) == 0 {
		return FerryPrediction{Confidence: ConfidenceLow, Reason: "Unable to predict"}
	}
	assignDepartures(timeline, sched, terminal, nowMin)

	if queue == nil {
		return pickQueueFree(timeline, userArrival)
	}
	return drainQueue(timeline, *queue, userArrival)
}

// readinessTimeline computes, for every vessel, the earliest minute of day it
// could depart from the target terminal, sorted ascending. Vessels with no
// computable ETA (stationary mid-channel) and vessels of unknown whereabouts
// are excluded.
func readinessTimeline(vessels []model.Vessel, terminal model.Terminal, nowMin float64) []readiness {
	lat, lon := terminal.Coordinates()
	otherLat, otherLon := terminal.Other().Coordinates()

	var timeline []readiness
	for _, v := range vessels {
		switch {
		case v.State.DockedAt(terminal):
			timeline = append(timeline, readiness{vessel: v, ready: nowMin, depart: nowMin, docked: true, detail: "docked"})

		case v.State.EnRouteTo(terminal):
			eta := geo.EstimateArrivalMinutes(geo.DistanceKm(v.Lat, v.Lon, lat, lon), v.SpeedTenths)
			if math.IsInf(eta, 1) {
				continue
			}
			ready := nowMin + eta + TurnaroundTime
			timeline = append(timeline, readiness{vessel: v, ready: ready, depart: ready, detail: "arriving"})

		case v.State.DockedAt(terminal.Other()):
			ready := nowMin + TurnaroundTime + AverageCrossingTime + TurnaroundTime
			timeline = append(timeline, readiness{vessel: v, ready: ready, depart: ready, detail: "at " + terminal.Other().DisplayName()})

		case v.State.EnRouteTo(terminal.Other()):
			eta := geo.EstimateArrivalMinutes(geo.DistanceKm(v.Lat, v.Lon, otherLat, otherLon), v.SpeedTenths)
			if math.IsInf(eta, 1) {
				continue
			}
			ready := nowMin + eta + TurnaroundTime + AverageCrossingTime + TurnaroundTime
			timeline = append(timeline, readiness{vessel: v, ready: ready, depart: ready, detail: "returning"})
		}
	}

	sort.SliceStable(timeline, func(i, j int) bool { return timeline[i].ready < timeline[j].ready })
	return timeline
}

// assignDepartures greedily matches the readiness-ordered vessels to the
// remaining scheduled departures: each vessel takes the first unassigned
// departure at or after its readiness. This is deliberately not an optimal
// bipartite matching; with four hulls and a handful of daily departures the
// greedy answer is the one a person reading the board would give. Vessels
// left without a slot keep their raw readiness as the departure estimate.
func assignDepartures(timeline []readiness, sched *model.FerrySchedule, terminal model.Terminal, nowMin float64) {
	if sched == nil {
		return
	}
	var slots []float64
	for _, s := range sched.DeparturesFor(terminal) {
		dep, ok := model.ParseClock(s)
		if !ok {
			continue
		}
		if float64(dep) >= nowMin {
			slots = append(slots, float64(dep))
		}
	}
	next := 0
	for i := range timeline {
		for next < len(slots) && slots[next] < timeline[i].ready {
			next++
		}
		if next >= len(slots) {
			return
		}
		timeline[i].depart = slots[next]
		next++
	}
}

// pickQueueFree is the no-queue-data path: the first vessel already waiting
// when the user shows up wins, else the earliest-ready vessel is offered as a
// "will arrive by then" answer.
func pickQueueFree(timeline []readiness, userArrival float64) FerryPrediction {
	for i := range timeline {
		e := &timeline[i]
		if e.ready > userArrival {
			continue
		}
		conf := ConfidenceMedium
		reason := fmt.Sprintf("%s should be waiting when you arrive", e.vessel.Name)
		if e.docked {
			conf = ConfidenceHigh
			reason = fmt.Sprintf("%s is currently docked", e.vessel.Name)
		}
		return FerryPrediction{Ferry: &e.vessel, Confidence: conf, Reason: reason}
	}

	first := &timeline[0]
	dep := clock(first.depart)
	return FerryPrediction{
		Ferry:         &first.vessel,
		Confidence:    ConfidenceMedium,
		Reason:        fmt.Sprintf("%s should arrive by then (%s)", first.vessel.Name, first.detail),
		DepartureTime: &dep,
	}
}

// drainQueue walks the readiness timeline subtracting each vessel's car-deck
// capacity from the backlog. The user's ferry is the first departure that
// both clears the remaining queue and leaves at or after the user arrives.
// Departures before the user's arrival still shrink the backlog, but the
// remainder is clamped at zero: an early half-empty boat does not bank spare
// capacity for a later one.
func drainQueue(timeline []readiness, queue model.QueueSnapshot, userArrival float64) FerryPrediction {
	remaining := float64(CarEquivalent(queue))

	var cleared *readiness
	for i := range timeline {
		e := &timeline[i]
		remaining -= float64(model.CapacityFor(e.vessel.Name))
		if remaining <= 0 {
			if e.depart >= userArrival {
				conf := ConfidenceMedium
				if e.docked {
					conf = ConfidenceHigh
				}
				dep := clock(e.depart)
				return FerryPrediction{
					Ferry:         &e.vessel,
					Confidence:    conf,
					Reason:        fmt.Sprintf("Queue clears by the %s departure (%s)", dep, e.vessel.Name),
					DepartureTime: &dep,
				}
			}
			// The boat leaves before the user arrives; it drains the queue
			// but cannot be the user's ferry.
			remaining = 0
			cleared = e
		}
	}

	if cleared != nil {
		// The backlog is gone before the user arrives but every known boat
		// has left by then. Offer the clearing boat's next run: one round
		// trip after the departure that emptied the queue.
		dep := clock(cleared.depart + AverageCrossingTime + TurnaroundTime + AverageCrossingTime + TurnaroundTime)
		return FerryPrediction{
			Ferry:         &cleared.vessel,
			Confidence:    ConfidenceLow,
			Reason:        fmt.Sprintf("Queue should be clear - catch %s on its next run", cleared.vessel.Name),
			DepartureTime: &dep,
		}
	}

	last := &timeline[len(timeline)-1]
	dep := clock(last.depart)
	return FerryPrediction{
		Ferry:         &last.vessel,
		Confidence:    ConfidenceLow,
		Reason:        "Heavy queue - expect delays",
		DepartureTime: &dep,
	}
}

func clock(minuteOfDay float64) string {
	return model.FormatClock(int(math.Round(minuteOfDay)))
}
