// Package predict implements the prediction engine: terminal safety for the
// Nikolaos, the queue-aware likely-ferry predictor, the queue severity
// estimator and the Nikolaos position forecast.
//
// Every function is a pure function of its arguments; the wall clock is
// always injected so predictions are reproducible in tests. The package does
// no I/O and holds no state, and is safe for concurrent use.
package predict

import (
	"fmt"
	"math"
	"time"

	"github.com/kfenech/ferrywatch/core/geo"
	"github.com/kfenech/ferrywatch/core/model"
)

// Timing constants in minutes. Crossing and turnaround were measured over
// several weeks of observed sailings.
const (
	// BufferTime is added to the drive estimate for parking and boarding.
	BufferTime = 15
	// TurnaroundTime is how long a vessel berths between arrival and the
	// next departure.
	TurnaroundTime = 15
	// AverageCrossingTime is a one-way Ċirkewwa-Mġarr crossing.
	AverageCrossingTime = 25
)

// SafetyStatus is the three-level verdict for one terminal.
type SafetyStatus string

const (
	// AllClear means the Nikolaos will not be the user's boat.
	AllClear SafetyStatus = "ALL_CLEAR"
	// HeadsUp means the timing is too uncertain to call.
	HeadsUp SafetyStatus = "HEADS_UP"
	// DockedHere means the Nikolaos is at the terminal and likely next out.
	DockedHere SafetyStatus = "DOCKED_HERE"
)

// SafetyResult is the verdict for one terminal. It is plain serializable
// data with no behaviour.
type SafetyResult struct {
	Terminal       model.Terminal    `json:"terminal"`
	Status         SafetyStatus      `json:"status"`
	Reason         string            `json:"reason"`
	NikolausState  model.VesselState `json:"nikolaus_state"`
	NikolausETA    *int              `json:"nikolaus_eta,omitempty"`
	DriveTime      *int              `json:"drive_time,omitempty"`
	SafeToCrossNow bool              `json:"safe_to_cross_now"`
	SafeMinutes    *int              `json:"safe_minutes,omitempty"`
	SafetyMessage  string            `json:"safety_message"`
}

// TerminalSafety predicts whether the Nikolaos will be serving the given
// terminal when the user gets there. A nil vessel means there is no current
// fix, which is treated as "out of service". driveTime is the user's drive
// estimate in minutes, nil when the user's position is unknown (the user is
// then assumed to arrive imminently). sched may be nil; without it departure
// estimates fall back to the fixed turnaround time.
func TerminalSafety(nikolaus *model.Vessel, terminal model.Terminal, driveTime *int, sched *model.FerrySchedule, now time.Time) SafetyResult {
	if nikolaus == nil {
		return finishSafety(SafetyResult{
			Terminal:      terminal,
			Status:        AllClear,
			Reason:        "Nikolaos location unknown - likely not in service",
			NikolausState: model.StateUnknown,
		})
	}

	state := nikolaus.State
	userArrival := 0
	if driveTime != nil {
		userArrival = *driveTime + BufferTime
	}

	res := SafetyResult{
		Terminal:      terminal,
		NikolausState: state,
		DriveTime:     driveTime,
	}

	switch {
	case state.DockedAt(terminal):
		departIn := departureEstimate(sched, terminal, now)
		switch {
		case userArrival > departIn+10:
			res.Status = AllClear
			res.Reason = "Nikolaos should depart before you arrive"
		case userArrival > departIn:
			res.Status = HeadsUp
			res.Reason = "Nikolaos is docked here - timing uncertain"
		default:
			res.Status = DockedHere
			res.Reason = "Nikolaos is currently docked here and likely next to depart"
		}

	case state.EnRouteTo(terminal):
		lat, lon := terminal.Coordinates()
		dist := geo.DistanceKm(nikolaus.Lat, nikolaus.Lon, lat, lon)
		eta := geo.EstimateArrivalMinutes(dist, nikolaus.SpeedTenths)
		if math.IsInf(eta, 1) {
			res.Status = HeadsUp
			res.Reason = "Nikolaos en route here (ETA: ~? min)"
			break
		}
		etaMin := int(math.Round(eta))
		res.NikolausETA = &etaMin
		switch {
		case float64(userArrival) < eta:
			res.Status = AllClear
			res.Reason = fmt.Sprintf("You should arrive before Nikolaos (ETA: %d min)", etaMin)
			drive := 0
			if driveTime != nil {
				drive = *driveTime
			}
			safe := int(math.Round(eta)) - drive
			res.SafeMinutes = &safe
		case float64(userArrival) > eta+TurnaroundTime+30:
			res.Status = AllClear
			res.Reason = "Nikolaos should depart before you arrive"
		default:
			res.Status = HeadsUp
			res.Reason = fmt.Sprintf("Nikolaos arriving in ~%d min - timing uncertain", etaMin)
		}

	case state.DockedAt(terminal.Other()):
		res.Status = AllClear
		res.Reason = fmt.Sprintf("Nikolaos is docked at %s", terminal.Other().DisplayName())
		safe := TurnaroundTime + AverageCrossingTime
		res.SafeMinutes = &safe

	case state.EnRouteTo(terminal.Other()):
		res.Status = AllClear
		res.Reason = fmt.Sprintf("Nikolaos is heading to %s", terminal.Other().DisplayName())
		safe := 2*AverageCrossingTime + TurnaroundTime
		res.SafeMinutes = &safe

	default:
		res.Status = HeadsUp
		res.Reason = "Nikolaos location uncertain"
	}

	return finishSafety(res)
}

// departureEstimate returns the minutes until the Nikolaos should leave the
// terminal it is docked at. With a schedule this is the next listed departure
// at or after now; otherwise the fixed turnaround time.
func departureEstimate(sched *model.FerrySchedule, terminal model.Terminal, now time.Time) int {
	if sched == nil {
		return TurnaroundTime
	}
	nowMin := now.Hour()*60 + now.Minute()
	for _, s := range sched.DeparturesFor(terminal) {
		dep, ok := model.ParseClock(s)
		if !ok {
			continue
		}
		if dep >= nowMin {
			return dep - nowMin
		}
	}
	return TurnaroundTime
}

func finishSafety(res SafetyResult) SafetyResult {
	res.SafeToCrossNow = res.Status == AllClear
	switch {
	case res.SafeMinutes != nil:
		res.SafetyMessage = fmt.Sprintf("Safe to head for %s for the next ~%d minutes", res.Terminal.DisplayName(), *res.SafeMinutes)
	case res.Status == AllClear:
		res.SafetyMessage = fmt.Sprintf("Safe to head for %s", res.Terminal.DisplayName())
	case res.Status == DockedHere:
		res.SafetyMessage = fmt.Sprintf("Nikolaos is at %s right now", res.Terminal.DisplayName())
	default:
		res.SafetyMessage = "Timing uncertain - check again closer to departure"
	}
	return res
}
