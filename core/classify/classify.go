// Package classify assigns each AIS fix a discrete vessel state from its
// position, speed and heading relative to the two terminals.
package classify

import (
	"math"

	"github.com/kfenech/ferrywatch/core/geo"
	"github.com/kfenech/ferrywatch/core/model"
)

// Tunable thresholds. These were tuned empirically against live traffic;
// no hysteresis is applied, so a vessel idling exactly on the docked radius
// can flip states between ticks.
const (
	// DockedRadiusKm is the berth radius within which a stationary vessel
	// counts as docked.
	DockedRadiusKm = 0.5
	// MovingSpeedTenths is the moving threshold in tenths of a knot.
	MovingSpeedTenths = 10
	// HeadingToCirkewwaMin and HeadingToCirkewwaMax bound the south-east
	// window that points down the channel towards Ċirkewwa. Both bounds are
	// inclusive.
	HeadingToCirkewwaMin = 90
	HeadingToCirkewwaMax = 180
)

// State classifies a single fix. It is a pure function: identical snapshots
// always produce the same state.
func State(snap model.VesselSnapshot) model.VesselState {
	distCirkewwa := geo.DistanceKm(snap.Lat, snap.Lon, model.CirkewwaLat, model.CirkewwaLon)
	distMgarr := geo.DistanceKm(snap.Lat, snap.Lon, model.MgarrLat, model.MgarrLon)

	moving := snap.SpeedTenths >= MovingSpeedTenths

	// The berth radii do not overlap in practice; Ċirkewwa wins if they
	// somehow did.
	if !moving && distCirkewwa <= DockedRadiusKm {
		return model.DockedCirkewwa
	}
	if !moving && distMgarr <= DockedRadiusKm {
		return model.DockedMgarr
	}

	if moving {
		// Course reflects the actual travel vector when the transponder
		// reports one; heading alone can be unreliable near stationary.
		direction := snap.Heading
		if snap.Course > 0 {
			direction = snap.Course
		}
		direction = math.Mod(math.Mod(direction, 360)+360, 360)

		if direction >= HeadingToCirkewwaMin && direction <= HeadingToCirkewwaMax {
			return model.EnRouteToCirkewwa
		}
		return model.EnRouteToMgarr
	}

	// Stationary away from both berths: dry dock, Grand Harbour lay-up, etc.
	return model.StateUnknown
}

// Vessel builds the enriched vessel record for a fix. The second return is
// false when the MMSI is not part of the fleet table; such fixes are dropped
// by the ingester before they reach the predictors.
func Vessel(snap model.VesselSnapshot) (model.Vessel, bool) {
	name, ok := model.NameFor(snap.MMSI)
	if !ok {
		return model.Vessel{}, false
	}
	return model.Vessel{
		VesselSnapshot: snap,
		Name:           name,
		IsNikolaus:     snap.MMSI == model.NikolausMMSI,
		State:          State(snap),
	}, true
}
