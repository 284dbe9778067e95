package main

import (
	"math"

	"github.com/kfenech/ferrywatch/core/geo"
	"github.com/kfenech/ferrywatch/core/model"
)

// Speed in tenths of a knot reported while a ferry is underway. Dockside the
// hulls drift at a knot or less on their lines.
const (
	cruiseSpeedTenths = 96
	dockedSpeedTenths = 4
)

// SimulatedFerry replays one hull's endless shuttle between the two berths.
// The cycle is dock, cross, dock, cross back; Offset staggers the hulls so
// they are not all in the same leg at once.
type SimulatedFerry struct {
	MMSI   int
	Name   string
	Home   model.Terminal
	Offset float64 // minutes into the cycle at simulation start

	DwellMinutes    float64
	CrossingMinutes float64
}

func (f *SimulatedFerry) cycle() float64 {
	return 2 * (f.DwellMinutes + f.CrossingMinutes)
}

// Fix returns the ferry's synthetic AIS snapshot at the given number of
// simulated minutes since start.
func (f *SimulatedFerry) Fix(minutes float64) model.VesselSnapshot {
	m := math.Mod(minutes+f.Offset, f.cycle())

	from, to := f.Home, f.Home.Other()
	if m >= f.DwellMinutes+f.CrossingMinutes {
		m -= f.DwellMinutes + f.CrossingMinutes
		from, to = to, from
	}

	fromLat, fromLon := from.Coordinates()
	toLat, toLon := to.Coordinates()
	heading := geo.BearingDegrees(fromLat, fromLon, toLat, toLon)

	if m < f.DwellMinutes {
		return model.VesselSnapshot{
			MMSI:        f.MMSI,
			Lat:         fromLat,
			Lon:         fromLon,
			SpeedTenths: dockedSpeedTenths,
			Heading:     heading,
		}
	}

	progress := (m - f.DwellMinutes) / f.CrossingMinutes
	return model.VesselSnapshot{
		MMSI:        f.MMSI,
		Lat:         fromLat + (toLat-fromLat)*progress,
		Lon:         fromLon + (toLon-fromLon)*progress,
		SpeedTenths: cruiseSpeedTenths,
		Heading:     heading,
		Course:      heading,
	}
}
