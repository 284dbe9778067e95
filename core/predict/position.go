package predict

import (
	"math"

	"github.com/kfenech/ferrywatch/core/geo"
	"github.com/kfenech/ferrywatch/core/model"
)

// PositionForecast is where the Nikolaos is expected to be when the user
// arrives, for rendering on the map.
type PositionForecast struct {
	Lat   float64           `json:"lat"`
	Lon   float64           `json:"lon"`
	State model.VesselState `json:"state"`
}

// NikolausPosition extrapolates the Nikolaos forward by the user's arrival
// delay, linearly interpolating along the crossing. Returns nil when there is
// no fix, no drive estimate, or no computable ETA.
func NikolausPosition(nikolaus *model.Vessel, driveTime *int) *PositionForecast {
	if nikolaus == nil || driveTime == nil {
		return nil
	}
	userArrival := float64(*driveTime + BufferTime)
	state := nikolaus.State

	switch state {
	case model.DockedCirkewwa, model.DockedMgarr:
		from := model.TerminalCirkewwa
		if state == model.DockedMgarr {
			from = model.TerminalMgarr
		}
		if userArrival < TurnaroundTime {
			return &PositionForecast{Lat: nikolaus.Lat, Lon: nikolaus.Lon, State: state}
		}
		dest := from.Other()
		destLat, destLon := dest.Coordinates()
		if userArrival > TurnaroundTime+AverageCrossingTime {
			return &PositionForecast{Lat: destLat, Lon: destLon, State: model.DockedState(dest)}
		}
		progress := (userArrival - TurnaroundTime) / AverageCrossingTime
		fromLat, fromLon := from.Coordinates()
		return &PositionForecast{
			Lat:   fromLat + (destLat-fromLat)*progress,
			Lon:   fromLon + (destLon-fromLon)*progress,
			State: model.EnRouteState(dest),
		}

	case model.EnRouteToCirkewwa, model.EnRouteToMgarr:
		dest := model.TerminalCirkewwa
		if state == model.EnRouteToMgarr {
			dest = model.TerminalMgarr
		}
		destLat, destLon := dest.Coordinates()
		eta := geo.EstimateArrivalMinutes(geo.DistanceKm(nikolaus.Lat, nikolaus.Lon, destLat, destLon), nikolaus.SpeedTenths)
		if math.IsInf(eta, 1) {
			return nil
		}

		if userArrival < eta {
			progress := userArrival / eta
			return &PositionForecast{
				Lat:   nikolaus.Lat + (destLat-nikolaus.Lat)*progress,
				Lon:   nikolaus.Lon + (destLon-nikolaus.Lon)*progress,
				State: state,
			}
		}
		if userArrival < eta+TurnaroundTime {
			return &PositionForecast{Lat: destLat, Lon: destLon, State: model.DockedState(dest)}
		}

		// Departed again, heading back across.
		other := dest.Other()
		otherLat, otherLon := other.Coordinates()
		progress := (userArrival - eta - TurnaroundTime) / AverageCrossingTime
		if progress >= 1 {
			return &PositionForecast{Lat: otherLat, Lon: otherLon, State: model.DockedState(other)}
		}
		return &PositionForecast{
			Lat:   destLat + (otherLat-destLat)*progress,
			Lon:   destLon + (otherLon-destLon)*progress,
			State: model.EnRouteState(other),
		}
	}

	return nil
}
