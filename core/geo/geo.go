// Package geo provides the great-circle primitives used by the vessel
// classifier and the prediction engine. All functions are pure.
package geo

import "math"

// earthRadiusKm is the mean Earth radius.
const earthRadiusKm = 6371

func toRadians(deg float64) float64 { return deg * math.Pi / 180 }

// DistanceKm returns the haversine distance between two points in kilometres.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// BearingDegrees returns the initial bearing from point 1 to point 2,
// normalized to [0,360).
func BearingDegrees(lat1, lon1, lat2, lon2 float64) float64 {
	dLon := toRadians(lon2 - lon1)
	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)

	y := math.Sin(dLon) * math.Cos(lat2Rad)
	x := math.Cos(lat1Rad)*math.Sin(lat2Rad) -
		math.Sin(lat1Rad)*math.Cos(lat2Rad)*math.Cos(dLon)

	bearing := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}

// EstimateArrivalMinutes converts a distance and an AIS speed (tenths of a
// knot) into minutes of travel. A stationary or reversing vessel has no ETA
// and yields +Inf; the result is never negative and the function never panics.
func EstimateArrivalMinutes(distanceKm float64, speedTenths int) float64 {
	if speedTenths <= 0 {
		return math.Inf(1)
	}
	speedKmh := float64(speedTenths) / 10 * 1.852
	return distanceKm / speedKmh * 60
}
