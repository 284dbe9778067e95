package model

import "time"

// VesselState is the discrete position class assigned to a vessel on every
// feed tick. A vessel has exactly one state at any instant.
type VesselState string

const (
	DockedCirkewwa    VesselState = "DOCKED_CIRKEWWA"
	DockedMgarr       VesselState = "DOCKED_MGARR"
	EnRouteToCirkewwa VesselState = "EN_ROUTE_TO_CIRKEWWA"
	EnRouteToMgarr    VesselState = "EN_ROUTE_TO_MGARR"
	StateUnknown      VesselState = "UNKNOWN"
)

// DockedState returns the docked state for the given terminal.
func DockedState(t Terminal) VesselState {
	if t == TerminalCirkewwa {
		return DockedCirkewwa
	}
	return DockedMgarr
}

// EnRouteState returns the en-route state for the given destination terminal.
func EnRouteState(t Terminal) VesselState {
	if t == TerminalCirkewwa {
		return EnRouteToCirkewwa
	}
	return EnRouteToMgarr
}

// DockedAt reports whether the state means "berthed at t".
func (s VesselState) DockedAt(t Terminal) bool { return s == DockedState(t) }

// EnRouteTo reports whether the state means "crossing towards t".
func (s VesselState) EnRouteTo(t Terminal) bool { return s == EnRouteState(t) }

// NikolausMMSI is the hull the tracker exists to avoid.
const NikolausMMSI = 237593100

// vesselNames maps the MMSIs of the Gozo Channel fleet to display names.
// Positions reported for any other MMSI are dropped by the feed ingester.
var vesselNames = map[int]string{
	248692000: "MV Ta' Pinu",
	237593100: "MV Nikolaos",
	215145000: "MV Malita",
	248928000: "MV Gaudos",
}

// NameFor resolves an MMSI against the static fleet table.
func NameFor(mmsi int) (string, bool) {
	name, ok := vesselNames[mmsi]
	return name, ok
}

// carCapacities holds the car-deck capacity of each hull in passenger car
// equivalents. The three sister ships share a deck layout; the chartered
// Nikolaos is slightly larger.
var carCapacities = map[string]int{
	"MV Ta' Pinu": 138,
	"MV Malita":   138,
	"MV Gaudos":   138,
	"MV Nikolaos": 160,
}

// DefaultCarCapacity is assumed when a vessel name has no capacity entry.
const DefaultCarCapacity = 100

// CapacityFor returns the car-deck capacity for a vessel name, falling back
// to DefaultCarCapacity for unknown hulls.
func CapacityFor(name string) int {
	if c, ok := carCapacities[name]; ok {
		return c
	}
	return DefaultCarCapacity
}

// VesselSnapshot is one AIS fix as delivered by the position feed. Snapshots
// are immutable; a new one supersedes the previous fix for the same MMSI.
type VesselSnapshot struct {
	MMSI        int       `json:"mmsi"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	SpeedTenths int       `json:"speed"` // tenths of a knot
	Heading     float64   `json:"heading"`
	Course      float64   `json:"course"` // 0 means unset
	Timestamp   time.Time `json:"timestamp"`
}

// Vessel is a snapshot enriched with the derived fields the predictors need.
// State is recomputed on every tick and carries no memory between ticks.
type Vessel struct {
	VesselSnapshot
	Name       string      `json:"name"`
	IsNikolaus bool        `json:"is_nikolaus"`
	State      VesselState `json:"state"`
}

// QueueSnapshot is the latest vehicle-type breakdown reported by the terminal
// queue sensor. Only the latest value is kept; there is no history.
type QueueSnapshot struct {
	Cars       int `json:"car"`
	Trucks     int `json:"truck"`
	Motorbikes int `json:"motorbike"`
}
