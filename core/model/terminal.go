package model

import "fmt"

// Terminal identifies one of the two ends of the Gozo Channel crossing.
type Terminal string

const (
	TerminalCirkewwa Terminal = "cirkewwa"
	TerminalMgarr    Terminal = "mgarr"
)

// Coordinates of the berths. These are fixed survey points and are never
// derived from feed data.
const (
	CirkewwaLat = 35.989
	CirkewwaLon = 14.329
	MgarrLat    = 36.025
	MgarrLon    = 14.299
)

// ParseTerminal converts a user supplied terminal name.
func ParseTerminal(s string) (Terminal, error) {
	switch Terminal(s) {
	case TerminalCirkewwa:
		return TerminalCirkewwa, nil
	case TerminalMgarr:
		return TerminalMgarr, nil
	}
	return "", fmt.Errorf("unknown terminal %q", s)
}

// Other returns the opposite end of the crossing.
func (t Terminal) Other() Terminal {
	if t == TerminalCirkewwa {
		return TerminalMgarr
	}
	return TerminalCirkewwa
}

// Coordinates returns the berth position for the terminal.
func (t Terminal) Coordinates() (lat, lon float64) {
	if t == TerminalCirkewwa {
		return CirkewwaLat, CirkewwaLon
	}
	return MgarrLat, MgarrLon
}

// DisplayName returns the Maltese spelling used in user facing text.
func (t Terminal) DisplayName() string {
	if t == TerminalCirkewwa {
		return "Ċirkewwa"
	}
	return "Mġarr"
}
