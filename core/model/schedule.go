package model

import "fmt"

// FerrySchedule is one calendar day of published departures per terminal.
// Times are "HH:MM" strings in chronological order, already deduplicated by
// the collaborator that fetched them. The consumer is responsible for only
// supplying a schedule whose Date matches today.
type FerrySchedule struct {
	Date     string   `json:"date"`
	Cirkewwa []string `json:"cirkewwa"`
	Mgarr    []string `json:"mgarr"`
}

// DeparturesFor returns the departure list for the given terminal.
func (s *FerrySchedule) DeparturesFor(t Terminal) []string {
	if s == nil {
		return nil
	}
	if t == TerminalCirkewwa {
		return s.Cirkewwa
	}
	return s.Mgarr
}

// ParseClock converts an "HH:MM" departure string to minutes of day.
// Malformed entries report ok=false and are skipped by callers.
func ParseClock(s string) (int, bool) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, false
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// FormatClock renders minutes of day as "HH:MM". Values outside a single day
// wrap modulo 24 hours; departures predicted past midnight therefore display
// as next-day times with no explicit rollover handling.
func FormatClock(minutes int) string {
	minutes %= 24 * 60
	if minutes < 0 {
		minutes += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
