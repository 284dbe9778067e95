// Package scenarios runs prediction acceptance cases described as YAML
// fixtures: a fleet layout, optional queue and schedule, and the answers the
// predictors are expected to give.
package scenarios

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kfenech/ferrywatch/core/model"
)

type VesselDef struct {
	MMSI    int     `yaml:"mmsi"`
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
	Speed   int     `yaml:"speed"` // tenths of a knot
	Heading float64 `yaml:"heading"`
	Course  float64 `yaml:"course"`
}

func (v VesselDef) ToSnapshot(now time.Time) model.VesselSnapshot {
	return model.VesselSnapshot{
		MMSI:        v.MMSI,
		Lat:         v.Lat,
		Lon:         v.Lon,
		SpeedTenths: v.Speed,
		Heading:     v.Heading,
		Course:      v.Course,
		Timestamp:   now,
	}
}

type QueueDef struct {
	Cars       int `yaml:"cars"`
	Trucks     int `yaml:"trucks"`
	Motorbikes int `yaml:"motorbikes"`
}

func (q QueueDef) ToSnapshot() model.QueueSnapshot {
	return model.QueueSnapshot{Cars: q.Cars, Trucks: q.Trucks, Motorbikes: q.Motorbikes}
}

type QueryDef struct {
	Terminal  string `yaml:"terminal"`
	DriveTime *int   `yaml:"drive_time,omitempty"`
}

type Expected struct {
	Safety     string `yaml:"safety,omitempty"`
	Ferry      string `yaml:"ferry,omitempty"`
	Confidence string `yaml:"confidence,omitempty"`
	Departure  string `yaml:"departure,omitempty"`
	Severity   string `yaml:"severity,omitempty"`
}

type Scenario struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description,omitempty"`
	Now         string              `yaml:"now,omitempty"` // "HH:MM", today
	Vessels     []VesselDef         `yaml:"vessels"`
	Queue       *QueueDef           `yaml:"queue,omitempty"`
	Schedule    map[string][]string `yaml:"schedule,omitempty"`
	Query       QueryDef            `yaml:"query"`
	Expected    Expected            `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Clock resolves the scenario's wall clock on today's date; without one the
// scenario runs at the current time.
func (s *Scenario) Clock() (time.Time, error) {
	if s.Now == "" {
		return time.Now(), nil
	}
	minutes, ok := model.ParseClock(s.Now)
	if !ok {
		return time.Time{}, fmt.Errorf("scenario %s: bad clock %q", s.Name, s.Now)
	}
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, time.UTC), nil
}
