package main

import (
	"testing"

	"github.com/kfenech/ferrywatch/core/classify"
	"github.com/kfenech/ferrywatch/core/model"
)

func testFerry() SimulatedFerry {
	return SimulatedFerry{
		MMSI:            model.NikolausMMSI,
		Name:            "MV Nikolaos",
		Home:            model.TerminalCirkewwa,
		DwellMinutes:    15,
		CrossingMinutes: 25,
	}
}

func TestFerryCycle(t *testing.T) {
	f := testFerry()

	cases := []struct {
		minutes float64
		want    model.VesselState
	}{
		{0, model.DockedCirkewwa},
		{10, model.DockedCirkewwa},
		{20, model.EnRouteToMgarr},
		{39, model.EnRouteToMgarr},
		{45, model.DockedMgarr},
		{60, model.EnRouteToCirkewwa},
		{79, model.EnRouteToCirkewwa},
		{80, model.DockedCirkewwa}, // cycle wraps
		{100, model.EnRouteToMgarr},
	}
	for _, tc := range cases {
		snap := f.Fix(tc.minutes)
		if got := classify.State(snap); got != tc.want {
			t.Errorf("minute %.0f: state %s, want %s (lat %.4f lon %.4f speed %d)",
				tc.minutes, got, tc.want, snap.Lat, snap.Lon, snap.SpeedTenths)
		}
	}
}

func TestFerryCrossingInterpolates(t *testing.T) {
	f := testFerry()

	// Halfway through the outbound leg the hull should sit between the berths.
	snap := f.Fix(f.DwellMinutes + f.CrossingMinutes/2)
	if snap.Lat <= model.CirkewwaLat || snap.Lat >= model.MgarrLat {
		t.Fatalf("mid-crossing latitude %f outside channel", snap.Lat)
	}
	if snap.SpeedTenths != cruiseSpeedTenths {
		t.Fatalf("mid-crossing speed %d, want %d", snap.SpeedTenths, cruiseSpeedTenths)
	}
}

func TestFerryOffsetStaggers(t *testing.T) {
	a := testFerry()
	b := testFerry()
	b.Offset = a.DwellMinutes + a.CrossingMinutes

	sa := classify.State(a.Fix(0))
	sb := classify.State(b.Fix(0))
	if sa == sb {
		t.Fatalf("offset hulls in the same state %s at start", sa)
	}
}

func TestGenerateFleet(t *testing.T) {
	fleet := GenerateFleet(FleetConfig{DwellMinutes: 15, CrossingMinutes: 25})
	if len(fleet) != 4 {
		t.Fatalf("expected 4 hulls, got %d", len(fleet))
	}
	seen := map[int]bool{}
	for _, f := range fleet {
		if seen[f.MMSI] {
			t.Fatalf("duplicate MMSI %d", f.MMSI)
		}
		seen[f.MMSI] = true
		if f.DwellMinutes != 15 || f.CrossingMinutes != 25 {
			t.Fatalf("%s: timing not applied", f.Name)
		}
	}
	if !seen[model.NikolausMMSI] {
		t.Fatal("fleet is missing the Nikolaos")
	}

	if got := len(GenerateFleet(FleetConfig{DwellMinutes: 15, CrossingMinutes: 25, Hulls: 1})); got != 1 {
		t.Fatalf("hull limit ignored, got %d", got)
	}
}

func TestQueueWalkBounded(t *testing.T) {
	walk := NewQueueWalk(7, model.QueueSnapshot{Cars: 40, Trucks: 4, Motorbikes: 10})
	for i := 0; i < 1000; i++ {
		q := walk.Next()
		if q.Cars < 0 || q.Trucks < 0 || q.Motorbikes < 0 {
			t.Fatalf("negative counts at step %d: %+v", i, q)
		}
		if q.Cars > 300 || q.Trucks > 40 || q.Motorbikes > 60 {
			t.Fatalf("counts above bounds at step %d: %+v", i, q)
		}
	}
}

func TestQueueWalkDeterministic(t *testing.T) {
	start := model.QueueSnapshot{Cars: 40, Trucks: 4, Motorbikes: 10}
	a := NewQueueWalk(3, start)
	b := NewQueueWalk(3, start)
	for i := 0; i < 50; i++ {
		if a.Next() != b.Next() {
			t.Fatalf("same seed diverged at step %d", i)
		}
	}
}
