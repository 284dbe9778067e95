package vesselstore

import (
	"sync"
	"testing"

	"github.com/kfenech/ferrywatch/core/model"
)

func vessel(mmsi int, name string, state model.VesselState) model.Vessel {
	return model.Vessel{
		VesselSnapshot: model.VesselSnapshot{MMSI: mmsi},
		Name:           name,
		State:          state,
	}
}

func TestMemoryStore_SetSupersedes(t *testing.T) {
	s := NewMemoryStore()
	s.Set(vessel(215145000, "MV Malita", model.DockedCirkewwa))
	s.Set(vessel(215145000, "MV Malita", model.EnRouteToMgarr))

	list := s.List()
	if len(list) != 1 {
		t.Fatalf("List length = %d, want 1", len(list))
	}
	if list[0].State != model.EnRouteToMgarr {
		t.Errorf("State = %s, want latest fix to win", list[0].State)
	}
}

func TestMemoryStore_ListSorted(t *testing.T) {
	s := NewMemoryStore()
	s.Set(vessel(248928000, "MV Gaudos", model.DockedMgarr))
	s.Set(vessel(215145000, "MV Malita", model.DockedCirkewwa))
	s.Set(vessel(237593100, "MV Nikolaos", model.EnRouteToMgarr))

	list := s.List()
	for i := 1; i < len(list); i++ {
		if list[i-1].MMSI >= list[i].MMSI {
			t.Fatalf("List not sorted by MMSI: %v", list)
		}
	}
}

func TestMemoryStore_Nikolaus(t *testing.T) {
	s := NewMemoryStore()
	if _, ok := s.Nikolaus(); ok {
		t.Error("empty store should have no Nikolaos fix")
	}
	s.Set(vessel(model.NikolausMMSI, "MV Nikolaos", model.DockedMgarr))
	v, ok := s.Nikolaus()
	if !ok || v.Name != "MV Nikolaos" {
		t.Errorf("got %+v, %v", v, ok)
	}
}

func TestMemoryStore_Queue(t *testing.T) {
	s := NewMemoryStore()
	if _, ok := s.Queue(model.TerminalCirkewwa); ok {
		t.Error("expected no queue data initially")
	}
	s.SetQueue(model.TerminalCirkewwa, model.QueueSnapshot{Cars: 40, Trucks: 3})
	q, ok := s.Queue(model.TerminalCirkewwa)
	if !ok || q.Cars != 40 || q.Trucks != 3 {
		t.Errorf("got %+v, %v", q, ok)
	}
	if _, ok := s.Queue(model.TerminalMgarr); ok {
		t.Error("queue data must be per terminal")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			s.Set(vessel(215145000+n, "MV Malita", model.DockedCirkewwa))
		}(i)
		go func() {
			defer wg.Done()
			s.List()
			s.Nikolaus()
		}()
	}
	wg.Wait()
}
