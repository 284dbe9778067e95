package safetywatch

import (
	"context"
	"errors"
	"testing"

	coremetrics "github.com/kfenech/ferrywatch/core/metrics"
	"github.com/kfenech/ferrywatch/core/model"
	"github.com/kfenech/ferrywatch/infra/push"
	"github.com/kfenech/ferrywatch/internal/eventbus"
)

type fakeSender struct {
	sent []string // tokens
	err  error
}

func (f *fakeSender) Send(_ context.Context, token, _, _ string) error {
	f.sent = append(f.sent, token)
	return f.err
}

type captureSink struct {
	coremetrics.NopSink
	pushes []coremetrics.PushEvent
}

func (s *captureSink) RecordPush(ev coremetrics.PushEvent) error {
	s.pushes = append(s.pushes, ev)
	return nil
}

func nikolausUpdate(state model.VesselState, lat, lon float64, speed int) eventbus.FleetUpdate {
	return eventbus.FleetUpdate{Vessels: []model.Vessel{{
		VesselSnapshot: model.VesselSnapshot{MMSI: model.NikolausMMSI, Lat: lat, Lon: lon, SpeedTenths: speed},
		Name:           "MV Nikolaos",
		IsNikolaus:     true,
		State:          state,
	}}}
}

func TestWatcher_NotifiesOnStatusChange(t *testing.T) {
	sender := &fakeSender{}
	sink := &captureSink{}
	registry := push.NewRegistry()
	registry.Add("tok-cirkewwa", "cirkewwa")
	registry.Add("tok-mgarr", "mgarr")

	w := New(eventbus.New(), nil, sender, registry, sink)
	ctx := context.Background()

	// First evaluation establishes the baseline; no notifications yet.
	w.evaluate(ctx, nikolausUpdate(model.DockedCirkewwa, model.CirkewwaLat, model.CirkewwaLon, 0))
	if len(sender.sent) != 0 {
		t.Fatalf("baseline evaluation must not notify, sent %v", sender.sent)
	}

	// The Nikolaos leaves for Mġarr: Ċirkewwa flips DOCKED_HERE -> ALL_CLEAR.
	w.evaluate(ctx, nikolausUpdate(model.EnRouteToMgarr, 36.007, 14.314, 100))
	if len(sender.sent) != 1 || sender.sent[0] != "tok-cirkewwa" {
		t.Fatalf("sent = %v, want exactly the Cirkewwa subscriber", sender.sent)
	}
	if len(sink.pushes) != 1 || !sink.pushes[0].Delivered {
		t.Errorf("push events = %+v", sink.pushes)
	}

	// Same state again: no repeat notification.
	w.evaluate(ctx, nikolausUpdate(model.EnRouteToMgarr, 36.01, 14.31, 100))
	if len(sender.sent) != 1 {
		t.Errorf("unchanged status must not re-notify, sent %v", sender.sent)
	}
}

func TestWatcher_RecordsFailedPush(t *testing.T) {
	sender := &fakeSender{err: errors.New("token expired")}
	sink := &captureSink{}
	registry := push.NewRegistry()
	registry.Add("tok", "cirkewwa")

	w := New(eventbus.New(), nil, sender, registry, sink)
	ctx := context.Background()
	w.evaluate(ctx, nikolausUpdate(model.DockedCirkewwa, model.CirkewwaLat, model.CirkewwaLon, 0))
	w.evaluate(ctx, nikolausUpdate(model.EnRouteToMgarr, 36.007, 14.314, 100))

	if len(sink.pushes) != 1 || sink.pushes[0].Delivered {
		t.Errorf("push events = %+v, want one failed delivery", sink.pushes)
	}
}

func TestWatcher_NilSenderOnlyLogs(t *testing.T) {
	w := New(eventbus.New(), nil, nil, nil, nil)
	ctx := context.Background()
	w.evaluate(ctx, nikolausUpdate(model.DockedCirkewwa, model.CirkewwaLat, model.CirkewwaLon, 0))
	w.evaluate(ctx, nikolausUpdate(model.EnRouteToMgarr, 36.007, 14.314, 100))
}
