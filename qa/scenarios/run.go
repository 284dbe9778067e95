package scenarios

import (
	"testing"

	"github.com/kfenech/ferrywatch/core/classify"
	"github.com/kfenech/ferrywatch/core/model"
	"github.com/kfenech/ferrywatch/core/predict"
)

// RunScenario classifies the fixture fleet and checks every expectation the
// scenario declares. Empty expectation fields are not checked.
func RunScenario(t *testing.T, sc *Scenario) {
	now, err := sc.Clock()
	if err != nil {
		t.Fatal(err)
	}
	terminal, err := model.ParseTerminal(sc.Query.Terminal)
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}

	var vessels []model.Vessel
	var nikolaus *model.Vessel
	for _, def := range sc.Vessels {
		v, ok := classify.Vessel(def.ToSnapshot(now))
		if !ok {
			t.Fatalf("scenario %s: MMSI %d is not in the fleet", sc.Name, def.MMSI)
		}
		vessels = append(vessels, v)
		if v.IsNikolaus {
			nikolaus = &vessels[len(vessels)-1]
		}
	}

	var sched *model.FerrySchedule
	if len(sc.Schedule) > 0 {
		sched = &model.FerrySchedule{
			Date:     now.Format("2006-01-02"),
			Cirkewwa: sc.Schedule["cirkewwa"],
			Mgarr:    sc.Schedule["mgarr"],
		}
	}
	var queue *model.QueueSnapshot
	if sc.Queue != nil {
		q := sc.Queue.ToSnapshot()
		queue = &q
	}

	if sc.Expected.Safety != "" {
		res := predict.TerminalSafety(nikolaus, terminal, sc.Query.DriveTime, sched, now)
		if string(res.Status) != sc.Expected.Safety {
			t.Errorf("scenario %s: safety %s, want %s (%s)", sc.Name, res.Status, sc.Expected.Safety, res.Reason)
		}
	}

	prediction := predict.LikelyFerry(vessels, terminal, sc.Query.DriveTime, sched, queue, now)
	if sc.Expected.Ferry != "" {
		if prediction.Ferry == nil {
			t.Errorf("scenario %s: no ferry predicted, want %s", sc.Name, sc.Expected.Ferry)
		} else if prediction.Ferry.Name != sc.Expected.Ferry {
			t.Errorf("scenario %s: ferry %s, want %s", sc.Name, prediction.Ferry.Name, sc.Expected.Ferry)
		}
	}
	if sc.Expected.Confidence != "" && string(prediction.Confidence) != sc.Expected.Confidence {
		t.Errorf("scenario %s: confidence %s, want %s (%s)", sc.Name, prediction.Confidence, sc.Expected.Confidence, prediction.Reason)
	}
	if sc.Expected.Departure != "" {
		if prediction.DepartureTime == nil {
			t.Errorf("scenario %s: no departure time, want %s", sc.Name, sc.Expected.Departure)
		} else if *prediction.DepartureTime != sc.Expected.Departure {
			t.Errorf("scenario %s: departure %s, want %s", sc.Name, *prediction.DepartureTime, sc.Expected.Departure)
		}
	}

	if sc.Expected.Severity != "" {
		if queue == nil {
			t.Fatalf("scenario %s: severity expected but no queue given", sc.Name)
		}
		ferryName := ""
		if prediction.Ferry != nil {
			ferryName = prediction.Ferry.Name
		}
		est := predict.EstimateQueue(*queue, ferryName)
		if string(est.Severity) != sc.Expected.Severity {
			t.Errorf("scenario %s: severity %s, want %s (%s)", sc.Name, est.Severity, sc.Expected.Severity, est.Message)
		}
	}
}
