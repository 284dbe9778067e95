// Package export renders a day's sailing schedule for downstream tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/kfenech/ferrywatch/core/model"
)

// WriteJSON writes the schedule to w in JSON format.
func WriteJSON(w io.Writer, sched *model.FerrySchedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sched)
}

// WriteCSV writes the schedule to w as one row per departure.
func WriteCSV(w io.Writer, sched *model.FerrySchedule) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "terminal", "departure"}); err != nil {
		return err
	}
	for _, terminal := range []model.Terminal{model.TerminalCirkewwa, model.TerminalMgarr} {
		for _, dep := range sched.DeparturesFor(terminal) {
			if err := cw.Write([]string{sched.Date, string(terminal), dep}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
