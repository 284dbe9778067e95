package predict

import (
	"fmt"
	"math"

	"github.com/kfenech/ferrywatch/core/model"
)

// Car-equivalent weights for the queue sensor's vehicle classes.
const (
	TruckCarEquivalent     = 3
	MotorbikeCarEquivalent = 0.25
)

// QueueSeverity classifies how bad the terminal backlog is.
type QueueSeverity string

const (
	QueueLow      QueueSeverity = "low"
	QueueModerate QueueSeverity = "moderate"
	QueueHigh     QueueSeverity = "high"
)

// QueueEstimate is the normalized view of a raw vehicle-type breakdown.
type QueueEstimate struct {
	CarEquivalent int           `json:"car_equivalent"`
	FerryCapacity *int          `json:"ferry_capacity"`
	LoadsNeeded   *int          `json:"loads_needed"`
	Severity      QueueSeverity `json:"severity"`
	Message       string        `json:"message"`
}

// CarEquivalent converts a vehicle-type breakdown to a rounded
// passenger-car-equivalent count.
func CarEquivalent(q model.QueueSnapshot) int {
	return int(math.Round(float64(q.Cars) +
		float64(q.Trucks)*TruckCarEquivalent +
		float64(q.Motorbikes)*MotorbikeCarEquivalent))
}

// EstimateQueue sizes the backlog against the capacity of the predicted
// ferry. With an empty ferryName (no prediction available) severity falls
// back to absolute thresholds.
func EstimateQueue(q model.QueueSnapshot, ferryName string) QueueEstimate {
	ce := CarEquivalent(q)
	est := QueueEstimate{CarEquivalent: ce}

	if ferryName != "" {
		capacity := model.CapacityFor(ferryName)
		loads := int(math.Ceil(float64(ce) / float64(capacity)))
		est.FerryCapacity = &capacity
		est.LoadsNeeded = &loads
		switch {
		case loads <= 1 && float64(ce) <= float64(capacity)*0.7:
			est.Severity = QueueLow
			est.Message = "Queue fits comfortably on next ferry"
		case loads <= 1:
			est.Severity = QueueModerate
			est.Message = "Queue is filling up - arrive early to secure a spot"
		default:
			est.Severity = QueueHigh
			est.Message = fmt.Sprintf("Queue exceeds capacity - ~%d trips needed to clear", loads)
		}
		return est
	}

	switch {
	case ce <= 50:
		est.Severity = QueueLow
		est.Message = "Light queue"
	case ce <= 100:
		est.Severity = QueueModerate
		est.Message = "Moderate queue - expect some wait"
	default:
		est.Severity = QueueHigh
		est.Message = "Heavy queue - expect significant delays"
	}
	return est
}
