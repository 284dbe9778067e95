package routes

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	coremetrics "github.com/kfenech/ferrywatch/core/metrics"
	"github.com/kfenech/ferrywatch/core/model"
	"github.com/kfenech/ferrywatch/core/predict"
)

func TerminalsRouter(router fiber.Router, deps Deps) {
	router.Get("/:terminal/safety", getSafety(deps))
	router.Get("/:terminal/ferry", getFerry(deps))
	router.Get("/:terminal/queue", getQueue(deps))
}

// parseTerminal resolves the :terminal path segment, writing a 400 response
// when it names neither harbour.
func parseTerminal(c *fiber.Ctx) (model.Terminal, bool) {
	terminal, err := model.ParseTerminal(c.Params("terminal"))
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		_ = c.JSON(fiber.Map{
			"error": "unknown terminal, expected cirkewwa or mgarr",
		})
		return "", false
	}
	return terminal, true
}

// parseDriveTime reads the optional drive_time query parameter in minutes.
func parseDriveTime(c *fiber.Ctx) (*int, bool) {
	raw := c.Query("drive_time")
	if raw == "" {
		return nil, true
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 0 {
		c.Status(fiber.StatusBadRequest)
		_ = c.JSON(fiber.Map{"error": "drive_time must be a non-negative integer"})
		return nil, false
	}
	return &minutes, true
}

func getSafety(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		terminal, ok := parseTerminal(c)
		if !ok {
			return nil
		}
		driveTime, ok := parseDriveTime(c)
		if !ok {
			return nil
		}

		now := time.Now()
		var nikolaus *model.Vessel
		if v, found := deps.Store.Nikolaus(); found {
			nikolaus = &v
		}
		result := predict.TerminalSafety(nikolaus, terminal, driveTime, deps.currentSchedule(now), now)
		forecast := predict.NikolausPosition(nikolaus, driveTime)

		_ = deps.sink().RecordPrediction(coremetrics.PredictionEvent{
			Kind:     "safety",
			Terminal: terminal,
			Outcome:  string(result.Status),
			Time:     now,
		})
		return c.JSON(fiber.Map{
			"safety":             result,
			"predicted_position": forecast,
		})
	}
}

func getFerry(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		terminal, ok := parseTerminal(c)
		if !ok {
			return nil
		}
		driveTime, ok := parseDriveTime(c)
		if !ok {
			return nil
		}

		now := time.Now()
		var queue *model.QueueSnapshot
		if q, found := deps.Store.Queue(terminal); found {
			queue = &q
		}
		prediction := predict.LikelyFerry(deps.Store.List(), terminal, driveTime, deps.currentSchedule(now), queue, now)

		_ = deps.sink().RecordPrediction(coremetrics.PredictionEvent{
			Kind:     "ferry",
			Terminal: terminal,
			Outcome:  string(prediction.Confidence),
			Time:     now,
		})
		return c.JSON(prediction)
	}
}

func getQueue(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		terminal, ok := parseTerminal(c)
		if !ok {
			return nil
		}

		queue, found := deps.Store.Queue(terminal)
		if !found {
			c.Status(fiber.StatusNotFound)
			return c.JSON(fiber.Map{"error": "no queue data for terminal"})
		}

		// Severity is judged against the boat most likely to serve the user.
		now := time.Now()
		ferryName := ""
		prediction := predict.LikelyFerry(deps.Store.List(), terminal, nil, deps.currentSchedule(now), &queue, now)
		if prediction.Ferry != nil {
			ferryName = prediction.Ferry.Name
		}
		return c.JSON(fiber.Map{
			"terminal": terminal,
			"queue":    queue,
			"estimate": predict.EstimateQueue(queue, ferryName),
		})
	}
}
