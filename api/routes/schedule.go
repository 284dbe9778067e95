package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func ScheduleRouter(router fiber.Router, deps Deps) {
	router.Get("/", getSchedule(deps))
}

func getSchedule(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sched := deps.currentSchedule(time.Now())
		if sched == nil {
			c.Status(fiber.StatusNotFound)
			return c.JSON(fiber.Map{"error": "no schedule available"})
		}
		return c.JSON(sched)
	}
}
