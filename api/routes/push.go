package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/kfenech/ferrywatch/core/model"
)

// Subscriptions are rate limited per client to keep token churn in check.
const (
	subscribeLimit  = 10
	subscribeWindow = time.Minute
)

func PushRouter(router fiber.Router, deps Deps) {
	router.Use(limiter.New(limiter.Config{
		Max:        subscribeLimit,
		Expiration: subscribeWindow,
	}))
	router.Post("/subscribe", subscribePush(deps))
	router.Delete("/subscribe/:id", unsubscribePush(deps))
}

type subscribeRequest struct {
	Token    string `json:"token"`
	Terminal string `json:"terminal"`
}

func subscribePush(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Registry == nil {
			c.Status(fiber.StatusServiceUnavailable)
			return c.JSON(fiber.Map{"error": "push notifications are not enabled"})
		}
		var req subscribeRequest
		if err := c.BodyParser(&req); err != nil || req.Token == "" {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{"error": "token is required"})
		}
		terminal, err := model.ParseTerminal(req.Terminal)
		if err != nil {
			c.Status(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{"error": "unknown terminal, expected cirkewwa or mgarr"})
		}
		id := deps.Registry.Add(req.Token, string(terminal))
		c.Status(fiber.StatusCreated)
		return c.JSON(fiber.Map{"id": id, "terminal": terminal})
	}
}

func unsubscribePush(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Registry == nil {
			c.Status(fiber.StatusServiceUnavailable)
			return c.JSON(fiber.Map{"error": "push notifications are not enabled"})
		}
		deps.Registry.Remove(c.Params("id"))
		return c.SendStatus(fiber.StatusNoContent)
	}
}
