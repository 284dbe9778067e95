package routes

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	coremetrics "github.com/kfenech/ferrywatch/core/metrics"
	"github.com/kfenech/ferrywatch/core/model"
	"github.com/kfenech/ferrywatch/internal/eventbus"
)

const streamKeepalive = 25 * time.Second

var streamClients atomic.Int64

func VesselsRouter(router fiber.Router, deps Deps) {
	router.Get("/", listVessels(deps))
	router.Get("/stream", streamVessels(deps))
}

func listVessels(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"vessels": deps.Store.List()})
	}
}

// streamVessels pushes fleet updates over server-sent events. A snapshot of
// the current fleet is sent immediately, then one event per feed tick, with
// comment keepalives so proxies do not drop the idle connection.
func streamVessels(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		id, ch := deps.Bus.Subscribe()
		snapshot := deps.Store.List()
		_ = deps.sink().RecordStream(coremetrics.StreamEvent{Active: int(streamClients.Add(1)), Time: time.Now()})

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			defer func() {
				deps.Bus.Unsubscribe(id)
				_ = deps.sink().RecordStream(coremetrics.StreamEvent{Active: int(streamClients.Add(-1)), Time: time.Now()})
			}()
			if err := writeFleetEvent(w, snapshot); err != nil {
				return
			}
			keepalive := time.NewTicker(streamKeepalive)
			defer keepalive.Stop()
			for {
				select {
				case update, ok := <-ch:
					if !ok {
						return
					}
					if err := writeFleetEvent(w, update.Vessels); err != nil {
						return
					}
				case <-keepalive.C:
					if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
						return
					}
					if err := w.Flush(); err != nil {
						return
					}
				}
			}
		}))
		return nil
	}
}

func writeFleetEvent(w *bufio.Writer, vessels []model.Vessel) error {
	payload, err := json.Marshal(eventbus.FleetUpdate{Vessels: vessels})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}
