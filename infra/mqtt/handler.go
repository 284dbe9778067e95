package mqtt

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kfenech/ferrywatch/core/model"
)

// Handler receives decoded feed records. Implementations must not block;
// both callbacks run on the Paho delivery goroutine.
type Handler interface {
	HandlePosition(snap model.VesselSnapshot)
	HandleQueue(terminal model.Terminal, q model.QueueSnapshot)
}

// positionPayload mirrors the JSON published by the AIS relay. Field names
// are upper case on the wire.
type positionPayload struct {
	MMSI      int     `json:"MMSI"`
	Lat       float64 `json:"LAT"`
	Lon       float64 `json:"LON"`
	Speed     int     `json:"SPEED"`
	Heading   float64 `json:"HEADING"`
	Course    float64 `json:"COURSE"`
	Timestamp int64   `json:"TIMESTAMP"` // unix milliseconds
}

func (s *Subscriber) onPosition(_ paho.Client, msg paho.Message) {
	var p positionPayload
	if err := json.Unmarshal(msg.Payload(), &p); err != nil {
		s.logger.Warnf("drop malformed position on %s: %v", msg.Topic(), err)
		return
	}
	if p.MMSI == 0 {
		// Some relays omit the MMSI from the payload and rely on the topic.
		if mmsi, err := strconv.Atoi(topicSuffix(msg.Topic())); err == nil {
			p.MMSI = mmsi
		}
	}
	if p.Lat == 0 && p.Lon == 0 {
		s.logger.Warnf("drop position without coordinates for MMSI %d", p.MMSI)
		return
	}
	ts := time.Now()
	if p.Timestamp > 0 {
		ts = time.UnixMilli(p.Timestamp)
	}
	s.handler.HandlePosition(model.VesselSnapshot{
		MMSI:        p.MMSI,
		Lat:         p.Lat,
		Lon:         p.Lon,
		SpeedTenths: p.Speed,
		Heading:     p.Heading,
		Course:      p.Course,
		Timestamp:   ts,
	})
}

func (s *Subscriber) onQueue(_ paho.Client, msg paho.Message) {
	terminal, err := model.ParseTerminal(topicSuffix(msg.Topic()))
	if err != nil {
		s.logger.Warnf("drop queue message: %v", err)
		return
	}
	var q model.QueueSnapshot
	if err := json.Unmarshal(msg.Payload(), &q); err != nil {
		s.logger.Warnf("drop malformed queue snapshot on %s: %v", msg.Topic(), err)
		return
	}
	s.handler.HandleQueue(terminal, q)
}

func topicSuffix(topic string) string {
	if i := strings.LastIndex(topic, "/"); i >= 0 {
		return topic[i+1:]
	}
	return topic
}
