package mqtt

import (
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kfenech/ferrywatch/core/model"
)

type mockMessage struct {
	topic   string
	payload []byte
}

func (m mockMessage) Duplicate() bool            { return false }
func (m mockMessage) Qos() byte                  { return 1 }
func (m mockMessage) Retained() bool             { return false }
func (m mockMessage) Topic() string              { return m.topic }
func (m mockMessage) MessageID() uint16          { return 0 }
func (m mockMessage) Payload() []byte            { return m.payload }
func (m mockMessage) Ack()                       {}
func (m mockMessage) Read(b []byte) (int, error) { copy(b, m.payload); return len(m.payload), nil }

type mockToken struct{}

func (t mockToken) Wait() bool                       { return true }
func (t mockToken) WaitTimeout(_ time.Duration) bool { return true }
func (t mockToken) Error() error                     { return nil }
func (t mockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type mockClient struct {
	subscribed   []string
	disconnected bool
}

func (m *mockClient) IsConnected() bool       { return true }
func (m *mockClient) Connect() paho.Token     { return mockToken{} }
func (m *mockClient) Disconnect(quiesce uint) { m.disconnected = true }
func (m *mockClient) Subscribe(topic string, qos byte, cb paho.MessageHandler) paho.Token {
	m.subscribed = append(m.subscribed, topic)
	return mockToken{}
}

type recordHandler struct {
	positions []model.VesselSnapshot
	queues    map[model.Terminal]model.QueueSnapshot
}

func (h *recordHandler) HandlePosition(snap model.VesselSnapshot) {
	h.positions = append(h.positions, snap)
}

func (h *recordHandler) HandleQueue(terminal model.Terminal, q model.QueueSnapshot) {
	if h.queues == nil {
		h.queues = map[model.Terminal]model.QueueSnapshot{}
	}
	h.queues[terminal] = q
}

func newTestSubscriber(t *testing.T) (*Subscriber, *recordHandler) {
	t.Helper()
	mc := &mockClient{}
	newMQTTClient = func(_ *paho.ClientOptions) pahoClient { return mc }
	t.Cleanup(func() {
		newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) }
	})
	h := &recordHandler{}
	sub, err := NewSubscriber(Config{Broker: "tcp://localhost:1883"}, h)
	if err != nil {
		t.Fatalf("subscriber: %v", err)
	}
	return sub, h
}

func TestOnPosition_Decodes(t *testing.T) {
	sub, h := newTestSubscriber(t)
	payload := `{"MMSI":237593100,"LAT":35.99,"LON":14.31,"SPEED":120,"HEADING":135,"COURSE":130,"TIMESTAMP":1770000000000}`
	sub.onPosition(nil, mockMessage{topic: "ferries/positions/237593100", payload: []byte(payload)})

	if len(h.positions) != 1 {
		t.Fatalf("positions = %d, want 1", len(h.positions))
	}
	got := h.positions[0]
	if got.MMSI != 237593100 || got.SpeedTenths != 120 || got.Heading != 135 {
		t.Errorf("unexpected snapshot %+v", got)
	}
	if got.Timestamp != time.UnixMilli(1770000000000) {
		t.Errorf("Timestamp = %v", got.Timestamp)
	}
}

func TestOnPosition_MMSIFromTopic(t *testing.T) {
	sub, h := newTestSubscriber(t)
	payload := `{"LAT":35.99,"LON":14.31,"SPEED":50}`
	sub.onPosition(nil, mockMessage{topic: "ferries/positions/215145000", payload: []byte(payload)})

	if len(h.positions) != 1 || h.positions[0].MMSI != 215145000 {
		t.Fatalf("got %+v, want MMSI from topic", h.positions)
	}
}

func TestOnPosition_DropsMalformed(t *testing.T) {
	sub, h := newTestSubscriber(t)
	sub.onPosition(nil, mockMessage{topic: "ferries/positions/215145000", payload: []byte("not json")})
	sub.onPosition(nil, mockMessage{topic: "ferries/positions/215145000", payload: []byte(`{"MMSI":215145000,"LAT":0,"LON":0}`)})
	if len(h.positions) != 0 {
		t.Errorf("malformed messages should be dropped, got %d", len(h.positions))
	}
}

func TestOnQueue_Decodes(t *testing.T) {
	sub, h := newTestSubscriber(t)
	sub.onQueue(nil, mockMessage{topic: "ferries/queues/cirkewwa", payload: []byte(`{"car":40,"truck":5,"motorbike":12}`)})

	q, ok := h.queues[model.TerminalCirkewwa]
	if !ok {
		t.Fatal("queue snapshot not delivered")
	}
	if q.Cars != 40 || q.Trucks != 5 || q.Motorbikes != 12 {
		t.Errorf("unexpected snapshot %+v", q)
	}
}

func TestOnQueue_DropsUnknownTerminal(t *testing.T) {
	sub, h := newTestSubscriber(t)
	sub.onQueue(nil, mockMessage{topic: "ferries/queues/valletta", payload: []byte(`{"car":40}`)})
	if len(h.queues) != 0 {
		t.Errorf("unknown terminal should be dropped, got %+v", h.queues)
	}
}

func TestSubscriber_Close(t *testing.T) {
	mc := &mockClient{}
	newMQTTClient = func(_ *paho.ClientOptions) pahoClient { return mc }
	t.Cleanup(func() {
		newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) }
	})

	sub, err := NewSubscriber(Config{Broker: "tcp://localhost:1883"}, &recordHandler{})
	if err != nil {
		t.Fatalf("subscriber: %v", err)
	}
	sub.Close()
	if !mc.disconnected {
		t.Error("expected Disconnect to be called")
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{Broker: "tcp://localhost:1883"}
	cfg.SetDefaults()
	if cfg.PositionTopic != "ferries/positions/+" || cfg.QueueTopic != "ferries/queues/+" {
		t.Errorf("unexpected topics %q %q", cfg.PositionTopic, cfg.QueueTopic)
	}
	if cfg.ClientID != "ferrywatch" {
		t.Errorf("ClientID = %q", cfg.ClientID)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Error("expected error for missing broker")
	}
	if err := (Config{Broker: "tcp://localhost:1883"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
