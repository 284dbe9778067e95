package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfenech/ferrywatch/api/routes"
	"github.com/kfenech/ferrywatch/core/model"
	"github.com/kfenech/ferrywatch/core/vesselstore"
	"github.com/kfenech/ferrywatch/infra/push"
	"github.com/kfenech/ferrywatch/internal/eventbus"
)

type fixedSchedule struct {
	sched *model.FerrySchedule
}

func (f fixedSchedule) Current(time.Time) *model.FerrySchedule { return f.sched }

func newTestServer(t *testing.T, sched *model.FerrySchedule) (*Server, *vesselstore.MemoryStore, *push.Registry) {
	t.Helper()
	store := vesselstore.NewMemoryStore()
	registry := push.NewRegistry()
	srv := NewServer(Config{}, routes.Deps{
		Store:    store,
		Schedule: fixedSchedule{sched: sched},
		Bus:      eventbus.New(),
		Registry: registry,
	})
	return srv, store, registry
}

func dockedNikolaus() model.Vessel {
	return model.Vessel{
		VesselSnapshot: model.VesselSnapshot{
			MMSI:      model.NikolausMMSI,
			Lat:       model.CirkewwaLat,
			Lon:       model.CirkewwaLon,
			Timestamp: time.Now(),
		},
		Name:       "MV Nikolaos",
		IsNikolaus: true,
		State:      model.DockedCirkewwa,
	}
}

func TestHealth(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListVessels(t *testing.T) {
	srv, store, _ := newTestServer(t, nil)
	store.Set(dockedNikolaus())

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/vessels", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Vessels []model.Vessel `json:"vessels"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Vessels, 1)
	assert.Equal(t, "MV Nikolaos", body.Vessels[0].Name)
	assert.Equal(t, model.DockedCirkewwa, body.Vessels[0].State)
}

func TestTerminalSafety(t *testing.T) {
	srv, store, _ := newTestServer(t, nil)
	store.Set(dockedNikolaus())

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/terminals/cirkewwa/safety", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Safety struct {
			Status   string `json:"status"`
			Terminal string `json:"terminal"`
		} `json:"safety"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "DOCKED_HERE", body.Safety.Status)
	assert.Equal(t, "cirkewwa", body.Safety.Terminal)
}

func TestTerminalSafety_DriveTime(t *testing.T) {
	srv, store, _ := newTestServer(t, nil)
	store.Set(dockedNikolaus())

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/terminals/cirkewwa/safety?drive_time=45", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Safety struct {
			Status string `json:"status"`
		} `json:"safety"`
		Position *struct {
			State string `json:"state"`
		} `json:"predicted_position"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ALL_CLEAR", body.Safety.Status)
	if assert.NotNil(t, body.Position) {
		assert.Equal(t, "DOCKED_MGARR", body.Position.State)
	}
}

func TestTerminalSafety_BadInputs(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/terminals/valletta/safety", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/terminals/cirkewwa/safety?drive_time=soon", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/terminals/cirkewwa/safety?drive_time=-3", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLikelyFerryEndpoint(t *testing.T) {
	srv, store, _ := newTestServer(t, nil)
	store.Set(dockedNikolaus())

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/terminals/cirkewwa/ferry", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Ferry      *model.Vessel `json:"ferry"`
		Confidence string        `json:"confidence"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.Ferry)
	assert.Equal(t, "MV Nikolaos", body.Ferry.Name)
	assert.Equal(t, "high", body.Confidence)
}

func TestQueueEndpoint(t *testing.T) {
	srv, store, _ := newTestServer(t, nil)

	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/terminals/cirkewwa/queue", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	store.Set(dockedNikolaus())
	store.SetQueue(model.TerminalCirkewwa, model.QueueSnapshot{Cars: 50, Trucks: 10})

	resp, err = srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/terminals/cirkewwa/queue", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Estimate struct {
			CarEquivalent int    `json:"car_equivalent"`
			Severity      string `json:"severity"`
		} `json:"estimate"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 80, body.Estimate.CarEquivalent)
	assert.Equal(t, "low", body.Estimate.Severity)
}

func TestScheduleEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)
	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/schedule", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	today := time.Now().Format("2006-01-02")
	srv, _, _ = newTestServer(t, &model.FerrySchedule{Date: today, Cirkewwa: []string{"06:00"}})
	resp, err = srv.App().Test(httptest.NewRequest(http.MethodGet, "/api/schedule", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sched model.FerrySchedule
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sched))
	assert.Equal(t, today, sched.Date)
}

func TestPushSubscribe(t *testing.T) {
	srv, _, registry := newTestServer(t, nil)

	body := bytes.NewBufferString(`{"token":"device-1","terminal":"cirkewwa"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/push/subscribe", body)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, registry.Len())

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)

	del := httptest.NewRequest(http.MethodDelete, "/api/push/subscribe/"+created.ID, nil)
	resp, err = srv.App().Test(del)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 0, registry.Len())
}

func TestPushSubscribe_BadRequest(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/push/subscribe", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/api/push/subscribe", bytes.NewBufferString(`{"token":"x","terminal":"valletta"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = srv.App().Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPushSubscribe_RateLimited(t *testing.T) {
	srv, _, _ := newTestServer(t, nil)

	status := 0
	for i := 0; i < 11; i++ {
		body := bytes.NewBufferString(fmt.Sprintf(`{"token":"device-%d","terminal":"cirkewwa"}`, i))
		req := httptest.NewRequest(http.MethodPost, "/api/push/subscribe", body)
		req.Header.Set("Content-Type", "application/json")
		resp, err := srv.App().Test(req)
		require.NoError(t, err)
		status = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, status)
}
