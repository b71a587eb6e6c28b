package realtime

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthorizer struct {
	err error
}

func (a stubAuthorizer) Authorize(context.Context, Actor, Topic) error {
	return a.err
}

type reportedPosition struct {
	deliveryID int64
	lat, lng   float64
}

type reportedFix struct {
	serial   string
	lat, lng float64
}

type sinkRecorder struct {
	positions chan reportedPosition
	fixes     chan reportedFix
}

func newSinkRecorder() *sinkRecorder {
	return &sinkRecorder{
		positions: make(chan reportedPosition, 8),
		fixes:     make(chan reportedFix, 8),
	}
}

func (s *sinkRecorder) ReportPosition(_ context.Context, deliveryID int64, lat, lng float64) error {
	s.positions <- reportedPosition{deliveryID: deliveryID, lat: lat, lng: lng}

	return nil
}

func (s *sinkRecorder) ReportDeviceFix(_ context.Context, serial string, lat, lng float64) error {
	s.fixes <- reportedFix{serial: serial, lat: lat, lng: lng}

	return nil
}

// dialServedClient spins up a served connection: a real hub, a stub
// authorizer and sink, and a websocket client talking to it.
func dialServedClient(t *testing.T, authorizer Authorizer, sink PositionSink, actor Actor) (*websocket.Conn, *Hub) {
	t.Helper()

	hub := startTestHub(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	upgrader := websocket.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)

		client := NewClient(ClientDeps{
			Hub:        hub,
			Authorizer: authorizer,
			Sink:       sink,
			Logger:     logger,
		}, conn, actor)
		client.Serve(r.Context())
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn, hub
}

func sendEnvelope(t *testing.T, conn *websocket.Conn, op string, payload any) {
	t.Helper()

	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		data = raw
	}
	require.NoError(t, conn.WriteJSON(Envelope{Op: op, Data: data}))
}

func TestClient_JoinThenReceive(t *testing.T) {
	sink := newSinkRecorder()
	conn, hub := dialServedClient(t, stubAuthorizer{}, sink, Actor{Role: "admin"})

	sendEnvelope(t, conn, OpJoinDelivery, JoinPayload{ID: 42})

	// The join travels the read pump asynchronously; publish until the
	// subscription took effect.
	require.Eventually(t, func() bool {
		hub.Publish(context.Background(), DeliveryTopic(42), Event{
			Name: EventLocationUpdated,
			Data: LocationUpdatedData{Lat: 25.0, Lng: 121.5},
		})
		_ = conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		_, raw, err := conn.ReadMessage()

		return err == nil && strings.Contains(string(raw), EventLocationUpdated)
	}, 2*time.Second, 50*time.Millisecond)
}

func TestClient_DeniedJoinReceivesNothing(t *testing.T) {
	sink := newSinkRecorder()
	conn, hub := dialServedClient(t, stubAuthorizer{err: ErrJoinDenied}, sink, Actor{Role: "customer"})

	sendEnvelope(t, conn, OpJoinDelivery, JoinPayload{ID: 42})

	// Allow the join attempt to be processed, then publish.
	time.Sleep(50 * time.Millisecond)
	hub.Publish(context.Background(), DeliveryTopic(42), Event{Name: EventLocationUpdated})

	_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestClient_UpdateLocationReachesSink(t *testing.T) {
	sink := newSinkRecorder()
	conn, _ := dialServedClient(t, stubAuthorizer{}, sink, Actor{Role: "driver"})

	sendEnvelope(t, conn, OpUpdateLocation, UpdateLocationPayload{DeliveryID: 42, Lat: 25.0, Lng: 121.5})

	select {
	case position := <-sink.positions:
		assert.Equal(t, reportedPosition{deliveryID: 42, lat: 25.0, lng: 121.5}, position)
	case <-time.After(time.Second):
		t.Fatal("position never reached the sink")
	}
}

func TestClient_DeviceUpdateReachesSink(t *testing.T) {
	sink := newSinkRecorder()
	conn, _ := dialServedClient(t, stubAuthorizer{}, sink, Actor{Role: "driver"})

	sendEnvelope(t, conn, OpDeviceUpdate, DeviceUpdatePayload{SerialNumber: "SN-1", Lat: 1.0, Lng: 2.0})

	select {
	case fix := <-sink.fixes:
		assert.Equal(t, reportedFix{serial: "SN-1", lat: 1.0, lng: 2.0}, fix)
	case <-time.After(time.Second):
		t.Fatal("fix never reached the sink")
	}
}

func TestClient_MalformedFrameKeepsConnection(t *testing.T) {
	sink := newSinkRecorder()
	conn, _ := dialServedClient(t, stubAuthorizer{}, sink, Actor{Role: "driver"})

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	// The connection survives garbage; a well-formed op still works.
	sendEnvelope(t, conn, OpUpdateLocation, UpdateLocationPayload{DeliveryID: 1, Lat: 1, Lng: 1})
	select {
	case <-sink.positions:
	case <-time.After(time.Second):
		t.Fatal("connection did not survive malformed frame")
	}
}
