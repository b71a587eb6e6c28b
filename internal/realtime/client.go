package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096

	defaultSendBuffer = 32
)

// PositionSink receives the position-bearing operations parsed off a
// connection. The tracking usecase is the production implementation; it
// persists before broadcasting and swallows unknown-target errors.
type PositionSink interface {
	ReportPosition(ctx context.Context, deliveryID int64, lat, lng float64) error
	ReportDeviceFix(ctx context.Context, serial string, lat, lng float64) error
}

// ClientDeps bundles the collaborators every connection shares.
type ClientDeps struct {
	Hub        *Hub
	Authorizer Authorizer
	Sink       PositionSink
	Logger     *slog.Logger
	SendBuffer int
}

// Client is one websocket connection attached to the hub. A single read
// pump dispatches inbound operations sequentially, which preserves
// per-connection ordering of position reports.
type Client struct {
	deps  ClientDeps
	conn  *websocket.Conn
	actor Actor
	send  chan []byte
}

// NewClient wraps an upgraded websocket connection.
func NewClient(deps ClientDeps, conn *websocket.Conn, actor Actor) *Client {
	buffer := deps.SendBuffer
	if buffer <= 0 {
		buffer = defaultSendBuffer
	}

	return &Client{
		deps:  deps,
		conn:  conn,
		actor: actor,
		send:  make(chan []byte, buffer),
	}
}

// Serve registers the client and pumps messages until the connection drops
// or ctx is cancelled. It blocks; the caller owns the connection goroutine.
func (c *Client) Serve(ctx context.Context) {
	c.deps.Hub.Register(c)
	defer c.deps.Hub.Unregister(c)

	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.deps.Logger.Debug("websocket closed unexpectedly", slog.Any("error", err))
			}

			return
		}

		var envelope Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			c.deps.Logger.Warn("ignoring malformed frame", slog.Any("error", err))

			continue
		}

		c.dispatch(ctx, envelope)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// dispatch routes one inbound operation. Unknown operations and denied
// joins are logged and otherwise ignored; the connection stays up.
func (c *Client) dispatch(ctx context.Context, envelope Envelope) {
	switch envelope.Op {
	case OpJoinAdminRoom:
		c.join(ctx, TopicAdmin)

	case OpJoinDelivery:
		if payload, ok := c.joinPayload(envelope); ok {
			c.join(ctx, DeliveryTopic(payload.ID))
		}

	case OpJoinCustomerRoom:
		if payload, ok := c.joinPayload(envelope); ok {
			c.join(ctx, CustomerTopic(payload.ID))
		}

	case OpJoinDriverRoom:
		if payload, ok := c.joinPayload(envelope); ok {
			c.join(ctx, DriverTopic(payload.ID))
		}

	case OpLeaveDelivery:
		if payload, ok := c.joinPayload(envelope); ok {
			c.deps.Hub.Unsubscribe(c, DeliveryTopic(payload.ID))
		}

	case OpUpdateLocation:
		var payload UpdateLocationPayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.deps.Logger.Warn("ignoring malformed update_location payload", slog.Any("error", err))

			return
		}
		if err := c.deps.Sink.ReportPosition(ctx, payload.DeliveryID, payload.Lat, payload.Lng); err != nil {
			c.deps.Logger.Error("report position failed",
				slog.Int64("deliveryID", payload.DeliveryID),
				slog.Any("error", err),
			)
		}

	case OpDeviceUpdate:
		var payload DeviceUpdatePayload
		if err := json.Unmarshal(envelope.Data, &payload); err != nil {
			c.deps.Logger.Warn("ignoring malformed device_update payload", slog.Any("error", err))

			return
		}
		if err := c.deps.Sink.ReportDeviceFix(ctx, payload.SerialNumber, payload.Lat, payload.Lng); err != nil {
			c.deps.Logger.Error("report device fix failed",
				slog.String("serial", payload.SerialNumber),
				slog.Any("error", err),
			)
		}

	default:
		c.deps.Logger.Warn("ignoring unknown operation", slog.String("op", envelope.Op))
	}
}

func (c *Client) joinPayload(envelope Envelope) (JoinPayload, bool) {
	var payload JoinPayload
	if err := json.Unmarshal(envelope.Data, &payload); err != nil {
		c.deps.Logger.Warn("ignoring malformed join payload",
			slog.String("op", envelope.Op),
			slog.Any("error", err),
		)

		return JoinPayload{}, false
	}

	return payload, true
}

func (c *Client) join(ctx context.Context, topic Topic) {
	if err := c.deps.Authorizer.Authorize(ctx, c.actor, topic); err != nil {
		c.deps.Logger.Warn("join denied",
			slog.String("topic", string(topic)),
			slog.String("role", c.actor.Role),
			slog.Any("error", err),
		)

		return
	}

	c.deps.Hub.Subscribe(c, topic)
}
