// Package rtclient is the client-side adapter for the realtime layer. One
// Session per authenticated application session owns the websocket
// connection; views bind to it for the events they care about and release
// only their own bindings on teardown, never the shared connection.
package rtclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"fleet/internal/realtime"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Session is the process-wide realtime connection. Created once at
// authenticated-session start and torn down at logout; views must never
// dial their own.
type Session struct {
	conn   *websocket.Conn
	logger *slog.Logger

	writeMu sync.Mutex

	mu       sync.Mutex
	views    map[*View]struct{}
	watchers map[int64]int
	closed   bool
}

// Dial opens the session connection. The access token rides the upgrade
// request as a bearer header.
func Dial(ctx context.Context, wsURL, token string, logger *slog.Logger) (*Session, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, errors.Wrapf(err, "dial realtime (status %d)", resp.StatusCode)
		}

		return nil, errors.Wrap(err, "dial realtime")
	}

	session := &Session{
		conn:     conn,
		logger:   logger,
		views:    make(map[*View]struct{}),
		watchers: make(map[int64]int),
	}
	go session.readLoop()

	return session, nil
}

// Close tears the connection down. Intended for logout; individual views
// close themselves instead.
func (s *Session) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	return s.conn.Close()
}

// JoinAdmin subscribes this connection to the admin room.
func (s *Session) JoinAdmin() error {
	return s.send(realtime.OpJoinAdminRoom, nil)
}

// JoinCustomer subscribes to a customer's room.
func (s *Session) JoinCustomer(customerID int64) error {
	return s.send(realtime.OpJoinCustomerRoom, realtime.JoinPayload{ID: customerID})
}

// JoinDriver subscribes to a driver's room.
func (s *Session) JoinDriver(driverID int64) error {
	return s.send(realtime.OpJoinDriverRoom, realtime.JoinPayload{ID: driverID})
}

// JoinDelivery subscribes to a delivery's room.
func (s *Session) JoinDelivery(deliveryID int64) error {
	return s.send(realtime.OpJoinDelivery, realtime.JoinPayload{ID: deliveryID})
}

// LeaveDelivery drops a delivery-room subscription.
func (s *Session) LeaveDelivery(deliveryID int64) error {
	return s.send(realtime.OpLeaveDelivery, realtime.JoinPayload{ID: deliveryID})
}

// ReportPosition sends a driver-originated fix for a delivery.
func (s *Session) ReportPosition(deliveryID int64, lat, lng float64) error {
	return s.send(realtime.OpUpdateLocation, realtime.UpdateLocationPayload{
		DeliveryID: deliveryID,
		Lat:        lat,
		Lng:        lng,
	})
}

// ReportDeviceFix sends a hardware fix keyed by device serial.
func (s *Session) ReportDeviceFix(serial string, lat, lng float64) error {
	return s.send(realtime.OpDeviceUpdate, realtime.DeviceUpdatePayload{
		SerialNumber: serial,
		Lat:          lat,
		Lng:          lng,
	})
}

func (s *Session) send(op string, payload any) error {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrapf(err, "marshal %s payload", op)
		}
		data = raw
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return errors.Wrapf(s.conn.WriteJSON(realtime.Envelope{Op: op, Data: data}), "send %s", op)
}

func (s *Session) readLoop() {
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				// Server-side state is gone with the connection; a new
				// session must re-run its full join sequence.
				s.logger.Warn("realtime connection lost", slog.Any("error", err))
			}

			return
		}

		frame := struct {
			Name string          `json:"event"`
			Data json.RawMessage `json:"data"`
		}{}
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.logger.Warn("ignoring malformed event frame", slog.Any("error", err))

			continue
		}

		s.dispatch(frame.Name, frame.Data)
	}
}

func (s *Session) dispatch(name string, data json.RawMessage) {
	s.mu.Lock()
	views := make([]*View, 0, len(s.views))
	for view := range s.views {
		views = append(views, view)
	}
	s.mu.Unlock()

	for _, view := range views {
		view.deliver(name, data)
	}
}

// watchDelivery joins the delivery room for one view. Room subscriptions
// are per connection, so the room is shared by every view watching the
// same delivery and refcounted here.
func (s *Session) watchDelivery(deliveryID int64) error {
	if err := s.JoinDelivery(deliveryID); err != nil {
		return err
	}

	s.mu.Lock()
	s.watchers[deliveryID]++
	s.mu.Unlock()

	return nil
}

// unwatchDelivery drops one view's interest; the room is left only when
// the last watching view is gone.
func (s *Session) unwatchDelivery(deliveryID int64) {
	s.mu.Lock()
	s.watchers[deliveryID]--
	last := s.watchers[deliveryID] <= 0
	if last {
		delete(s.watchers, deliveryID)
	}
	s.mu.Unlock()

	if !last {
		return
	}

	if err := s.LeaveDelivery(deliveryID); err != nil {
		s.logger.Debug("leave delivery room failed",
			slog.Int64("deliveryID", deliveryID),
			slog.Any("error", err),
		)
	}
}

func (s *Session) attach(view *View) {
	s.mu.Lock()
	s.views[view] = struct{}{}
	s.mu.Unlock()
}

func (s *Session) detach(view *View) {
	s.mu.Lock()
	delete(s.views, view)
	s.mu.Unlock()
}
