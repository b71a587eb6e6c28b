package rtclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
)

// Identity is the caller's realtime-relevant shape as reported by the
// server. A user can hold several roles; Role carries the strongest one.
type Identity struct {
	Role       string
	DriverID   *int64
	CustomerID *int64
}

// IdentityResolver maps the session's credentials to an Identity. The
// HTTP implementation asks the server; tests substitute their own.
type IdentityResolver interface {
	Resolve(ctx context.Context) (Identity, error)
}

// Handler consumes a single event's payload.
type Handler func(data json.RawMessage)

// View is one screen's binding to the shared session. It tracks which
// handlers and delivery rooms it owns so Close releases exactly those.
type View struct {
	session *Session
	logger  *slog.Logger

	mu         sync.Mutex
	handlers   map[string][]Handler
	deliveries map[int64]struct{}
	closed     bool
}

// NewView binds a fresh view to the session.
func (s *Session) NewView() *View {
	view := &View{
		session:    s,
		logger:     s.logger,
		handlers:   make(map[string][]Handler),
		deliveries: make(map[int64]struct{}),
	}
	s.attach(view)

	return view
}

// On registers a handler for an event name. Multiple handlers per event
// are allowed; each gets the raw payload.
func (v *View) On(event string, handler Handler) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.handlers[event] = append(v.handlers[event], handler)
}

// Subscribe resolves the caller's identity and joins the matching base
// rooms. Resolution failure is not fatal to the view: it logs and leaves
// the view unsubscribed, so the rest of the screen keeps working without
// live updates.
func (v *View) Subscribe(ctx context.Context, resolver IdentityResolver) {
	identity, err := resolver.Resolve(ctx)
	if err != nil {
		v.logger.Warn("identity resolution failed, view stays unsubscribed",
			slog.Any("error", err))

		return
	}

	v.joinBase(identity)
}

func (v *View) joinBase(identity Identity) {
	if identity.Role == "admin" {
		if err := v.session.JoinAdmin(); err != nil {
			v.logger.Warn("join admin room failed", slog.Any("error", err))
		}

		return
	}
	if identity.DriverID != nil {
		if err := v.session.JoinDriver(*identity.DriverID); err != nil {
			v.logger.Warn("join driver room failed", slog.Any("error", err))
		}
	}
	if identity.CustomerID != nil {
		if err := v.session.JoinCustomer(*identity.CustomerID); err != nil {
			v.logger.Warn("join customer room failed", slog.Any("error", err))
		}
	}
}

// WatchDelivery joins a delivery room on behalf of this view. The view's
// interest is released when it closes; the underlying room is shared with
// any other view watching the same delivery.
func (v *View) WatchDelivery(deliveryID int64) error {
	v.mu.Lock()
	_, watching := v.deliveries[deliveryID]
	v.mu.Unlock()
	if watching {
		return nil
	}

	if err := v.session.watchDelivery(deliveryID); err != nil {
		return err
	}

	v.mu.Lock()
	v.deliveries[deliveryID] = struct{}{}
	v.mu.Unlock()

	return nil
}

// Close releases this view's bindings: its handlers stop firing and its
// delivery rooms are left. The session connection itself stays open for
// other views.
func (v *View) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()

		return
	}
	v.closed = true
	deliveries := make([]int64, 0, len(v.deliveries))
	for id := range v.deliveries {
		deliveries = append(deliveries, id)
	}
	v.handlers = nil
	v.deliveries = nil
	v.mu.Unlock()

	v.session.detach(v)

	for _, id := range deliveries {
		v.session.unwatchDelivery(id)
	}
}

func (v *View) deliver(event string, data json.RawMessage) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()

		return
	}
	handlers := append([]Handler(nil), v.handlers[event]...)
	v.mu.Unlock()

	for _, handler := range handlers {
		handler(data)
	}
}
