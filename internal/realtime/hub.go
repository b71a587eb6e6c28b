package realtime

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
)

const broadcastBuffer = 256

type subscription struct {
	client *Client
	topic  Topic
}

type broadcastMsg struct {
	topic Topic
	frame []byte
	name  string
}

// Hub is the server-side fan-out dispatcher. All room state is confined to
// the run-loop goroutine; registration, subscription and broadcast requests
// arrive over channels, so no lock is needed.
//
// Delivery is best effort: a client whose send buffer is full drops the
// event for itself only, and never backpressures the publisher.
type Hub struct {
	logger *slog.Logger

	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	broadcast   chan broadcastMsg
	done        chan struct{}

	clients map[*Client]struct{}
	rooms   map[Topic]map[*Client]struct{}
}

// HubParams defines the dependencies for the Hub, injected by fx.
type HubParams struct {
	fx.In
	fx.Lifecycle

	Logger *slog.Logger
}

// NewHub constructs the Hub and runs its loop under the fx lifecycle.
func NewHub(params HubParams) *Hub {
	hub := newHub(params.Logger)

	loopCtx, cancel := context.WithCancel(context.Background())
	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go hub.Run(loopCtx)

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()

			return nil
		},
	})

	return hub
}

func newHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:      logger,
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		broadcast:   make(chan broadcastMsg, broadcastBuffer),
		done:        make(chan struct{}),
		clients:     make(map[*Client]struct{}),
		rooms:       make(map[Topic]map[*Client]struct{}),
	}
}

// Run drives the hub loop until ctx is cancelled. Once it returns, the
// channel API becomes a no-op so late unregisters from draining
// connections cannot block.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()

			return

		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.logger.Debug("realtime client registered", slog.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			h.dropClient(client)

		case sub := <-h.subscribe:
			h.addSubscription(sub)

		case sub := <-h.unsubscribe:
			h.removeSubscription(sub)

		case msg := <-h.broadcast:
			h.fanOut(msg)
		}
	}
}

// Register adds a connection to the hub.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a connection and every subscription it holds. No event
// is emitted to other subscribers on disconnect.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Subscribe adds the connection to a topic's subscriber set. Joining a topic
// twice is a no-op.
func (h *Hub) Subscribe(client *Client, topic Topic) {
	select {
	case h.subscribe <- subscription{client: client, topic: topic}:
	case <-h.done:
	}
}

// Unsubscribe removes one subscription; unknown pairs are ignored.
func (h *Hub) Unsubscribe(client *Client, topic Topic) {
	select {
	case h.unsubscribe <- subscription{client: client, topic: topic}:
	case <-h.done:
	}
}

// Publish emits an event to every connection currently subscribed to the
// topic. Emission is fire-and-forget; when the broadcast queue is saturated
// the event is dropped and logged.
func (h *Hub) Publish(ctx context.Context, topic Topic, event Event) {
	frame := event.Marshal()
	if frame == nil {
		h.logger.LogAttrs(ctx, slog.LevelWarn, "dropping unmarshalable event",
			slog.String("event", event.Name),
			slog.String("topic", string(topic)),
		)

		return
	}

	select {
	case h.broadcast <- broadcastMsg{topic: topic, frame: frame, name: event.Name}:
	default:
		h.logger.LogAttrs(ctx, slog.LevelWarn, "broadcast queue full, dropping event",
			slog.String("event", event.Name),
			slog.String("topic", string(topic)),
		)
	}
}

func (h *Hub) addSubscription(sub subscription) {
	if _, ok := h.clients[sub.client]; !ok {
		// Raced with a disconnect; nothing to join.
		return
	}

	room, ok := h.rooms[sub.topic]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[sub.topic] = room
	}
	room[sub.client] = struct{}{}

	h.logger.Debug("joined room",
		slog.String("topic", string(sub.topic)),
		slog.Int("subscribers", len(room)),
	)
}

func (h *Hub) removeSubscription(sub subscription) {
	room, ok := h.rooms[sub.topic]
	if !ok {
		return
	}

	delete(room, sub.client)
	if len(room) == 0 {
		delete(h.rooms, sub.topic)
	}
}

func (h *Hub) dropClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	for topic, room := range h.rooms {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, topic)
		}
	}
	close(client.send)

	h.logger.Debug("realtime client unregistered", slog.Int("clients", len(h.clients)))
}

func (h *Hub) fanOut(msg broadcastMsg) {
	room, ok := h.rooms[msg.topic]
	if !ok {
		return
	}

	for client := range room {
		select {
		case client.send <- msg.frame:
		default:
			// Slow consumer; drop this event for this client only.
			h.logger.Warn("send buffer full, dropping event",
				slog.String("event", msg.name),
				slog.String("topic", string(msg.topic)),
			)
		}
	}
}

func (h *Hub) closeAll() {
	for client := range h.clients {
		close(client.send)
	}
	h.clients = make(map[*Client]struct{})
	h.rooms = make(map[Topic]map[*Client]struct{})
}
