package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"fleet/internal/realtime"

	"github.com/stretchr/testify/require"
)

// recordingPublisher captures published events for assertions instead of
// fanning them out.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	Topic realtime.Topic
	Event realtime.Event
}

func (p *recordingPublisher) Publish(_ context.Context, topic realtime.Topic, event realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, publishedEvent{Topic: topic, Event: event})
}

func (p *recordingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]publishedEvent(nil), p.events...)
}

func (p *recordingPublisher) requireOne(t *testing.T) publishedEvent {
	t.Helper()

	events := p.published()
	require.Len(t, events, 1)

	return events[0]
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
