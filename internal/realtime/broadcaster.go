package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Broadcaster is the single entry point the write path uses to push the
// outcome of a mutation to connected clients. It resolves a room to its
// current member set through the Registry and delivers the frame to each
// member's outgoing queue. Delivery is fire-and-forget per connection: a full
// buffer or a just-closed connection drops the frame for that member only and
// is never surfaced to the caller.
//
// The frame is marshalled once per call and each connection's queue is FIFO,
// so sequential broadcasts to the same room arrive at each member in the
// order they were issued.
type Broadcaster struct {
	registry *Registry

	mu    sync.RWMutex
	conns map[string]*client
}

// NewBroadcaster creates a Broadcaster resolving rooms through reg.
func NewBroadcaster(reg *Registry) *Broadcaster {
	return &Broadcaster{
		registry: reg,
		conns:    make(map[string]*client),
	}
}

// Broadcast delivers (event, payload) to every connection currently in room.
func (b *Broadcaster) Broadcast(room Room, event string, payload any) {
	b.deliver(b.registry.MembersOf(room), "", event, payload)
}

// BroadcastExcept delivers (event, payload) to every connection in room except
// exceptConnID. Used when the originating connection already has the new state
// locally, e.g. typing indicators.
func (b *Broadcaster) BroadcastExcept(room Room, event string, payload any, exceptConnID string) {
	b.deliver(b.registry.MembersOf(room), exceptConnID, event, payload)
}

// BroadcastAll delivers (event, payload) to every connection regardless of
// room membership. Only project:created uses this — a brand-new project has no
// room yet and every dashboard needs to hear about it.
func (b *Broadcaster) BroadcastAll(event string, payload any) {
	b.deliver(nil, "", event, payload)
}

// ConnCount returns the number of attached connections.
func (b *Broadcaster) ConnCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.conns)
}

// deliver pushes one marshalled frame to each target. A nil ids slice means
// every attached connection. Holding the read lock across the whole loop makes
// each send atomic relative to detach closing the channel.
func (b *Broadcaster) deliver(ids []string, except string, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("realtime: cannot marshal broadcast payload", "event", event, "err", err)
		return
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		slog.Error("realtime: cannot marshal broadcast frame", "event", event, "err", err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if ids == nil {
		ids = make([]string, 0, len(b.conns))
		for id := range b.conns {
			ids = append(ids, id)
		}
	}

	for _, id := range ids {
		if id == except {
			continue
		}
		c, ok := b.conns[id]
		if !ok {
			// Disconnected between the membership snapshot and now.
			continue
		}
		select {
		case c.send <- frame:
		default:
			// Client's outgoing buffer is full — drop this frame for it.
			droppedFrames.Inc()
		}
	}
	broadcastsTotal.WithLabelValues(event).Inc()
}

func (b *Broadcaster) attach(c *client) {
	b.mu.Lock()
	b.conns[c.id] = c
	b.mu.Unlock()
}

func (b *Broadcaster) detach(connID string) {
	b.mu.Lock()
	if c, ok := b.conns[connID]; ok {
		delete(b.conns, connID)
		close(c.send)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, c := range b.conns {
		close(c.send)
		delete(b.conns, id)
	}
}
