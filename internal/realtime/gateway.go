package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/boardstream/boardstream/internal/identity"
)

// Gateway owns the WebSocket endpoint and the per-connection session
// lifecycle: handshake identity resolution, auto-join of the per-user room,
// dispatch of client events, and unconditional membership cleanup on
// disconnect.
//
// Joining a project or task room is not authorization-checked here. The
// gateway's job is delivery only; access control for the underlying data is
// enforced by the REST write/read path. A client that joins a room it has no
// business in sees broadcast payloads but cannot read or mutate anything
// through the API.
type Gateway struct {
	registry    *Registry
	broadcaster *Broadcaster
	identity    *identity.Resolver
	upgrader    websocket.Upgrader

	sendBuf int
	maxMsg  int64

	originMu  sync.RWMutex
	origins   map[string]struct{}
	originAny bool
}

// NewGateway wires the gateway to its registry, broadcaster, and identity
// resolver. sendBuf is the per-connection outgoing queue depth and maxMsg the
// inbound read limit in bytes. allowedOrigins is the initial handshake origin
// allow-list; empty means allow all. It can be swapped at runtime with
// SetAllowedOrigins.
func NewGateway(reg *Registry, b *Broadcaster, res *identity.Resolver, sendBuf int, maxMsg int64, allowedOrigins []string) *Gateway {
	g := &Gateway{
		registry:    reg,
		broadcaster: b,
		identity:    res,
		sendBuf:     sendBuf,
		maxMsg:      maxMsg,
	}
	g.SetAllowedOrigins(allowedOrigins)
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     g.checkOrigin,
	}
	return g
}

// SetAllowedOrigins replaces the handshake origin allow-list. An empty list
// allows all origins. Safe to call while connections are being accepted; the
// config watcher calls this on reload.
func (g *Gateway) SetAllowedOrigins(origins []string) {
	set := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		set[o] = struct{}{}
	}
	g.originMu.Lock()
	g.origins = set
	g.originAny = len(set) == 0
	g.originMu.Unlock()
}

func (g *Gateway) checkOrigin(r *http.Request) bool {
	g.originMu.RLock()
	defer g.originMu.RUnlock()
	if g.originAny {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients send no Origin header.
		return true
	}
	if _, ok := g.origins[origin]; ok {
		return true
	}
	// Also accept a bare-host entry matching the origin's host.
	if u, err := url.Parse(origin); err == nil {
		if _, ok := g.origins[u.Host]; ok {
			return true
		}
	}
	return false
}

// ServeHTTP upgrades the connection and serves the session until it closes.
// Identity is resolved exactly once, at handshake time: a missing, malformed,
// or expired token downgrades the connection to anonymous instead of
// rejecting it.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := g.identity.Resolve(r)

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		id:     uuid.NewString(),
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, g.sendBuf),
		gw:     g,
	}
	g.broadcaster.attach(c)
	connectedClients.Inc()

	// The per-user room is how targeted notifications reach this person no
	// matter which board they are looking at.
	if userID != "" {
		g.registry.Join(c.id, UserRoom(userID))
	}
	slog.Info("realtime: client connected", "conn", c.id, "user", userID)

	go c.writePump()
	c.readPump(g.maxMsg) // blocks until the connection closes

	g.registry.RemoveConnection(c.id)
	g.broadcaster.detach(c.id)
	connectedClients.Dec()
	slog.Info("realtime: client disconnected", "conn", c.id)
}

// Run blocks until ctx is cancelled, then closes every active connection.
func (g *Gateway) Run(ctx context.Context) {
	<-ctx.Done()
	g.broadcaster.closeAll()
}

// dispatch handles one client event. Unknown events and events with malformed
// or empty bodies are ignored.
func (g *Gateway) dispatch(c *client, env Envelope) {
	clientEvents.WithLabelValues(env.Event).Inc()

	switch env.Event {
	case EventProjectJoin:
		if id, ok := stringData(env.Data); ok {
			g.registry.Join(c.id, ProjectRoom(id))
		}
	case EventProjectLeave:
		if id, ok := stringData(env.Data); ok {
			g.registry.Leave(c.id, ProjectRoom(id))
		}
	case EventTaskJoin:
		if id, ok := stringData(env.Data); ok {
			g.registry.Join(c.id, TaskRoom(id))
		}
	case EventTaskLeave:
		if id, ok := stringData(env.Data); ok {
			g.registry.Leave(c.id, TaskRoom(id))
		}
	case EventCommentTyping, EventCommentStopTyping:
		// Ephemeral UI hint: rebroadcast verbatim to the task room, sender
		// excluded. No persistence, no acknowledgment.
		var p TypingPayload
		if err := json.Unmarshal(env.Data, &p); err != nil || p.TaskID == "" {
			return
		}
		g.broadcaster.BroadcastExcept(TaskRoom(p.TaskID), env.Event, p, c.id)
	default:
		slog.Debug("realtime: ignoring unknown client event", "conn", c.id, "event", env.Event)
	}
}

// stringData unmarshals a bare JSON string body, e.g. the project id carried
// by project:join.
func stringData(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}
