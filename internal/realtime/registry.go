package realtime

import "sync"

// Registry is the bidirectional membership index between live connections and
// rooms. It is the only shared mutable state in the realtime layer: the
// gateway mutates it on join/leave/disconnect and the broadcaster reads it to
// resolve a room to its current member set. All operations take the registry
// mutex so a broadcast never observes a half-updated membership set.
type Registry struct {
	mu     sync.RWMutex
	byRoom map[Room]map[string]struct{}
	byConn map[string]map[Room]struct{}
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byRoom: make(map[Room]map[string]struct{}),
		byConn: make(map[string]map[Room]struct{}),
	}
}

// Join adds connID to room. Joining a room the connection is already in is a
// no-op (set semantics).
func (reg *Registry) Join(connID string, room Room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	members, ok := reg.byRoom[room]
	if !ok {
		members = make(map[string]struct{})
		reg.byRoom[room] = members
		openRooms.Inc()
	}
	members[connID] = struct{}{}

	rooms, ok := reg.byConn[connID]
	if !ok {
		rooms = make(map[Room]struct{})
		reg.byConn[connID] = rooms
	}
	rooms[room] = struct{}{}
}

// Leave removes connID from room. Leaving a room the connection is not in is a
// no-op, not an error.
func (reg *Registry) Leave(connID string, room Room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.leaveLocked(connID, room)
}

func (reg *Registry) leaveLocked(connID string, room Room) {
	if members, ok := reg.byRoom[room]; ok {
		delete(members, connID)
		if len(members) == 0 {
			delete(reg.byRoom, room)
			openRooms.Dec()
		}
	}
	if rooms, ok := reg.byConn[connID]; ok {
		delete(rooms, room)
		if len(rooms) == 0 {
			delete(reg.byConn, connID)
		}
	}
}

// RemoveConnection purges connID from every room it belongs to. Called once on
// disconnect; safe to call for a connection that never joined anything.
func (reg *Registry) RemoveConnection(connID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for room := range reg.byConn[connID] {
		if members, ok := reg.byRoom[room]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(reg.byRoom, room)
				openRooms.Dec()
			}
		}
	}
	delete(reg.byConn, connID)
}

// MembersOf returns a snapshot of the connection ids currently in room. The
// returned slice is the caller's to keep; later membership changes do not
// affect it.
func (reg *Registry) MembersOf(room Room) []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	members := reg.byRoom[room]
	out := make([]string, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	return out
}

// RoomsOf returns a snapshot of the rooms connID is currently in.
func (reg *Registry) RoomsOf(connID string) []Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	rooms := reg.byConn[connID]
	out := make([]Room, 0, len(rooms))
	for r := range rooms {
		out = append(out, r)
	}
	return out
}

// RoomCount returns the number of rooms with at least one member.
func (reg *Registry) RoomCount() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.byRoom)
}
