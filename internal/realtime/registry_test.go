package realtime_test

import (
	"slices"
	"testing"

	"github.com/boardstream/boardstream/internal/realtime"
)

func members(t *testing.T, reg *realtime.Registry, room realtime.Room) []string {
	t.Helper()
	out := reg.MembersOf(room)
	slices.Sort(out)
	return out
}

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	reg := realtime.NewRegistry()
	room := realtime.TaskRoom("t1")

	reg.Join("c1", room)
	reg.Join("c1", room)

	got := members(t, reg, room)
	if len(got) != 1 || got[0] != "c1" {
		t.Errorf("MembersOf: got %v, want [c1]", got)
	}
}

func TestRegistry_LeaveUnknownIsNoOp(t *testing.T) {
	reg := realtime.NewRegistry()

	// Leaving a room never joined must not panic or error.
	reg.Leave("c1", realtime.ProjectRoom("p1"))

	reg.Join("c1", realtime.ProjectRoom("p1"))
	reg.Leave("c1", realtime.ProjectRoom("p2"))

	got := members(t, reg, realtime.ProjectRoom("p1"))
	if len(got) != 1 {
		t.Errorf("membership disturbed by unrelated leave: %v", got)
	}
}

func TestRegistry_LeaveRemovesOnlyThatRoom(t *testing.T) {
	reg := realtime.NewRegistry()
	reg.Join("c1", realtime.ProjectRoom("p1"))
	reg.Join("c1", realtime.TaskRoom("t1"))

	reg.Leave("c1", realtime.ProjectRoom("p1"))

	if got := members(t, reg, realtime.ProjectRoom("p1")); len(got) != 0 {
		t.Errorf("project room: got %v, want empty", got)
	}
	if got := members(t, reg, realtime.TaskRoom("t1")); len(got) != 1 {
		t.Errorf("task room: got %v, want [c1]", got)
	}
}

func TestRegistry_RemoveConnectionPurgesAllRooms(t *testing.T) {
	reg := realtime.NewRegistry()
	reg.Join("c1", realtime.ProjectRoom("p1"))
	reg.Join("c1", realtime.TaskRoom("t1"))
	reg.Join("c2", realtime.ProjectRoom("p1"))

	reg.RemoveConnection("c1")

	if got := members(t, reg, realtime.ProjectRoom("p1")); !slices.Equal(got, []string{"c2"}) {
		t.Errorf("project room: got %v, want [c2]", got)
	}
	if got := members(t, reg, realtime.TaskRoom("t1")); len(got) != 0 {
		t.Errorf("task room: got %v, want empty", got)
	}
	if got := reg.RoomsOf("c1"); len(got) != 0 {
		t.Errorf("RoomsOf removed connection: got %v, want empty", got)
	}
}

func TestRegistry_RemoveConnectionNeverRegistered(t *testing.T) {
	reg := realtime.NewRegistry()
	reg.RemoveConnection("ghost") // must be safe
	if n := reg.RoomCount(); n != 0 {
		t.Errorf("RoomCount: got %d, want 0", n)
	}
}

func TestRegistry_RoomDisappearsWhenEmpty(t *testing.T) {
	reg := realtime.NewRegistry()
	reg.Join("c1", realtime.TaskRoom("t1"))
	if n := reg.RoomCount(); n != 1 {
		t.Fatalf("RoomCount after join: got %d, want 1", n)
	}
	reg.Leave("c1", realtime.TaskRoom("t1"))
	if n := reg.RoomCount(); n != 0 {
		t.Errorf("RoomCount after leave: got %d, want 0", n)
	}
}

func TestRegistry_MembersOfIsSnapshot(t *testing.T) {
	reg := realtime.NewRegistry()
	reg.Join("c1", realtime.TaskRoom("t1"))

	snap := reg.MembersOf(realtime.TaskRoom("t1"))
	reg.Join("c2", realtime.TaskRoom("t1"))

	if len(snap) != 1 {
		t.Errorf("snapshot mutated by later join: %v", snap)
	}
}
