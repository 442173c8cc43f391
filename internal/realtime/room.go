package realtime

import "strings"

// Kind identifies which entity a room is scoped to.
type Kind int

const (
	KindUser Kind = iota
	KindProject
	KindTask
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindProject:
		return "project"
	case KindTask:
		return "task"
	}
	return "unknown"
}

// Room is a named broadcast group. It has no existence of its own — a room is
// the set of connections currently joined to it, and it vanishes when that set
// empties. Rooms are kept as a tagged value internally; the flat "kind:id"
// string form only appears at the wire boundary.
type Room struct {
	Kind Kind
	ID   string
}

// UserRoom is the per-user room that targeted notifications are delivered to.
func UserRoom(userID string) Room { return Room{Kind: KindUser, ID: userID} }

// ProjectRoom scopes board-level activity: task create/update/move/delete and
// project membership changes.
func ProjectRoom(projectID string) Room { return Room{Kind: KindProject, ID: projectID} }

// TaskRoom scopes comment activity and typing indicators on one task.
func TaskRoom(taskID string) Room { return Room{Kind: KindTask, ID: taskID} }

// String renders the wire form, e.g. "project:42".
func (r Room) String() string { return r.Kind.String() + ":" + r.ID }

// ParseRoom parses the wire form back into a Room. The second return value is
// false for an unknown kind or a missing id.
func ParseRoom(s string) (Room, bool) {
	kind, id, ok := strings.Cut(s, ":")
	if !ok || id == "" {
		return Room{}, false
	}
	switch kind {
	case "user":
		return UserRoom(id), true
	case "project":
		return ProjectRoom(id), true
	case "task":
		return TaskRoom(id), true
	}
	return Room{}, false
}
