package realtime

import "encoding/json"

// Client → server events consumed by the gateway.
const (
	EventProjectJoin       = "project:join"
	EventProjectLeave      = "project:leave"
	EventTaskJoin          = "task:join"
	EventTaskLeave         = "task:leave"
	EventCommentTyping     = "comment:typing"
	EventCommentStopTyping = "comment:stop_typing"
)

// Server → client events produced by the write path through the Broadcaster.
const (
	EventProjectCreated       = "project:created"
	EventProjectUpdated       = "project:updated"
	EventProjectDeleted       = "project:deleted"
	EventProjectMemberAdded   = "project:member_added"
	EventProjectMemberRemoved = "project:member_removed"
	EventTaskCreated          = "task:created"
	EventTaskUpdated          = "task:updated"
	EventTaskDeleted          = "task:deleted"
	EventTaskMoved            = "task:moved"
	EventCommentCreated       = "comment:created"
	EventCommentUpdated       = "comment:updated"
	EventCommentDeleted       = "comment:deleted"
	EventNotificationNew      = "notification:new"
)

// Envelope is the JSON frame exchanged in both directions: a named event plus
// an event-specific body.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// TypingPayload is the body of comment:typing and comment:stop_typing frames.
// Stop-typing frames carry only the task id.
type TypingPayload struct {
	TaskID   string `json:"taskId"`
	UserName string `json:"userName,omitempty"`
}
