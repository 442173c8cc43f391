package notify

import (
	"fmt"
	"log/slog"

	"github.com/boardstream/boardstream/internal/realtime"
	"github.com/boardstream/boardstream/internal/store"
)

// Engine turns write-path outcomes into per-user notifications: it persists
// the record in the store and pushes notification:new to the recipient's
// user room. The acting user never receives a notification about their own
// action. Delivery is best-effort; a recipient who is offline sees the
// notification on their next feed fetch.
type Engine struct {
	store       *store.Store
	broadcaster *realtime.Broadcaster
}

// New creates an Engine.
func New(st *store.Store, b *realtime.Broadcaster) *Engine {
	return &Engine{store: st, broadcaster: b}
}

// TaskAssigned notifies each assignee (except the actor) that they were put
// on a task.
func (e *Engine) TaskAssigned(actorID string, assigneeIDs []string, taskTitle, projectTitle, projectID string) {
	msg := fmt.Sprintf("You've been assigned to task %q in project %q", taskTitle, projectTitle)
	for _, id := range assigneeIDs {
		if id == actorID {
			continue
		}
		e.push(id, msg, store.NotifTaskAssigned, "/projects/"+projectID)
	}
}

// ProjectInvite notifies userID that they were invited to a project.
func (e *Engine) ProjectInvite(userID, projectTitle, projectID string) {
	msg := fmt.Sprintf("You've been invited to project %q", projectTitle)
	e.push(userID, msg, store.NotifProjectInvite, "/projects/"+projectID)
}

// CommentAdded notifies mentioned users and task assignees about a new
// comment. Mentioned users get the mention wording; assignees who were not
// mentioned get the comment wording. The actor is skipped in both groups.
func (e *Engine) CommentAdded(actorID, actorName string, mentionIDs, assigneeIDs []string, taskTitle, projectID string) {
	mentioned := make(map[string]struct{}, len(mentionIDs))
	for _, id := range mentionIDs {
		if id == actorID {
			continue
		}
		mentioned[id] = struct{}{}
		msg := fmt.Sprintf("%s mentioned you in a comment on %q", actorName, taskTitle)
		e.push(id, msg, store.NotifCommentAdded, "/projects/"+projectID)
	}
	for _, id := range assigneeIDs {
		if id == actorID {
			continue
		}
		if _, ok := mentioned[id]; ok {
			continue
		}
		msg := fmt.Sprintf("%s commented on task %q", actorName, taskTitle)
		e.push(id, msg, store.NotifCommentAdded, "/projects/"+projectID)
	}
}

func (e *Engine) push(userID, message, ntype, link string) {
	n, err := e.store.AddNotification(userID, message, ntype, link)
	if err != nil {
		// Recipient id points at no known user; nothing to deliver.
		slog.Debug("notify: skipping unknown recipient", "user", userID)
		return
	}
	e.broadcaster.Broadcast(realtime.UserRoom(userID), realtime.EventNotificationNew,
		map[string]any{"notification": n})
}
