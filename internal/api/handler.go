package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/boardstream/boardstream/internal/identity"
	"github.com/boardstream/boardstream/internal/notify"
	"github.com/boardstream/boardstream/internal/realtime"
	"github.com/boardstream/boardstream/internal/store"
)

// Handler is the HTTP handler for all /api/v1/* endpoints. It is the write
// path that feeds the realtime layer: every successful mutation broadcasts
// the corresponding event to the room computed from the mutation's subject.
type Handler struct {
	store       *store.Store
	broadcaster *realtime.Broadcaster
	notify      *notify.Engine
	identity    *identity.Resolver
	registry    *realtime.Registry
	mux         *http.ServeMux
}

// New creates a Handler and registers all routes.
func New(st *store.Store, b *realtime.Broadcaster, n *notify.Engine, res *identity.Resolver, reg *realtime.Registry) http.Handler {
	h := &Handler{store: st, broadcaster: b, notify: n, identity: res, registry: reg, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /api/v1/health", h.health)

	h.mux.HandleFunc("POST /api/v1/users", h.createUser)
	h.mux.HandleFunc("GET /api/v1/users/{id}", h.getUser)

	h.mux.HandleFunc("GET /api/v1/projects", h.listProjects)
	h.mux.HandleFunc("POST /api/v1/projects", h.createProject)
	h.mux.HandleFunc("GET /api/v1/projects/{id}", h.getProject)
	h.mux.HandleFunc("PUT /api/v1/projects/{id}", h.updateProject)
	h.mux.HandleFunc("DELETE /api/v1/projects/{id}", h.deleteProject)
	h.mux.HandleFunc("POST /api/v1/projects/{id}/members", h.inviteMember)
	h.mux.HandleFunc("DELETE /api/v1/projects/{id}/members/{userId}", h.removeMember)

	h.mux.HandleFunc("GET /api/v1/projects/{id}/tasks", h.listTasks)
	h.mux.HandleFunc("POST /api/v1/projects/{id}/tasks", h.createTask)
	h.mux.HandleFunc("GET /api/v1/tasks/{id}", h.getTask)
	h.mux.HandleFunc("PUT /api/v1/tasks/{id}", h.updateTask)
	h.mux.HandleFunc("DELETE /api/v1/tasks/{id}", h.deleteTask)
	h.mux.HandleFunc("POST /api/v1/tasks/{id}/move", h.moveTask)

	h.mux.HandleFunc("GET /api/v1/tasks/{id}/comments", h.listComments)
	h.mux.HandleFunc("POST /api/v1/tasks/{id}/comments", h.createComment)
	h.mux.HandleFunc("PUT /api/v1/comments/{id}", h.updateComment)
	h.mux.HandleFunc("DELETE /api/v1/comments/{id}", h.deleteComment)

	h.mux.HandleFunc("GET /api/v1/notifications", h.listNotifications)
	h.mux.HandleFunc("POST /api/v1/notifications/read-all", h.markAllRead)
	h.mux.HandleFunc("POST /api/v1/notifications/{id}/read", h.markRead)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// caller resolves and loads the authenticated user. Unlike the realtime
// handshake, the REST path is strict: no valid token, no write.
func (h *Handler) caller(r *http.Request) (store.User, bool) {
	uid := h.identity.Resolve(r)
	if uid == "" {
		return store.User{}, false
	}
	u, err := h.store.User(uid)
	if err != nil {
		return store.User{}, false
	}
	return u, true
}

// --- health -----------------------------------------------------------------

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	users, projects, tasks, comments := h.store.Counts()
	jsonResp(w, http.StatusOK, healthResponse{
		Connections: h.broadcaster.ConnCount(),
		Rooms:       h.registry.RoomCount(),
		Users:       users,
		Projects:    projects,
		Tasks:       tasks,
		Comments:    comments,
	})
}

// --- users ------------------------------------------------------------------

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Email == "" {
		jsonErr(w, http.StatusBadRequest, "name and email required")
		return
	}
	u, err := h.store.CreateUser(req.Name, req.Email, req.Avatar)
	if errors.Is(err, store.ErrConflict) {
		jsonErr(w, http.StatusConflict, "email already registered")
		return
	}
	jsonResp(w, http.StatusCreated, map[string]any{"user": u})
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.caller(r); !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	u, err := h.store.User(r.PathValue("id"))
	if err != nil {
		jsonErr(w, http.StatusNotFound, "user not found")
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{"user": u})
}

// --- projects ---------------------------------------------------------------

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{"projects": h.store.ProjectsFor(u.ID)})
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	p, err := h.store.Project(r.PathValue("id"))
	if err != nil || !p.HasMember(u.ID) {
		jsonErr(w, http.StatusNotFound, "project not found")
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{"project": p})
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" {
		jsonErr(w, http.StatusBadRequest, "title required")
		return
	}
	p, err := h.store.CreateProject(u.ID, req.Title, req.Description, req.Color, req.Icon)
	if err != nil {
		jsonErr(w, http.StatusInternalServerError, "create project failed")
		return
	}

	// Every connected dashboard hears about a new project; its room does not
	// exist yet.
	h.broadcaster.BroadcastAll(realtime.EventProjectCreated, map[string]any{"project": p})
	jsonResp(w, http.StatusCreated, map[string]any{"project": p})
}

func (h *Handler) updateProject(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	p, err := h.store.Project(r.PathValue("id"))
	if err != nil || p.OwnerID != u.ID {
		jsonErr(w, http.StatusNotFound, "project not found or no permission")
		return
	}
	var req updateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	p, err = h.store.UpdateProject(p.ID, store.ProjectUpdate{
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		Columns:     req.Columns,
	})
	if err != nil {
		jsonErr(w, http.StatusNotFound, "project not found")
		return
	}

	h.broadcaster.Broadcast(realtime.ProjectRoom(p.ID), realtime.EventProjectUpdated, map[string]any{"project": p})
	jsonResp(w, http.StatusOK, map[string]any{"project": p})
}

func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	p, err := h.store.Project(r.PathValue("id"))
	if err != nil || p.OwnerID != u.ID {
		jsonErr(w, http.StatusNotFound, "project not found or no permission")
		return
	}
	if _, err := h.store.DeleteProject(p.ID); err != nil {
		jsonErr(w, http.StatusNotFound, "project not found")
		return
	}

	h.broadcaster.Broadcast(realtime.ProjectRoom(p.ID), realtime.EventProjectDeleted, map[string]any{"projectId": p.ID})
	jsonResp(w, http.StatusOK, map[string]any{"message": "project deleted"})
}

func (h *Handler) inviteMember(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	p, err := h.store.Project(r.PathValue("id"))
	if err != nil || p.OwnerID != u.ID {
		jsonErr(w, http.StatusNotFound, "project not found or no permission")
		return
	}
	var req inviteMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		jsonErr(w, http.StatusBadRequest, "email required")
		return
	}
	invitee, err := h.store.UserByEmail(req.Email)
	if err != nil {
		jsonErr(w, http.StatusNotFound, "user not found")
		return
	}
	p, err = h.store.AddMember(p.ID, invitee.ID, req.Role)
	if errors.Is(err, store.ErrConflict) {
		jsonErr(w, http.StatusConflict, "user already a member")
		return
	}
	if err != nil {
		jsonErr(w, http.StatusNotFound, "project not found")
		return
	}

	h.notify.ProjectInvite(invitee.ID, p.Title, p.ID)
	h.broadcaster.Broadcast(realtime.ProjectRoom(p.ID), realtime.EventProjectMemberAdded, map[string]any{"project": p})
	jsonResp(w, http.StatusOK, map[string]any{"project": p})
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	p, err := h.store.Project(r.PathValue("id"))
	if err != nil || p.OwnerID != u.ID {
		jsonErr(w, http.StatusNotFound, "project not found or no permission")
		return
	}
	userID := r.PathValue("userId")
	if userID == p.OwnerID {
		jsonErr(w, http.StatusBadRequest, "cannot remove owner")
		return
	}
	p, err = h.store.RemoveMember(p.ID, userID)
	if err != nil {
		jsonErr(w, http.StatusNotFound, "project not found")
		return
	}

	h.broadcaster.Broadcast(realtime.ProjectRoom(p.ID), realtime.EventProjectMemberRemoved,
		map[string]any{"project": p, "removedUserId": userID})
	jsonResp(w, http.StatusOK, map[string]any{"project": p})
}

// --- tasks ------------------------------------------------------------------

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	p, err := h.store.Project(r.PathValue("id"))
	if err != nil || !p.HasMember(u.ID) {
		jsonErr(w, http.StatusForbidden, "access denied")
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{"tasks": h.store.TasksFor(p.ID)})
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	p, err := h.store.Project(r.PathValue("id"))
	if err != nil || !p.HasMember(u.ID) {
		jsonErr(w, http.StatusForbidden, "access denied")
		return
	}
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Title == "" || req.ColumnID == "" {
		jsonErr(w, http.StatusBadRequest, "title and columnId required")
		return
	}
	t, err := h.store.CreateTask(store.TaskDraft{
		ProjectID:   p.ID,
		ColumnID:    req.ColumnID,
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   u.ID,
		Priority:    req.Priority,
		Assignees:   req.Assignees,
		Labels:      req.Labels,
		DueDate:     req.DueDate,
	})
	if err != nil {
		jsonErr(w, http.StatusNotFound, "project not found")
		return
	}

	h.notify.TaskAssigned(u.ID, t.Assignees, t.Title, p.Title, p.ID)
	h.broadcaster.Broadcast(realtime.ProjectRoom(p.ID), realtime.EventTaskCreated, map[string]any{"task": t})
	jsonResp(w, http.StatusCreated, map[string]any{"task": t})
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	t, err := h.store.Task(r.PathValue("id"))
	if err != nil {
		jsonErr(w, http.StatusNotFound, "task not found")
		return
	}
	p, err := h.store.Project(t.ProjectID)
	if err != nil || !p.HasMember(u.ID) {
		jsonErr(w, http.StatusForbidden, "access denied")
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{"task": t})
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	t, err := h.store.Task(r.PathValue("id"))
	if err != nil {
		jsonErr(w, http.StatusNotFound, "task not found")
		return
	}
	p, err := h.store.Project(t.ProjectID)
	if err != nil || !p.HasMember(u.ID) {
		jsonErr(w, http.StatusForbidden, "access denied")
		return
	}
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonErr(w, http.StatusBadRequest, "invalid body")
		return
	}
	prevAssignees := make(map[string]struct{}, len(t.Assignees))
	for _, id := range t.Assignees {
		prevAssignees[id] = struct{}{}
	}
	t, err = h.store.UpdateTask(t.ID, store.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		ColumnID:    req.ColumnID,
		Priority:    req.Priority,
		Assignees:   req.Assignees,
		Labels:      req.Labels,
		DueDate:     req.DueDate,
		Order:       req.Order,
	})
	if err != nil {
		jsonErr(w, http.StatusNotFound, "task not found")
		return
	}

	if req.Assignees != nil {
		var added []string
		for _, id := range t.Assignees {
			if _, ok := prevAssignees[id]; !ok {
				added = append(added, id)
			}
		}
		h.notify.TaskAssigned(u.ID, added, t.Title, p.Title, p.ID)
	}
	h.broadcaster.Broadcast(realtime.ProjectRoom(p.ID), realtime.EventTaskUpdated, map[string]any{"task": t})
	jsonResp(w, http.StatusOK, map[string]any{"task": t})
}

func (h *Handler) moveTask(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	t, err := h.store.Task(r.PathValue("id"))
	if err != nil {
		jsonErr(w, http.StatusNotFound, "task not found")
		return
	}
	p, err := h.store.Project(t.ProjectID)
	if err != nil || !p.HasMember(u.ID) {
		jsonErr(w, http.StatusForbidden, "access denied")
		return
	}
	var req moveTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ColumnID == "" {
		jsonErr(w, http.StatusBadRequest, "columnId required")
		return
	}
	t, err = h.store.MoveTask(t.ID, req.ColumnID, req.Order)
	if err != nil {
		jsonErr(w, http.StatusNotFound, "task not found")
		return
	}

	h.broadcaster.Broadcast(realtime.ProjectRoom(p.ID), realtime.EventTaskMoved, map[string]any{
		"taskId":    t.ID,
		"columnId":  t.ColumnID,
		"order":     t.Order,
		"projectId": p.ID,
	})
	jsonResp(w, http.StatusOK, map[string]any{"task": t})
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	t, err := h.store.Task(r.PathValue("id"))
	if err != nil {
		jsonErr(w, http.StatusNotFound, "task not found")
		return
	}
	p, err := h.store.Project(t.ProjectID)
	if err != nil {
		jsonErr(w, http.StatusNotFound, "project not found")
		return
	}
	// Only the project owner or the task's creator may delete.
	if p.OwnerID != u.ID && t.CreatedBy != u.ID {
		jsonErr(w, http.StatusForbidden, "access denied")
		return
	}
	if _, err := h.store.DeleteTask(t.ID); err != nil {
		jsonErr(w, http.StatusNotFound, "task not found")
		return
	}

	h.broadcaster.Broadcast(realtime.ProjectRoom(p.ID), realtime.EventTaskDeleted, map[string]any{"taskId": t.ID})
	jsonResp(w, http.StatusOK, map[string]any{"message": "task deleted"})
}

// --- comments ---------------------------------------------------------------

func (h *Handler) listComments(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	t, err := h.store.Task(r.PathValue("id"))
	if err != nil {
		jsonErr(w, http.StatusNotFound, "task not found")
		return
	}
	p, err := h.store.Project(t.ProjectID)
	if err != nil || !p.HasMember(u.ID) {
		jsonErr(w, http.StatusForbidden, "access denied")
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{"comments": h.store.CommentsFor(t.ID)})
}

func (h *Handler) createComment(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	t, err := h.store.Task(r.PathValue("id"))
	if err != nil {
		jsonErr(w, http.StatusNotFound, "task not found")
		return
	}
	p, err := h.store.Project(t.ProjectID)
	if err != nil || !p.HasMember(u.ID) {
		jsonErr(w, http.StatusForbidden, "access denied")
		return
	}
	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		jsonErr(w, http.StatusBadRequest, "content required")
		return
	}
	c, err := h.store.CreateComment(store.CommentDraft{
		TaskID:   t.ID,
		AuthorID: u.ID,
		Content:  req.Content,
		Mentions: req.Mentions,
	})
	if err != nil {
		jsonErr(w, http.StatusNotFound, "task not found")
		return
	}

	h.notify.CommentAdded(u.ID, u.Name, c.Mentions, t.Assignees, t.Title, p.ID)
	h.broadcaster.Broadcast(realtime.TaskRoom(t.ID), realtime.EventCommentCreated, map[string]any{"comment": c})
	jsonResp(w, http.StatusCreated, map[string]any{"comment": c})
}

func (h *Handler) updateComment(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	c, err := h.store.Comment(r.PathValue("id"))
	if err != nil || c.AuthorID != u.ID {
		jsonErr(w, http.StatusNotFound, "comment not found or no permission")
		return
	}
	var req updateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		jsonErr(w, http.StatusBadRequest, "content required")
		return
	}
	c, err = h.store.UpdateComment(c.ID, req.Content)
	if err != nil {
		jsonErr(w, http.StatusNotFound, "comment not found")
		return
	}

	h.broadcaster.Broadcast(realtime.TaskRoom(c.TaskID), realtime.EventCommentUpdated, map[string]any{"comment": c})
	jsonResp(w, http.StatusOK, map[string]any{"comment": c})
}

func (h *Handler) deleteComment(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	c, err := h.store.Comment(r.PathValue("id"))
	if err != nil || c.AuthorID != u.ID {
		jsonErr(w, http.StatusNotFound, "comment not found or no permission")
		return
	}
	if _, err := h.store.DeleteComment(c.ID); err != nil {
		jsonErr(w, http.StatusNotFound, "comment not found")
		return
	}

	h.broadcaster.Broadcast(realtime.TaskRoom(c.TaskID), realtime.EventCommentDeleted, map[string]any{"commentId": c.ID})
	jsonResp(w, http.StatusOK, map[string]any{"message": "comment deleted"})
}

// --- notifications ----------------------------------------------------------

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{"notifications": h.store.NotificationsFor(u.ID)})
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	n, err := h.store.MarkNotificationRead(r.PathValue("id"), u.ID)
	if err != nil {
		jsonErr(w, http.StatusNotFound, "notification not found")
		return
	}
	jsonResp(w, http.StatusOK, map[string]any{"notification": n})
}

func (h *Handler) markAllRead(w http.ResponseWriter, r *http.Request) {
	u, ok := h.caller(r)
	if !ok {
		jsonErr(w, http.StatusUnauthorized, "authentication required")
		return
	}
	changed := h.store.MarkAllRead(u.ID)
	jsonResp(w, http.StatusOK, map[string]any{"updated": changed})
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, map[string]string{"message": msg})
}
