package api

import (
	"time"

	"github.com/boardstream/boardstream/internal/store"
)

// createUserRequest is the body of POST /api/v1/users. This is the
// provisioning hook for the external auth service; no credentials pass
// through here.
type createUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// createProjectRequest is the body of POST /api/v1/projects.
type createProjectRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// updateProjectRequest is the body of PUT /api/v1/projects/{id}.
// Absent fields are left unchanged.
type updateProjectRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Color       *string         `json:"color"`
	Icon        *string         `json:"icon"`
	Columns     *[]store.Column `json:"columns"`
}

// inviteMemberRequest is the body of POST /api/v1/projects/{id}/members.
type inviteMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// createTaskRequest is the body of POST /api/v1/projects/{id}/tasks.
type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ColumnID    string     `json:"columnId"`
	Priority    string     `json:"priority"`
	Assignees   []string   `json:"assignees"`
	Labels      []string   `json:"labels"`
	DueDate     *time.Time `json:"dueDate"`
}

// updateTaskRequest is the body of PUT /api/v1/tasks/{id}.
// Absent fields are left unchanged.
type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	ColumnID    *string    `json:"columnId"`
	Priority    *string    `json:"priority"`
	Assignees   *[]string  `json:"assignees"`
	Labels      *[]string  `json:"labels"`
	DueDate     *time.Time `json:"dueDate"`
	Order       *int       `json:"order"`
}

// moveTaskRequest is the body of POST /api/v1/tasks/{id}/move.
type moveTaskRequest struct {
	ColumnID string `json:"columnId"`
	Order    int    `json:"order"`
}

// createCommentRequest is the body of POST /api/v1/tasks/{id}/comments.
type createCommentRequest struct {
	Content  string   `json:"content"`
	Mentions []string `json:"mentions"`
}

// updateCommentRequest is the body of PUT /api/v1/comments/{id}.
type updateCommentRequest struct {
	Content string `json:"content"`
}

// healthResponse is the payload for GET /api/v1/health.
type healthResponse struct {
	Connections int `json:"connections"`
	Rooms       int `json:"rooms"`
	Users       int `json:"users"`
	Projects    int `json:"projects"`
	Tasks       int `json:"tasks"`
	Comments    int `json:"comments"`
}
