package store

import "time"

// Member roles within a project.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
	RoleViewer = "viewer"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification types.
const (
	NotifTaskAssigned  = "task_assigned"
	NotifCommentAdded  = "comment_added"
	NotifProjectInvite = "project_invite"
	NotifTaskUpdated   = "task_updated"
)

// User is an account known to the board. Credentials and password hashing live
// in the external auth service; this store only carries profile data.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Member is one user's membership in a project.
type Member struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Column is one lane on a project board.
type Column struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Order int    `json:"order"`
	Color string `json:"color"`
}

// Project is a board with members and columns.
type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"ownerId"`
	Members     []Member  `json:"members"`
	Columns     []Column  `json:"columns"`
	Color       string    `json:"color,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasMember reports whether userID is a member of the project.
func (p Project) HasMember(userID string) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// Task is one card on a board.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	ColumnID    string     `json:"columnId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Assignees   []string   `json:"assignees"`
	CreatedBy   string     `json:"createdBy"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Labels      []string   `json:"labels,omitempty"`
	Order       int        `json:"order"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Comment is one comment on a task.
type Comment struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"taskId"`
	ProjectID string     `json:"projectId"`
	AuthorID  string     `json:"authorId"`
	Content   string     `json:"content"`
	Mentions  []string   `json:"mentions,omitempty"`
	IsEdited  bool       `json:"isEdited"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Notification is one item in a user's notification feed.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func (p Project) clone() Project {
	p.Members = append([]Member(nil), p.Members...)
	p.Columns = append([]Column(nil), p.Columns...)
	return p
}

func (t Task) clone() Task {
	t.Assignees = append([]string(nil), t.Assignees...)
	t.Labels = append([]string(nil), t.Labels...)
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

func (c Comment) clone() Comment {
	c.Mentions = append([]string(nil), c.Mentions...)
	if c.EditedAt != nil {
		e := *c.EditedAt
		c.EditedAt = &e
	}
	return c
}
