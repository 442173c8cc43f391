package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors returned by store operations.
var (
	ErrNotFound = errors.New("store: not found")
	ErrConflict = errors.New("store: conflict")
)

// Store is a thread-safe in-memory document store for users, projects, tasks,
// comments, and notifications. There is no persistence across restarts; the
// realtime layer makes the same promise, so a restart simply means clients
// reconnect and re-fetch.
type Store struct {
	mu            sync.RWMutex
	users         map[string]User
	projects      map[string]Project
	tasks         map[string]Task
	comments      map[string]Comment
	notifications map[string]Notification

	now   func() time.Time // injectable for deterministic tests
	newID func() string
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:         make(map[string]User),
		projects:      make(map[string]Project),
		tasks:         make(map[string]Task),
		comments:      make(map[string]Comment),
		notifications: make(map[string]Notification),
		now:           time.Now,
		newID:         uuid.NewString,
	}
}

// --- users ------------------------------------------------------------------

// CreateUser registers a user profile. Email must be unique.
func (s *Store) CreateUser(name, email, avatar string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return User{}, ErrConflict
		}
	}
	u := User{
		ID:        s.newID(),
		Name:      name,
		Email:     email,
		Avatar:    avatar,
		CreatedAt: s.now(),
	}
	s.users[u.ID] = u
	return u, nil
}

// User returns the user with the given id.
func (s *Store) User(id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

// UserByEmail returns the user with the given email.
func (s *Store) UserByEmail(email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

// --- projects ---------------------------------------------------------------

// defaultColumns seeds a new board the way every fresh project starts.
func (s *Store) defaultColumns() []Column {
	return []Column{
		{ID: s.newID(), Title: "To Do", Order: 0, Color: "#94a3b8"},
		{ID: s.newID(), Title: "In Progress", Order: 1, Color: "#f59e0b"},
		{ID: s.newID(), Title: "In Review", Order: 2, Color: "#8b5cf6"},
		{ID: s.newID(), Title: "Done", Order: 3, Color: "#10b981"},
	}
}

// CreateProject creates a project owned by ownerID. The owner becomes an admin
// member and the four default columns are seeded.
func (s *Store) CreateProject(ownerID, title, description, color, icon string) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[ownerID]; !ok {
		return Project{}, ErrNotFound
	}
	now := s.now()
	p := Project{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		Members:     []Member{{UserID: ownerID, Role: RoleAdmin}},
		Columns:     s.defaultColumns(),
		Color:       color,
		Icon:        icon,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.projects[p.ID] = p
	return p.clone(), nil
}

// Project returns the project with the given id.
func (s *Store) Project(id string) (Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return p.clone(), nil
}

// ProjectsFor returns every project userID is a member of, most recently
// updated first.
func (s *Store) ProjectsFor(userID string) []Project {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Project, 0)
	for _, p := range s.projects {
		if p.HasMember(userID) {
			out = append(out, p.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}

// ProjectUpdate carries the mutable project fields; nil means leave unchanged.
type ProjectUpdate struct {
	Title       *string
	Description *string
	Color       *string
	Icon        *string
	Columns     *[]Column
}

// UpdateProject applies u to the project.
func (s *Store) UpdateProject(id string, u ProjectUpdate) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	if u.Title != nil {
		p.Title = *u.Title
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Color != nil {
		p.Color = *u.Color
	}
	if u.Icon != nil {
		p.Icon = *u.Icon
	}
	if u.Columns != nil {
		p.Columns = append([]Column(nil), (*u.Columns)...)
	}
	p.UpdatedAt = s.now()
	s.projects[id] = p
	return p.clone(), nil
}

// DeleteProject removes the project and cascades to its tasks and their
// comments.
func (s *Store) DeleteProject(id string) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	delete(s.projects, id)
	for tid, t := range s.tasks {
		if t.ProjectID == id {
			delete(s.tasks, tid)
		}
	}
	for cid, c := range s.comments {
		if c.ProjectID == id {
			delete(s.comments, cid)
		}
	}
	return p.clone(), nil
}

// AddMember adds userID to the project with the given role.
// Returns ErrConflict if already a member.
func (s *Store) AddMember(projectID, userID, role string) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return Project{}, ErrNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return Project{}, ErrNotFound
	}
	if p.HasMember(userID) {
		return Project{}, ErrConflict
	}
	if role == "" {
		role = RoleMember
	}
	p.Members = append(append([]Member(nil), p.Members...), Member{UserID: userID, Role: role})
	p.UpdatedAt = s.now()
	s.projects[projectID] = p
	return p.clone(), nil
}

// RemoveMember removes userID from the project. Removing a non-member is a
// no-op that still returns the project.
func (s *Store) RemoveMember(projectID, userID string) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return Project{}, ErrNotFound
	}
	members := make([]Member, 0, len(p.Members))
	for _, m := range p.Members {
		if m.UserID != userID {
			members = append(members, m)
		}
	}
	p.Members = members
	p.UpdatedAt = s.now()
	s.projects[projectID] = p
	return p.clone(), nil
}

// --- tasks ------------------------------------------------------------------

// TaskDraft is the input to CreateTask.
type TaskDraft struct {
	ProjectID   string
	ColumnID    string
	Title       string
	Description string
	CreatedBy   string
	Priority    string
	Assignees   []string
	Labels      []string
	DueDate     *time.Time
}

// CreateTask appends a task at the bottom of its column.
func (s *Store) CreateTask(d TaskDraft) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[d.ProjectID]; !ok {
		return Task{}, ErrNotFound
	}
	order := 0
	for _, t := range s.tasks {
		if t.ProjectID == d.ProjectID && t.ColumnID == d.ColumnID {
			order++
		}
	}
	if d.Priority == "" {
		d.Priority = PriorityMedium
	}
	now := s.now()
	t := Task{
		ID:          s.newID(),
		ProjectID:   d.ProjectID,
		ColumnID:    d.ColumnID,
		Title:       d.Title,
		Description: d.Description,
		Assignees:   append([]string(nil), d.Assignees...),
		CreatedBy:   d.CreatedBy,
		Priority:    d.Priority,
		DueDate:     d.DueDate,
		Labels:      append([]string(nil), d.Labels...),
		Order:       order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[t.ID] = t
	return t.clone(), nil
}

// Task returns the task with the given id.
func (s *Store) Task(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	return t.clone(), nil
}

// TasksFor returns the project's tasks ordered by board position.
func (s *Store) TasksFor(projectID string) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, 0)
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// TaskUpdate carries the mutable task fields; nil means leave unchanged.
type TaskUpdate struct {
	Title       *string
	Description *string
	ColumnID    *string
	Priority    *string
	Assignees   *[]string
	Labels      *[]string
	DueDate     *time.Time
	Order       *int
}

// UpdateTask applies u to the task.
func (s *Store) UpdateTask(id string, u TaskUpdate) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.ColumnID != nil {
		t.ColumnID = *u.ColumnID
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Assignees != nil {
		t.Assignees = append([]string(nil), (*u.Assignees)...)
	}
	if u.Labels != nil {
		t.Labels = append([]string(nil), (*u.Labels)...)
	}
	if u.DueDate != nil {
		d := *u.DueDate
		t.DueDate = &d
	}
	if u.Order != nil {
		t.Order = *u.Order
	}
	t.UpdatedAt = s.now()
	s.tasks[id] = t
	return t.clone(), nil
}

// MoveTask places the task in a column at the given position.
func (s *Store) MoveTask(id, columnID string, order int) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	t.ColumnID = columnID
	t.Order = order
	t.UpdatedAt = s.now()
	s.tasks[id] = t
	return t.clone(), nil
}

// DeleteTask removes the task and its comments.
func (s *Store) DeleteTask(id string) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	delete(s.tasks, id)
	for cid, c := range s.comments {
		if c.TaskID == id {
			delete(s.comments, cid)
		}
	}
	return t.clone(), nil
}

// --- comments ---------------------------------------------------------------

// CommentDraft is the input to CreateComment.
type CommentDraft struct {
	TaskID   string
	AuthorID string
	Content  string
	Mentions []string
}

// CreateComment adds a comment to a task; the project id is derived from the
// task.
func (s *Store) CreateComment(d CommentDraft) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[d.TaskID]
	if !ok {
		return Comment{}, ErrNotFound
	}
	c := Comment{
		ID:        s.newID(),
		TaskID:    d.TaskID,
		ProjectID: t.ProjectID,
		AuthorID:  d.AuthorID,
		Content:   d.Content,
		Mentions:  append([]string(nil), d.Mentions...),
		CreatedAt: s.now(),
	}
	s.comments[c.ID] = c
	return c.clone(), nil
}

// Comment returns the comment with the given id.
func (s *Store) Comment(id string) (Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return Comment{}, ErrNotFound
	}
	return c.clone(), nil
}

// CommentsFor returns the task's comments oldest first.
func (s *Store) CommentsFor(taskID string) []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Comment, 0)
	for _, c := range s.comments {
		if c.TaskID == taskID {
			out = append(out, c.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// UpdateComment replaces the comment's content and marks it edited.
func (s *Store) UpdateComment(id, content string) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return Comment{}, ErrNotFound
	}
	now := s.now()
	c.Content = content
	c.IsEdited = true
	c.EditedAt = &now
	s.comments[id] = c
	return c.clone(), nil
}

// DeleteComment removes the comment.
func (s *Store) DeleteComment(id string) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return Comment{}, ErrNotFound
	}
	delete(s.comments, id)
	return c.clone(), nil
}

// --- notifications ----------------------------------------------------------

// AddNotification appends an unread notification to userID's feed.
func (s *Store) AddNotification(userID, message, ntype, link string) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return Notification{}, ErrNotFound
	}
	n := Notification{
		ID:        s.newID(),
		UserID:    userID,
		Message:   message,
		Type:      ntype,
		Link:      link,
		CreatedAt: s.now(),
	}
	s.notifications[n.ID] = n
	return n, nil
}

// NotificationsFor returns userID's notifications, newest first.
func (s *Store) NotificationsFor(userID string) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// MarkNotificationRead marks one of userID's notifications as read.
func (s *Store) MarkNotificationRead(id, userID string) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return Notification{}, ErrNotFound
	}
	n.Read = true
	s.notifications[id] = n
	return n, nil
}

// MarkAllRead marks all of userID's notifications as read and returns how many
// changed.
func (s *Store) MarkAllRead(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := 0
	for id, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			s.notifications[id] = n
			changed++
		}
	}
	return changed
}

// Counts returns document totals for the health endpoint.
func (s *Store) Counts() (users, projects, tasks, comments int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.projects), len(s.tasks), len(s.comments)
}
