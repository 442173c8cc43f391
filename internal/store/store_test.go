package store_test

import (
	"errors"
	"testing"

	"github.com/boardstream/boardstream/internal/store"
)

func newStoreWithUser(t *testing.T, name, email string) (*store.Store, store.User) {
	t.Helper()
	s := store.New()
	u, err := s.CreateUser(name, email, "")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return s, u
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s, _ := newStoreWithUser(t, "Ada", "ada@example.com")
	if _, err := s.CreateUser("Ada 2", "ada@example.com", ""); !errors.Is(err, store.ErrConflict) {
		t.Errorf("duplicate email: got %v, want ErrConflict", err)
	}
}

func TestCreateProject_SeedsOwnerAndColumns(t *testing.T) {
	s, owner := newStoreWithUser(t, "Ada", "ada@example.com")

	p, err := s.CreateProject(owner.ID, "Launch", "", "#6366f1", "rocket")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if !p.HasMember(owner.ID) {
		t.Error("owner is not a member")
	}
	if len(p.Members) != 1 || p.Members[0].Role != store.RoleAdmin {
		t.Errorf("members: got %+v, want single admin", p.Members)
	}
	if len(p.Columns) != 4 {
		t.Fatalf("columns: got %d, want 4", len(p.Columns))
	}
	if p.Columns[0].Title != "To Do" || p.Columns[3].Title != "Done" {
		t.Errorf("column titles: got %q ... %q", p.Columns[0].Title, p.Columns[3].Title)
	}
}

func TestCreateProject_UnknownOwner(t *testing.T) {
	s := store.New()
	if _, err := s.CreateProject("ghost", "X", "", "", ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown owner: got %v, want ErrNotFound", err)
	}
}

func TestAddMember_DuplicateIsConflict(t *testing.T) {
	s, owner := newStoreWithUser(t, "Ada", "ada@example.com")
	other, _ := s.CreateUser("Grace", "grace@example.com", "")
	p, _ := s.CreateProject(owner.ID, "Launch", "", "", "")

	if _, err := s.AddMember(p.ID, other.ID, ""); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if _, err := s.AddMember(p.ID, other.ID, ""); !errors.Is(err, store.ErrConflict) {
		t.Errorf("second AddMember: got %v, want ErrConflict", err)
	}
	if _, err := s.AddMember(p.ID, owner.ID, ""); !errors.Is(err, store.ErrConflict) {
		t.Errorf("adding owner again: got %v, want ErrConflict", err)
	}
}

func TestProjectsFor_MemberScoped(t *testing.T) {
	s, ada := newStoreWithUser(t, "Ada", "ada@example.com")
	grace, _ := s.CreateUser("Grace", "grace@example.com", "")

	mine, _ := s.CreateProject(ada.ID, "Mine", "", "", "")
	s.CreateProject(grace.ID, "Theirs", "", "", "")

	got := s.ProjectsFor(ada.ID)
	if len(got) != 1 || got[0].ID != mine.ID {
		t.Errorf("ProjectsFor: got %d projects", len(got))
	}
}

func TestCreateTask_OrderAppendsPerColumn(t *testing.T) {
	s, owner := newStoreWithUser(t, "Ada", "ada@example.com")
	p, _ := s.CreateProject(owner.ID, "Launch", "", "", "")
	col := p.Columns[0].ID

	t1, err := s.CreateTask(store.TaskDraft{ProjectID: p.ID, ColumnID: col, Title: "one", CreatedBy: owner.ID})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	t2, _ := s.CreateTask(store.TaskDraft{ProjectID: p.ID, ColumnID: col, Title: "two", CreatedBy: owner.ID})
	other, _ := s.CreateTask(store.TaskDraft{ProjectID: p.ID, ColumnID: p.Columns[1].ID, Title: "elsewhere", CreatedBy: owner.ID})

	if t1.Order != 0 || t2.Order != 1 {
		t.Errorf("orders: got %d, %d, want 0, 1", t1.Order, t2.Order)
	}
	if other.Order != 0 {
		t.Errorf("other column order: got %d, want 0", other.Order)
	}
	if t1.Priority != store.PriorityMedium {
		t.Errorf("default priority: got %q, want medium", t1.Priority)
	}
}

func TestMoveTask(t *testing.T) {
	s, owner := newStoreWithUser(t, "Ada", "ada@example.com")
	p, _ := s.CreateProject(owner.ID, "Launch", "", "", "")
	task, _ := s.CreateTask(store.TaskDraft{ProjectID: p.ID, ColumnID: p.Columns[0].ID, Title: "move me", CreatedBy: owner.ID})

	moved, err := s.MoveTask(task.ID, p.Columns[2].ID, 5)
	if err != nil {
		t.Fatalf("MoveTask: %v", err)
	}
	if moved.ColumnID != p.Columns[2].ID || moved.Order != 5 {
		t.Errorf("moved: column %q order %d", moved.ColumnID, moved.Order)
	}
}

func TestDeleteProject_Cascades(t *testing.T) {
	s, owner := newStoreWithUser(t, "Ada", "ada@example.com")
	p, _ := s.CreateProject(owner.ID, "Launch", "", "", "")
	task, _ := s.CreateTask(store.TaskDraft{ProjectID: p.ID, ColumnID: p.Columns[0].ID, Title: "t", CreatedBy: owner.ID})
	c, _ := s.CreateComment(store.CommentDraft{TaskID: task.ID, AuthorID: owner.ID, Content: "hi"})

	if _, err := s.DeleteProject(p.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, err := s.Task(task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("task survived project delete: %v", err)
	}
	if _, err := s.Comment(c.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("comment survived project delete: %v", err)
	}
}

func TestUpdateComment_MarksEdited(t *testing.T) {
	s, owner := newStoreWithUser(t, "Ada", "ada@example.com")
	p, _ := s.CreateProject(owner.ID, "Launch", "", "", "")
	task, _ := s.CreateTask(store.TaskDraft{ProjectID: p.ID, ColumnID: p.Columns[0].ID, Title: "t", CreatedBy: owner.ID})
	c, _ := s.CreateComment(store.CommentDraft{TaskID: task.ID, AuthorID: owner.ID, Content: "first"})

	if c.IsEdited {
		t.Error("new comment already marked edited")
	}
	edited, err := s.UpdateComment(c.ID, "second")
	if err != nil {
		t.Fatalf("UpdateComment: %v", err)
	}
	if !edited.IsEdited || edited.EditedAt == nil || edited.Content != "second" {
		t.Errorf("edited: %+v", edited)
	}
}

func TestNotifications_Feed(t *testing.T) {
	s, u := newStoreWithUser(t, "Ada", "ada@example.com")

	first, err := s.AddNotification(u.ID, "one", store.NotifTaskAssigned, "/projects/p1")
	if err != nil {
		t.Fatalf("AddNotification: %v", err)
	}
	s.AddNotification(u.ID, "two", store.NotifCommentAdded, "")

	feed := s.NotificationsFor(u.ID)
	if len(feed) != 2 {
		t.Fatalf("feed: got %d, want 2", len(feed))
	}

	if _, err := s.MarkNotificationRead(first.ID, "someone-else"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("foreign mark-read: got %v, want ErrNotFound", err)
	}
	n, err := s.MarkNotificationRead(first.ID, u.ID)
	if err != nil || !n.Read {
		t.Errorf("MarkNotificationRead: %v read=%v", err, n.Read)
	}
	if changed := s.MarkAllRead(u.ID); changed != 1 {
		t.Errorf("MarkAllRead: got %d, want 1", changed)
	}
}

func TestAddNotification_UnknownUser(t *testing.T) {
	s := store.New()
	if _, err := s.AddNotification("ghost", "m", store.NotifTaskAssigned, ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown user: got %v, want ErrNotFound", err)
	}
}
