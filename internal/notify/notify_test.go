package notify_test

import (
	"strings"
	"testing"

	"github.com/boardstream/boardstream/internal/notify"
	"github.com/boardstream/boardstream/internal/realtime"
	"github.com/boardstream/boardstream/internal/store"
)

func newEngine(t *testing.T) (*notify.Engine, *store.Store) {
	t.Helper()
	st := store.New()
	reg := realtime.NewRegistry()
	return notify.New(st, realtime.NewBroadcaster(reg)), st
}

func TestTaskAssigned_SkipsActor(t *testing.T) {
	e, st := newEngine(t)
	actor, _ := st.CreateUser("Ada", "ada@example.com", "")
	other, _ := st.CreateUser("Grace", "grace@example.com", "")

	e.TaskAssigned(actor.ID, []string{actor.ID, other.ID}, "Ship it", "Launch", "p1")

	if got := st.NotificationsFor(actor.ID); len(got) != 0 {
		t.Errorf("actor notified about own action: %+v", got)
	}
	feed := st.NotificationsFor(other.ID)
	if len(feed) != 1 {
		t.Fatalf("assignee feed: got %d, want 1", len(feed))
	}
	n := feed[0]
	if n.Type != store.NotifTaskAssigned {
		t.Errorf("type: got %q", n.Type)
	}
	if !strings.Contains(n.Message, "Ship it") || !strings.Contains(n.Message, "Launch") {
		t.Errorf("message: got %q", n.Message)
	}
	if n.Link != "/projects/p1" {
		t.Errorf("link: got %q", n.Link)
	}
}

func TestProjectInvite(t *testing.T) {
	e, st := newEngine(t)
	u, _ := st.CreateUser("Grace", "grace@example.com", "")

	e.ProjectInvite(u.ID, "Launch", "p1")

	feed := st.NotificationsFor(u.ID)
	if len(feed) != 1 || feed[0].Type != store.NotifProjectInvite {
		t.Fatalf("feed: %+v", feed)
	}
}

func TestCommentAdded_MentionWinsOverAssignment(t *testing.T) {
	e, st := newEngine(t)
	actor, _ := st.CreateUser("Ada", "ada@example.com", "")
	both, _ := st.CreateUser("Grace", "grace@example.com", "")
	assigneeOnly, _ := st.CreateUser("Edsger", "edsger@example.com", "")

	// "both" is mentioned and assigned — must get exactly one notification,
	// with the mention wording.
	e.CommentAdded(actor.ID, actor.Name,
		[]string{both.ID},
		[]string{both.ID, assigneeOnly.ID, actor.ID},
		"Ship it", "p1")

	feed := st.NotificationsFor(both.ID)
	if len(feed) != 1 {
		t.Fatalf("mentioned feed: got %d, want 1", len(feed))
	}
	if !strings.Contains(feed[0].Message, "mentioned you") {
		t.Errorf("mention wording: got %q", feed[0].Message)
	}

	feed = st.NotificationsFor(assigneeOnly.ID)
	if len(feed) != 1 {
		t.Fatalf("assignee feed: got %d, want 1", len(feed))
	}
	if !strings.Contains(feed[0].Message, "commented on task") {
		t.Errorf("comment wording: got %q", feed[0].Message)
	}

	if got := st.NotificationsFor(actor.ID); len(got) != 0 {
		t.Errorf("actor notified: %+v", got)
	}
}

func TestPush_UnknownRecipientIgnored(t *testing.T) {
	e, st := newEngine(t)
	// No such user — must not panic, must not create anything.
	e.ProjectInvite("ghost", "Launch", "p1")
	if got := st.NotificationsFor("ghost"); len(got) != 0 {
		t.Errorf("ghost feed: %+v", got)
	}
}
