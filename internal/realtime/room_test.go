package realtime_test

import (
	"testing"

	"github.com/boardstream/boardstream/internal/realtime"
)

func TestRoom_String(t *testing.T) {
	tests := []struct {
		room realtime.Room
		want string
	}{
		{realtime.UserRoom("u1"), "user:u1"},
		{realtime.ProjectRoom("p1"), "project:p1"},
		{realtime.TaskRoom("t1"), "task:t1"},
	}
	for _, tt := range tests {
		if got := tt.room.String(); got != tt.want {
			t.Errorf("String: got %q, want %q", got, tt.want)
		}
	}
}

func TestParseRoom_RoundTrip(t *testing.T) {
	for _, room := range []realtime.Room{
		realtime.UserRoom("abc"),
		realtime.ProjectRoom("p-42"),
		realtime.TaskRoom("t:with:colons"),
	} {
		got, ok := realtime.ParseRoom(room.String())
		if !ok {
			t.Fatalf("ParseRoom(%q): not ok", room.String())
		}
		if got != room {
			t.Errorf("ParseRoom(%q): got %+v, want %+v", room.String(), got, room)
		}
	}
}

func TestParseRoom_Invalid(t *testing.T) {
	for _, s := range []string{"", "user", "user:", "board:1", "nocolon"} {
		if _, ok := realtime.ParseRoom(s); ok {
			t.Errorf("ParseRoom(%q): expected not ok", s)
		}
	}
}
