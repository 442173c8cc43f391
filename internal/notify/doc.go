// Package notify builds and delivers per-user notifications for board
// activity: task assignment, project invites, and comment mentions. Each
// notification is persisted to the user's feed and broadcast as
// notification:new to the user's realtime room.
package notify
