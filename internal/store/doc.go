// Package store is the in-memory document store behind the boardstream REST
// API: users, projects (with members and columns), tasks, comments, and
// notifications.
//
// All reads return copies, so callers can hold results across later
// mutations. Deletes cascade the way the board expects: removing a project
// takes its tasks and comments with it, removing a task takes its comments.
//
// The store enforces referential existence (a task needs its project, a
// notification its user) but no authorization — ownership and membership
// checks are the API layer's job.
package store
