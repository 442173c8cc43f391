// Package api implements the REST write/read path for boardstream:
// projects, tasks, comments, users, and notification feeds under /api/v1.
//
// This layer is where authorization lives. Every endpoint except user
// provisioning requires a valid access token, reads are scoped to project
// membership, and destructive operations check ownership. The realtime layer
// deliberately performs none of these checks — it only delivers what this
// layer broadcasts after a successful mutation.
package api
