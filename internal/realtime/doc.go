// Package realtime implements the room-based fan-out layer for boardstream.
//
// A Registry tracks which connections are in which rooms (user:<id>,
// project:<id>, task:<id>). The Gateway serves the WebSocket endpoint,
// resolves the caller's identity once at handshake time, and maintains room
// membership for the connection's lifetime. The Broadcaster is the single
// entry point the REST write path uses to push mutation outcomes to everyone
// currently in the relevant room.
//
// Two boundaries are intentional and must not be "fixed":
//
//   - The handshake fails open. A missing, malformed, or expired token yields
//     an anonymous connection, never a rejected one. Reads through the fan-out
//     layer are unauthenticated by design; real authorization lives in the
//     REST path.
//   - Joining a room is not authorization-checked. Room membership is advisory
//     for delivery purposes only.
//
// There is no persistence, no replay, and no cross-process fan-out: a
// disconnected client misses events until it reconnects and re-fetches state
// through the REST API. Delivery is best-effort to currently-connected
// sockets, in broadcast order per room.
package realtime
