// Package identity resolves a caller's user id from an HS256 access token.
//
// Resolve never fails: any verification problem — absent token, bad
// signature, expiry, foreign signing method — yields the anonymous identity
// ("") rather than an error. This fail-open behaviour is deliberate. The
// realtime gateway admits anonymous connections for room-scoped fan-out, and
// the REST layer makes its own accept/reject decision per operation. Do not
// harden this into a rejecting check.
//
// Tokens are read from, in order: the Authorization Bearer header, the
// "token" query parameter, and the configured cookie. The query-parameter
// path exists because browser WebSocket clients cannot set request headers.
package identity
