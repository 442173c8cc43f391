// Package config loads the boardstream server configuration from the
// `server:` section of config.yaml.
//
// Config fields:
//   - HTTPPort                 — port for REST API, WebSocket gateway, and
//     /metrics (default 8080)
//   - Auth.SecretEnv           — environment variable holding the HS256
//     signing secret (default ACCESS_TOKEN_SECRET)
//   - Auth.CookieName          — cookie the handshake token may arrive in
//     (default accessToken)
//   - Realtime.AllowedOrigins  — handshake Origin allow-list; empty allows all
//   - Realtime.SendBuffer      — per-connection outgoing queue depth (default 32)
//   - Realtime.MaxMessageSize  — inbound read limit in bytes (default 4096)
//
// Load(path) applies defaults before unmarshalling, then validates.
// Watch(ctx, path, onChange) hot-reloads the file via fsnotify; the gateway's
// origin allow-list picks up changes without a restart.
package config
