package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort       = 8080
	DefaultCookieName     = "accessToken"
	DefaultSecretEnv      = "ACCESS_TOKEN_SECRET"
	DefaultSendBuffer     = 32
	DefaultMaxMessageSize = 4096
)

// Config holds the configuration parsed from the `server:` section of
// config.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, WebSocket gateway, and /metrics
	// listen on (default 8080).
	HTTPPort int `yaml:"http_port"`

	// Auth configures handshake and REST token verification.
	Auth AuthConfig `yaml:"auth"`

	// Realtime tunes the WebSocket gateway.
	Realtime RealtimeConfig `yaml:"realtime"`
}

// AuthConfig controls access-token verification.
type AuthConfig struct {
	// SecretEnv is the name of the environment variable that holds the HS256
	// signing secret. The secret itself never appears in the file.
	SecretEnv string `yaml:"secret_env"`

	// CookieName is the cookie the handshake token may arrive in.
	// Defaults to "accessToken".
	CookieName string `yaml:"cookie_name"`
}

// Secret returns the signing secret resolved from the environment.
func (a AuthConfig) Secret() []byte {
	if a.SecretEnv == "" {
		return nil
	}
	if v := os.Getenv(a.SecretEnv); v != "" {
		return []byte(v)
	}
	return nil
}

// RealtimeConfig tunes the WebSocket gateway.
type RealtimeConfig struct {
	// AllowedOrigins is the handshake Origin allow-list. Empty allows all
	// origins. This list is hot-reloadable via Watch.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// SendBuffer is the per-connection outgoing queue depth (default 32).
	// A client that falls this far behind starts losing frames.
	SendBuffer int `yaml:"send_buffer"`

	// MaxMessageSize is the inbound read limit in bytes (default 4096).
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// Load reads and parses the config file at path. Missing fields are filled
// with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config populated entirely with default values, for running
// without a config file.
func Default() *Config {
	return defaults()
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			Auth: AuthConfig{
				SecretEnv:  DefaultSecretEnv,
				CookieName: DefaultCookieName,
			},
			Realtime: RealtimeConfig{
				SendBuffer:     DefaultSendBuffer,
				MaxMessageSize: DefaultMaxMessageSize,
			},
		},
	}
}

func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.Realtime.SendBuffer <= 0 {
		return fmt.Errorf("server.realtime.send_buffer must be positive")
	}
	if cfg.Server.Realtime.MaxMessageSize <= 0 {
		return fmt.Errorf("server.realtime.max_message_size must be positive")
	}
	return nil
}
