package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// ClientConfig holds the environment-provided settings of the session
// client (sessionctl and any embedding process).
type ClientConfig struct {
	// APIBaseURL is the identity service root. The default matches the
	// local development endpoint.
	APIBaseURL string `env:"API_BASE_URL, default=http://localhost:3000/api"`

	// CredentialFile overrides the session file location. Empty means the
	// per-user config directory default.
	CredentialFile string `env:"CREDENTIAL_FILE"`

	// CredentialRedisAddr switches credential storage from the local file to
	// Redis, for processes that share one session identity. Empty keeps the
	// file store.
	CredentialRedisAddr string `env:"CREDENTIAL_REDIS_ADDR"`
	CredentialRedisDB   int    `env:"CREDENTIAL_REDIS_DB, default=0"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=15s"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	Env         string        `env:"ENV,          default=development"`
}

// ServerConfig holds the identityd settings.
type ServerConfig struct {
	Port      string        `env:"PORT,       default=3000"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET, default=dev-secret"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	// URI empty selects the in-memory user repository (development default).
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=identity"`
}

type RedisConfig struct {
	// Addr empty disables the logout denylist.
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// LoadClient reads client configuration from environment variables.
func LoadClient() *ClientConfig {
	var cfg ClientConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load client configuration: %v", err))
	}
	return &cfg
}

// LoadServer reads identityd configuration from environment variables.
func LoadServer() *ServerConfig {
	var cfg ServerConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load server configuration: %v", err))
	}
	return &cfg
}
