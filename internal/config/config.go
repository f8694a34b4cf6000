package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	TokenStrategyJWT    = "jwt"
	TokenStrategyPaseto = "paseto"

	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	Tasks     TasksConfig
}

type ServerConfig struct {
	Port            string        `env:"SERVER_PORT" env-default:"8080"`
	Env             string        `env:"APP_ENV" env-default:"dev"` // dev or prod
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"15s"`
	TrustedOrigins  []string      `env:"TRUSTED_ORIGINS" env-default:"http://localhost:3000" env-separator:","`
}

type DatabaseConfig struct {
	Driver         string `env:"DB_DRIVER" env-default:"postgres"`
	Host           string `env:"DB_HOST" env-default:"localhost"`
	Port           string `env:"DB_PORT" env-default:"5432"`
	User           string `env:"DB_USER" env-default:"postgres"`
	Password       string `env:"DB_PASSWORD" env-default:"postgres"`
	DBName         string `env:"DB_NAME" env-default:"taskmanager"`
	SSLMode        string `env:"DB_SSLMODE" env-default:"disable"`
	ChannelBinding string `env:"DB_CHANNEL_BINDING"` // "require" for Neon DB, empty for local
	Path           string `env:"DB_PATH" env-default:"./taskmanager.db"`
	AutoMigrate    bool   `env:"DB_AUTO_MIGRATE" env-default:"true"`
}

type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" env-default:"false"`
	Host     string `env:"REDIS_HOST" env-default:"localhost"`
	Port     string `env:"REDIS_PORT" env-default:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type RateLimitConfig struct {
	MaxRequests int           `env:"RATE_LIMIT_MAX" env-default:"10"`
	Window      time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"15m"`
}

type AuthConfig struct {
	TokenStrategy  string        `env:"AUTH_TOKEN_STRATEGY" env-default:"jwt"`
	JWTSecret      string        `env:"JWT_SECRET"`
	PasetoKey      string        `env:"PASETO_KEY"` // must be 32 bytes for v4.local
	TokenTTL       time.Duration `env:"TOKEN_TTL" env-default:"24h"`
	PasswordHasher string        `env:"PASSWORD_HASHER" env-default:"bcrypt"`
	BcryptRounds   int           `env:"BCRYPT_ROUNDS" env-default:"12"`
}

type TasksConfig struct {
	EnforceTransitions bool `env:"TASKS_ENFORCE_TRANSITIONS" env-default:"false"`
}

// Load reads configuration from a .env file (when present) and the environment.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks option values that cleanenv cannot express as types.
// An empty JWT secret is allowed here; login reports it instead.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	switch c.Auth.TokenStrategy {
	case TokenStrategyJWT:
	case TokenStrategyPaseto:
		if len(c.Auth.PasetoKey) != 32 {
			return fmt.Errorf("PASETO_KEY must be exactly 32 bytes, got %d", len(c.Auth.PasetoKey))
		}
	default:
		return fmt.Errorf("unsupported AUTH_TOKEN_STRATEGY %q", c.Auth.TokenStrategy)
	}

	switch c.Auth.PasswordHasher {
	case HasherBcrypt, HasherArgon2id:
	default:
		return fmt.Errorf("unsupported PASSWORD_HASHER %q", c.Auth.PasswordHasher)
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}

	return nil
}

func (c *DatabaseConfig) ConnectionString() string {
	if c.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_foreign_keys=1&_busy_timeout=5000", c.Path)
	}

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)

	// Add channel_binding if configured (required for Neon DB)
	if c.ChannelBinding != "" {
		connStr += fmt.Sprintf(" channel_binding=%s", c.ChannelBinding)
	}

	return connStr
}

// Address returns Redis connection address (host:port)
func (c *RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDevelopment returns true if the environment is set to dev
func (c *ServerConfig) IsDevelopment() bool {
	return c.Env == "dev"
}
