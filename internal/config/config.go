package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"ingenieras"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Data     Data
	Admin    Admin
	HTTP     HTTP
	Redis    Redis
	Postgres Postgres
	Archive  Archive
}

// Data locates the file-backed stores.
type Data struct {
	ChallengesFile string `env:"DATA_CHALLENGES_FILE" envDefault:"challenges.json"`
	ChallengesDir  string `env:"DATA_CHALLENGES_DIR" envDefault:"retos"`
	ReportsDir     string `env:"DATA_REPORTS_DIR" envDefault:"reportes"`
	StaticDir      string `env:"DATA_STATIC_DIR" envDefault:"static"`
	GalleryPrefix  string `env:"GALLERY_PREFIX" envDefault:"img"`
}

// Admin configures the shared admin secret and optional session tokens.
// GuardPublish puts POST /api/create_challenge behind the admin secret; false restores the open route.
type Admin struct {
	Password     string        `env:"ADMIN_PASSWORD" envDefault:"admin"`
	PasswordHash string        `env:"ADMIN_PASSWORD_HASH" envDefault:""`
	JWTSecret    string        `env:"ADMIN_JWT_SECRET" envDefault:""`
	SessionTTL   time.Duration `env:"ADMIN_SESSION_TTL" envDefault:"8h"`
	GuardPublish bool          `env:"ADMIN_GUARD_PUBLISH" envDefault:"true"`
}

// HTTP tunes request handling.
type HTTP struct {
	MaxBodyBytes   int64         `env:"MAX_BODY_BYTES" envDefault:"2097152"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
}

// Redis holds the optional Pub/Sub connection for the live report feed.
type Redis struct {
	Addr        string `env:"REDIS_ADDR" envDefault:""`
	DB          int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize    int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
	FeedChannel string `env:"FEED_CHANNEL" envDefault:"reports:new"`
}

// Enabled reports whether a Redis address was configured.
func (r Redis) Enabled() bool {
	return r.Addr != ""
}

// Postgres captures connection info for the optional submission archive.
type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:""`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER" envDefault:""`
	Password string `env:"PG_PASSWORD" envDefault:""`
	Database string `env:"PG_DATABASE" envDefault:""`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Enabled reports whether a Postgres host was configured.
func (p Postgres) Enabled() bool {
	return p.Host != ""
}

// DSN renders a libpq-style connection string.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Archive governs the Postgres mirror worker.
type Archive struct {
	Interval time.Duration `env:"ARCHIVE_INTERVAL" envDefault:"10m"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) validate() error {
	if c.Admin.Password == "" && c.Admin.PasswordHash == "" {
		return errors.New("config: ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}
	if c.Postgres.Enabled() && (c.Postgres.User == "" || c.Postgres.Database == "") {
		return errors.New("config: PG_USER and PG_DATABASE are required when PG_HOST is set")
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: MAX_BODY_BYTES must be positive, got %d", c.HTTP.MaxBodyBytes)
	}
	return nil
}
