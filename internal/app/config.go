package app

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/processhub-backend/internal/data/db"
	"github.com/yungbote/processhub-backend/internal/observability"
	"github.com/yungbote/processhub-backend/internal/platform/envutil"
	"github.com/yungbote/processhub-backend/internal/platform/eventbus"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"github.com/yungbote/processhub-backend/internal/platform/objectstore"
)

const defaultMaxUploadBytes int64 = 32 << 20

type Config struct {
	Env            string   `yaml:"env"`
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	MetricsEnabled bool     `yaml:"metrics_enabled"`

	DB db.Config `yaml:"db"`

	SessionSecret     string `yaml:"session_secret"`
	SessionTTLSeconds int    `yaml:"session_ttl_seconds"`
	CookieSecure      bool   `yaml:"cookie_secure"`
	CookieDomain      string `yaml:"cookie_domain"`

	Redis eventbus.RedisConfig     `yaml:"redis"`
	Otel  observability.OtelConfig `yaml:"otel"`

	ShutdownTimeoutSeconds int `yaml:"shutdown_timeout_seconds"`

	Storage objectstore.Config `yaml:"-"`
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func (c Config) Address() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

func defaultConfig() Config {
	return Config{
		Env:                    "development",
		Port:                   "8080",
		MaxUploadBytes:         defaultMaxUploadBytes,
		MetricsEnabled:         true,
		DB:                     db.Config{Driver: db.DriverPostgres, Host: "localhost", Port: "5432", SSLMode: "disable"},
		SessionTTLSeconds:      int((24 * time.Hour) / time.Second),
		ShutdownTimeoutSeconds: 15,
		Otel:                   observability.OtelConfig{ServiceName: "processhub", SampleRatio: 1},
	}
}

// LoadConfig layers defaults, the optional YAML file named by CONFIG_FILE, and
// environment variables, in that order.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
		log.Info("Loaded config file", "path", path)
	}
	applyEnv(&cfg, log)

	storage, err := objectstore.ResolveConfigFromEnv()
	if err != nil {
		return Config{}, err
	}
	cfg.Storage = storage

	if cfg.SessionSecret == "" {
		secret, err := randomSecret()
		if err != nil {
			return Config{}, fmt.Errorf("generate session secret: %w", err)
		}
		cfg.SessionSecret = secret
		log.Warn("SESSION_SECRET not set; generated an ephemeral secret, sessions will not survive a restart")
	}
	if cfg.SessionTTLSeconds <= 0 {
		cfg.SessionTTLSeconds = defaultConfig().SessionTTLSeconds
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.ShutdownTimeoutSeconds <= 0 {
		cfg.ShutdownTimeoutSeconds = defaultConfig().ShutdownTimeoutSeconds
	}
	return cfg, nil
}

func loadConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, log *logger.Logger) {
	cfg.Env = envutil.String("APP_ENV", cfg.Env, log)
	cfg.Port = envutil.String("PORT", cfg.Port, log)
	cfg.AllowedOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.MaxUploadBytes = envutil.Int64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes, log)
	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled)

	cfg.DB.Driver = envutil.String("DB_DRIVER", cfg.DB.Driver, log)
	cfg.DB.Host = envutil.String("POSTGRES_HOST", cfg.DB.Host, log)
	cfg.DB.Port = envutil.String("POSTGRES_PORT", cfg.DB.Port, log)
	cfg.DB.User = envutil.String("POSTGRES_USER", cfg.DB.User, log)
	cfg.DB.Password = envutil.String("POSTGRES_PASSWORD", cfg.DB.Password, log)
	cfg.DB.Name = envutil.String("POSTGRES_NAME", cfg.DB.Name, log)
	cfg.DB.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.DB.SSLMode, log)
	cfg.DB.SQLitePath = envutil.String("SQLITE_PATH", cfg.DB.SQLitePath, log)

	cfg.SessionSecret = envutil.String("SESSION_SECRET", cfg.SessionSecret, log)
	cfg.SessionTTLSeconds = envutil.Int("SESSION_TTL_SECONDS", cfg.SessionTTLSeconds, log)
	cfg.CookieSecure = envutil.Bool("COOKIE_SECURE", cfg.CookieSecure)
	cfg.CookieDomain = envutil.String("COOKIE_DOMAIN", cfg.CookieDomain, log)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr, log)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password, log)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB, log)
	cfg.Redis.Channel = envutil.String("REDIS_CHANNEL", cfg.Redis.Channel, log)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName, log)
	cfg.Otel.Environment = envutil.String("OTEL_ENVIRONMENT", cfg.Otel.Environment, log)
	if cfg.Otel.Environment == "" {
		cfg.Otel.Environment = cfg.Env
	}
	cfg.Otel.Version = envutil.String("OTEL_SERVICE_VERSION", cfg.Otel.Version, log)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint, log)
	cfg.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.Otel.Headers, log)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", cfg.Otel.SampleRatio, log)

	cfg.ShutdownTimeoutSeconds = envutil.Int("SHUTDOWN_TIMEOUT_SECONDS", cfg.ShutdownTimeoutSeconds, log)
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
