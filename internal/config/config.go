package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Env           string        `envconfig:"APP_ENV" default:"development"`
	Port          int           `envconfig:"PORT" default:"9091"`
	PublicBaseURL string        `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:9091"`
	RemoteTimeout time.Duration `envconfig:"REMOTE_TIMEOUT" default:"10s"`

	Log      LogConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Firebase FirebaseConfig
	Storage  StorageConfig
	Upload   UploadConfig
	Geocoder GeocoderConfig
	Sweep    SweepConfig
}

// logging configuration
type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
	Path  string `envconfig:"LOG_PATH"`
}

// database configuration; URL wins over the individual fields
type PostgresConfig struct {
	URL      string `envconfig:"DATABASE_URL"`
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     string `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"postgres"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	DB       string `envconfig:"POSTGRES_DB" default:"traveljournal"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"POSTGRES_MIN_CONNS" default:"5"`
}

// DSN returns the connection string for pgxpool.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.DB, p.SSLMode)
}

type RedisConfig struct {
	Host     string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port     string        `envconfig:"REDIS_PORT" default:"6379"`
	Password string        `envconfig:"REDIS_PASSWORD"`
	DB       int           `envconfig:"REDIS_DB" default:"0"`
	EntryTTL time.Duration `envconfig:"REDIS_ENTRY_TTL" default:"24h"`
	// SessionTTL bounds how long a verified ID token is trusted without
	// asking Firebase again.
	SessionTTL time.Duration `envconfig:"REDIS_SESSION_TTL" default:"10m"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type FirebaseConfig struct {
	ProjectID          string `envconfig:"FIREBASE_PROJECT_ID"`
	ServiceAccountPath string `envconfig:"FIREBASE_SERVICE_ACCOUNT_PATH"`
	StorageBucket      string `envconfig:"FIREBASE_STORAGE_BUCKET"`
	// WebAPIKey and AuthDomain are handed to the browser sign-in widget.
	WebAPIKey  string `envconfig:"FIREBASE_WEB_API_KEY"`
	AuthDomain string `envconfig:"FIREBASE_AUTH_DOMAIN"`
	// SessionTTL is the lifetime of the session cookie minted at sign-in.
	// Firebase accepts 5m to 14 days.
	SessionTTL time.Duration `envconfig:"SESSION_COOKIE_TTL" default:"336h"`
	// StoragePublicRead uploads objects with the publicRead ACL. Buckets with
	// uniform bucket-level access reject object ACLs; set it to false there
	// and grant allUsers roles/storage.objectViewer on the bucket instead.
	StoragePublicRead bool `envconfig:"FIREBASE_STORAGE_PUBLIC_READ" default:"true"`
}

// object storage configuration
type StorageConfig struct {
	Driver    string `envconfig:"STORAGE_DRIVER" default:"local"`
	Bucket    string `envconfig:"STORAGE_BUCKET" default:"journal-images"`
	PublicURL string `envconfig:"STORAGE_PUBLIC_URL"`
	LocalDir  string `envconfig:"LOCAL_STORAGE_DIR" default:"./internal/images"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
}

type UploadConfig struct {
	Concurrency int           `envconfig:"UPLOAD_CONCURRENCY" default:"1"`
	MaxFiles    int           `envconfig:"UPLOAD_MAX_FILES" default:"20"`
	MaxBytes    int64         `envconfig:"UPLOAD_MAX_BYTES" default:"15728640"` // 15 MiB
	Timeout     time.Duration `envconfig:"UPLOAD_TIMEOUT" default:"60s"`
}

// geocoding configuration
type GeocoderConfig struct {
	Endpoint  string        `envconfig:"GEOCODER_ENDPOINT" default:"https://nominatim.openstreetmap.org/search"`
	UserAgent string        `envconfig:"GEOCODER_USER_AGENT" default:"TravelJournal/1.0 (support@traveljournal.com)"`
	Timeout   time.Duration `envconfig:"GEOCODER_TIMEOUT" default:"5s"`
	RPS       float64       `envconfig:"GEOCODER_RPS" default:"1"`
	CacheTTL  time.Duration `envconfig:"GEOCODER_CACHE_TTL" default:"10m"`
}

// orphaned upload sweeping
type SweepConfig struct {
	Enabled  bool          `envconfig:"SWEEP_ENABLED" default:"true"`
	Schedule string        `envconfig:"SWEEP_SCHEDULE" default:"@daily"`
	Grace    time.Duration `envconfig:"SWEEP_GRACE" default:"24h"`
}

// Load reads .env (when present) and then the environment.
func Load() (*Config, error) {
	// A missing .env file is fine; system environment variables are used instead.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	if c.RemoteTimeout <= 0 {
		return fmt.Errorf("REMOTE_TIMEOUT must be positive")
	}
	if c.Firebase.SessionTTL < 5*time.Minute || c.Firebase.SessionTTL > 14*24*time.Hour {
		return fmt.Errorf("SESSION_COOKIE_TTL must be between 5m and 336h")
	}

	switch c.Storage.Driver {
	case "local":
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("LOCAL_STORAGE_DIR is required for the local storage driver")
		}
	case "s3":
		if c.Storage.S3Endpoint == "" || c.Storage.Bucket == "" {
			return fmt.Errorf("S3_ENDPOINT and STORAGE_BUCKET are required for the s3 storage driver")
		}
	case "firebase":
		if c.Firebase.StorageBucket == "" {
			return fmt.Errorf("FIREBASE_STORAGE_BUCKET is required for the firebase storage driver")
		}
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER: %s (must be one of: local, s3, firebase)", c.Storage.Driver)
	}

	if c.Upload.Concurrency < 1 {
		return fmt.Errorf("UPLOAD_CONCURRENCY must be at least 1")
	}
	if c.Upload.MaxFiles < 1 {
		return fmt.Errorf("UPLOAD_MAX_FILES must be at least 1")
	}
	if c.Upload.MaxBytes < 1 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be at least 1")
	}
	if c.Geocoder.RPS < 0 {
		return fmt.Errorf("GEOCODER_RPS must be non-negative")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
