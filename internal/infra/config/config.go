// internal/infra/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends for events and bookings.
const (
	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
	StoreMongo     = "mongo"
	StoreMemory    = "memory" // local development only
)

// Config はアプリケーション全体の設定を保持します。
// CONFIG_FILE (YAML) があれば先に読み込み、環境変数で上書きします。
type Config struct {
	Port string `yaml:"port"`

	// GCP
	GCPProjectID             string `yaml:"gcp_project_id"`
	GCPCreds                 string `yaml:"gcp_credentials_file"`
	FirestoreProjectID       string `yaml:"firestore_project_id"`
	FirestoreCredentialsFile string `yaml:"firestore_credentials_file"`

	// EventStore: firestore (default) | postgres | mongo | memory
	EventStore         string `yaml:"event_store"`
	DatabaseURL        string `yaml:"database_url"`
	MongoURI           string `yaml:"mongodb_uri"`
	MongoDatabase      string `yaml:"mongodb_database"`
	MongoPoolSize      uint64 `yaml:"mongodb_pool_size"`
	EventsCollection   string `yaml:"events_collection"`
	BookingsCollection string `yaml:"bookings_collection"`

	// Images (GCS)
	EventImageBucket string `yaml:"event_image_bucket"`
	EventImageFolder string `yaml:"event_image_folder"`
	MaxImageBytes    int    `yaml:"max_image_bytes"`

	// HTTP
	CORSAllowedOrigin string `yaml:"cors_allowed_origin"`

	// Mail (SendGrid). SendGridAPIKeySecret is a Secret Manager secret id used when
	// SendGridAPIKey is empty.
	SendGridAPIKey       string `yaml:"sendgrid_api_key"`
	SendGridAPIKeySecret string `yaml:"sendgrid_api_key_secret"`
	MailFrom             string `yaml:"mail_from"`
	MailFromName         string `yaml:"mail_from_name"`
	SiteBaseURL          string `yaml:"site_base_url"` // links in confirmation mails

	EventCacheTTL  time.Duration `yaml:"event_cache_ttl"`
	EventCacheSize int64         `yaml:"event_cache_size"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Port:               "8080",
		EventStore:         StoreFirestore,
		MongoDatabase:      "devevent",
		EventsCollection:   "events",
		BookingsCollection: "bookings",
		EventImageFolder:   "DevEvent",
		MaxImageBytes:      5 * 1024 * 1024,
		CORSAllowedOrigin:  "*",
		MailFromName:       "DevEvent",
		EventCacheTTL:      30 * time.Second,
		EventCacheSize:     1000,
	}
}

// Load は CONFIG_FILE と環境変数を読み込み Config を返します。
func Load() (*Config, error) {
	cfg := Default()
	if p := strings.TrimSpace(os.Getenv("CONFIG_FILE")); p != "" {
		if err := cfg.loadFile(p); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getenvDefault("PORT", c.Port)

	// ベースとなる GCP プロジェクト ID
	c.GCPProjectID = getenvDefault("GCP_PROJECT_ID", c.GCPProjectID)
	c.GCPProjectID = getenvDefault("GOOGLE_CLOUD_PROJECT", c.GCPProjectID)
	c.GCPCreds = getenvDefault("GOOGLE_APPLICATION_CREDENTIALS", c.GCPCreds)
	c.FirestoreProjectID = getenvDefault("FIRESTORE_PROJECT_ID", c.FirestoreProjectID)
	if c.FirestoreProjectID == "" {
		c.FirestoreProjectID = c.GCPProjectID
	}
	c.FirestoreCredentialsFile = getenvDefault("FIRESTORE_CREDENTIALS_FILE", c.FirestoreCredentialsFile)

	c.EventStore = strings.ToLower(getenvDefault("EVENT_STORE", c.EventStore))
	c.DatabaseURL = getenvDefault("DATABASE_URL", c.DatabaseURL)
	c.MongoURI = getenvDefault("MONGODB_URI", c.MongoURI)
	c.MongoDatabase = getenvDefault("MONGODB_DATABASE", c.MongoDatabase)
	c.MongoPoolSize = uint64(getenvInt("MONGODB_POOL_SIZE", int(c.MongoPoolSize)))
	c.EventsCollection = getenvDefault("EVENTS_COLLECTION", c.EventsCollection)
	c.BookingsCollection = getenvDefault("BOOKINGS_COLLECTION", c.BookingsCollection)

	c.EventImageBucket = getenvDefault("EVENT_IMAGE_BUCKET", c.EventImageBucket)
	c.EventImageBucket = getenvDefault("GCS_BUCKET", c.EventImageBucket)
	c.EventImageFolder = getenvDefault("EVENT_IMAGE_FOLDER", c.EventImageFolder)
	c.MaxImageBytes = getenvInt("MAX_IMAGE_BYTES", c.MaxImageBytes)

	c.CORSAllowedOrigin = getenvDefault("CORS_ALLOWED_ORIGIN", c.CORSAllowedOrigin)

	c.SendGridAPIKey = getenvDefault("SENDGRID_API_KEY", c.SendGridAPIKey)
	c.SendGridAPIKeySecret = getenvDefault("SENDGRID_API_KEY_SECRET", c.SendGridAPIKeySecret)
	c.MailFrom = getenvDefault("MAIL_FROM", c.MailFrom)
	c.MailFromName = getenvDefault("MAIL_FROM_NAME", c.MailFromName)
	c.SiteBaseURL = getenvDefault("SITE_BASE_URL", c.SiteBaseURL)

	if v := strings.TrimSpace(os.Getenv("EVENT_CACHE_TTL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.EventCacheTTL = d
		}
	}
	c.EventCacheSize = int64(getenvInt("EVENT_CACHE_SIZE", int(c.EventCacheSize)))
}

// Validate checks the combination of settings for the selected store.
func (c *Config) Validate() error {
	switch c.EventStore {
	case StoreFirestore:
		if strings.TrimSpace(c.FirestoreProjectID) == "" {
			return fmt.Errorf("config: FIRESTORE_PROJECT_ID (or GCP_PROJECT_ID) is required for event_store=%s", c.EventStore)
		}
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("config: DATABASE_URL is required for event_store=%s", c.EventStore)
		}
	case StoreMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return fmt.Errorf("config: MONGODB_URI is required for event_store=%s", c.EventStore)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("config: unknown event_store %q (firestore|postgres|mongo|memory)", c.EventStore)
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("config: max_image_bytes must be positive")
	}
	return nil
}

// GetFirestoreProjectID は Firestore/GCP プロジェクト ID を返します。
func (c *Config) GetFirestoreProjectID() string {
	return c.FirestoreProjectID
}

// CredentialsFile: FIRESTORE_CREDENTIALS_FILE → GOOGLE_APPLICATION_CREDENTIALS
func (c *Config) CredentialsFile() string {
	if v := strings.TrimSpace(c.FirestoreCredentialsFile); v != "" {
		return v
	}
	return strings.TrimSpace(c.GCPCreds)
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
