package config

import (
	"os"
	"strings"
	"time"
)

// Config holds runtime settings for the journal client.
//
// Units: every interval is a time.Duration.
type Config struct {
	// DatabaseDSN is the SQLite file holding entries and the sync outbox.
	DatabaseDSN string `envconfig:"DATABASE_DSN"`
	// StorageBackend selects the entry store: "sqlite" or "diskv".
	StorageBackend string `envconfig:"STORAGE_BACKEND"`
	DiskvPath      string `envconfig:"DISKV_PATH"`

	ServerEndpointAddr  string        `envconfig:"SERVER_ADDR"`
	DeviceID            string        `envconfig:"DEVICE_ID"`
	SyncSecret          string        `envconfig:"SYNC_SECRET"`
	TokenValidity       time.Duration `envconfig:"TOKEN_VALIDITY"`
	OnlineCheckInterval time.Duration `envconfig:"ONLINE_CHECK_INTERVAL"`

	SyncShards          int           `envconfig:"SYNC_SHARDS"`
	SyncQueueSize       int           `envconfig:"SYNC_QUEUE_SIZE"`
	SyncMaxAttempts     int           `envconfig:"SYNC_MAX_ATTEMPTS"`
	SyncBaseBackoff     time.Duration `envconfig:"SYNC_BASE_BACKOFF"`
	SyncMaxInterval     time.Duration `envconfig:"SYNC_MAX_INTERVAL"`
	OutboxSweepInterval time.Duration `envconfig:"OUTBOX_SWEEP_INTERVAL"`

	// WeekStart names the first day of the week for weekly rollups.
	WeekStart string `envconfig:"WEEK_START"`
	LogLevel  string `envconfig:"LOG_LEVEL"`
}

const (
	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "journal.db"
	c.StorageBackend = BackendSQLite
	c.DiskvPath = "journal-entries"

	c.ServerEndpointAddr = "127.0.0.1:50051"
	if host, err := os.Hostname(); err == nil && host != "" {
		c.DeviceID = host
	} else {
		c.DeviceID = "local"
	}
	c.TokenValidity = 15 * time.Minute
	c.OnlineCheckInterval = 3 * time.Second

	c.SyncShards = 4
	c.SyncQueueSize = 128
	c.SyncMaxAttempts = 8
	c.SyncBaseBackoff = 100 * time.Millisecond
	c.SyncMaxInterval = 20 * time.Second
	c.OutboxSweepInterval = time.Minute

	c.WeekStart = "sunday"
	c.LogLevel = "warn"
}

// Weekday parses WeekStart, falling back to Sunday.
func (c *Config) Weekday() time.Weekday {
	name := strings.ToLower(strings.TrimSpace(c.WeekStart))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d
		}
	}
	return time.Sunday
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), DIARY_* environment variables and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	args := os.Args[1:]
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}
