package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/flagx"
	"github.com/dmitrijs2005/diarykeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals
// use timex.Duration so they may be written as "3s" or as nanoseconds.
type JsonConfig struct {
	DatabaseDSN    string `json:"database_dsn"`
	StorageBackend string `json:"storage_backend"`
	DiskvPath      string `json:"diskv_path"`

	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	DeviceID            string         `json:"device_id"`
	SyncSecret          string         `json:"sync_secret"`
	TokenValidity       timex.Duration `json:"token_validity"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`

	SyncShards          int            `json:"sync_shards"`
	SyncQueueSize       int            `json:"sync_queue_size"`
	SyncMaxAttempts     int            `json:"sync_max_attempts"`
	SyncBaseBackoff     timex.Duration `json:"sync_base_backoff"`
	SyncMaxInterval     timex.Duration `json:"sync_max_interval"`
	OutboxSweepInterval timex.Duration `json:"outbox_sweep_interval"`

	WeekStart string `json:"week_start"`
	LogLevel  string `json:"log_level"`
}

// parseJson overlays Config with the JSON file named by -c or -config.
// Keys that are absent or zero keep their current value. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config, args []string) {
	jsonConfigFile := flagx.ConfigPath(args)
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.StorageBackend, jc.StorageBackend)
	setString(&cfg.DiskvPath, jc.DiskvPath)
	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.DeviceID, jc.DeviceID)
	setString(&cfg.SyncSecret, jc.SyncSecret)
	setString(&cfg.WeekStart, jc.WeekStart)
	setString(&cfg.LogLevel, jc.LogLevel)

	setInt(&cfg.SyncShards, jc.SyncShards)
	setInt(&cfg.SyncQueueSize, jc.SyncQueueSize)
	setInt(&cfg.SyncMaxAttempts, jc.SyncMaxAttempts)

	setDuration(&cfg.TokenValidity, jc.TokenValidity)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setDuration(&cfg.SyncBaseBackoff, jc.SyncBaseBackoff)
	setDuration(&cfg.SyncMaxInterval, jc.SyncMaxInterval)
	setDuration(&cfg.OutboxSweepInterval, jc.OutboxSweepInterval)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
