// Package config loads runtime configuration for the journal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. DIARY_* environment variables, e.g. DIARY_SERVER_ADDR.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the mirror gRPC endpoint
//	-i int      online status check interval (seconds)
//	-d string   SQLite database file
//	-b string   entry storage backend (sqlite or diskv)
//	-n string   device id
//	-l string   log level
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_dsn": "journal.db",
//	  "sync_secret": "change-me",
//	  "outbox_sweep_interval": "1m"
//	}
package config
