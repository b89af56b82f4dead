package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/diarykeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   address and port of the mirror server
//	-i int      online check interval in seconds
//	-d string   SQLite database file
//	-b string   entry storage backend (sqlite or diskv)
//	-n string   device id presented to the mirror
//	-l string   log level
//
// args is filtered with flagx.FilterArgs so flags owned by other layers are
// ignored. Panics on malformed values.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-d", "-b", "-n", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "local database file")
	fs.StringVar(&cfg.StorageBackend, "b", cfg.StorageBackend, "entry storage backend: sqlite or diskv")
	fs.StringVar(&cfg.DeviceID, "n", cfg.DeviceID, "device id")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
