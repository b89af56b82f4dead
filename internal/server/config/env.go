package config

import "github.com/kelseyhightower/envconfig"

// EnvPrefix is prepended to every variable name, e.g. MIRROR_SECRET_KEY.
const EnvPrefix = "MIRROR"

// parseEnv overlays Config with MIRROR_* environment variables. Panics on
// malformed values.
func parseEnv(cfg *Config) {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		panic(err)
	}
}
