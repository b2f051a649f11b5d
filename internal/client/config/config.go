package config

import "time"

// Config holds runtime settings for the TaskPulse CLI.
//
// Fields:
//   - ServerURL: base URL of the TaskPulse HTTP API.
//   - RequestTimeout: upper bound for a single HTTP request.
//   - LocalDBPath: SQLite file keeping the session and cached tasks between
//     runs; empty disables local state.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	LocalDBPath    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000"
	c.RequestTimeout = 10 * time.Second
	c.LocalDBPath = "taskpulse.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
