package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskpulse/internal/flagx"
	"github.com/dmitrijs2005/taskpulse/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. timex.Duration
// accepts "10s" style strings as well as integer nanoseconds.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LocalDBPath    string         `json:"local_db_path"`
}

// parseJson overlays Config with values from the JSON file named by -c or
// -config. Fields absent from the file keep their current values. Read and
// unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
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

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.LocalDBPath != "" {
		cfg.LocalDBPath = jc.LocalDBPath
	}
}
