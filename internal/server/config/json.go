package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/taskpulse/internal/flagx"
	"github.com/dmitrijs2005/taskpulse/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations use
// timex.Duration, so both "15m" and integer nanoseconds are accepted.
// Pointer fields distinguish "absent" from "false"/"0".
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	DatabaseDSN                  string         `json:"database_dsn"`
	StoreBackend                 string         `json:"store_backend"`
	RedisURL                     string         `json:"redis_url"`
	AccessSecret                 string         `json:"access_secret"`
	RefreshSecret                string         `json:"refresh_secret"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	BcryptCost                   *int           `json:"bcrypt_cost"`
	RequestTimeout               timex.Duration `json:"request_timeout"`
	RotateRefreshTokens          *bool          `json:"rotate_refresh_tokens"`
	LogLevel                     string         `json:"log_level"`
	Env                          string         `json:"env"`
}

// parseJson overlays Config with the JSON file named by -c/-config.
// Keys missing from the file leave the current value untouched. Read or
// decode errors panic.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.StoreBackend, c.StoreBackend)
	setString(&config.RedisURL, c.RedisURL)
	setString(&config.AccessSecret, c.AccessSecret)
	setString(&config.RefreshSecret, c.RefreshSecret)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.Env, c.Env)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration != 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.RequestTimeout.Duration != 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.RotateRefreshTokens != nil {
		config.RotateRefreshTokens = *c.RotateRefreshTokens
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
