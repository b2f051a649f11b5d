package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/flagx"
	"github.com/joho/godotenv"
)

// defaultEnvFile is loaded when present; a missing file is not an error.
const defaultEnvFile = ".env"

// parseEnv loads a dotenv file into the process environment and then
// overlays Config with the variables below. Variables already set in the
// environment win over the file.
//
//	PORT                   listen port (":" + PORT)
//	DATABASE_URL           PostgreSQL DSN
//	STORE_BACKEND          postgres | memory
//	REDIS_URL              redis://host:port/db for refresh records
//	JWT_ACCESS_SECRET      access token secret
//	JWT_REFRESH_SECRET     refresh token secret
//	ACCESS_TOKEN_TTL       e.g. 15m
//	REFRESH_TOKEN_TTL      e.g. 168h
//	BCRYPT_COST            integer
//	REQUEST_TIMEOUT        e.g. 5s
//	ROTATE_REFRESH_TOKENS  true | false
//	LOG_LEVEL              debug | info | warn | error
//	APP_ENV                free-form label
//
// The file is chosen with -env; otherwise ./.env is tried. An explicitly
// named file that cannot be read, or a malformed value, panics.
func parseEnv(cfg *Config) {
	if file := flagx.EnvFileFlags(); file != "" {
		if err := godotenv.Load(file); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := lookup("PORT"); ok {
		cfg.EndpointAddrHTTP = ":" + strings.TrimPrefix(v, ":")
	}
	if v, ok := lookup("DATABASE_URL"); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := lookup("STORE_BACKEND"); ok {
		cfg.StoreBackend = strings.ToLower(v)
	}
	if v, ok := lookup("REDIS_URL"); ok {
		cfg.RedisURL = v
	}
	if v, ok := lookup("JWT_ACCESS_SECRET"); ok {
		cfg.AccessSecret = v
	}
	if v, ok := lookup("JWT_REFRESH_SECRET"); ok {
		cfg.RefreshSecret = v
	}
	if v, ok := lookup("ACCESS_TOKEN_TTL"); ok {
		cfg.AccessTokenValidityDuration = mustDuration("ACCESS_TOKEN_TTL", v)
	}
	if v, ok := lookup("REFRESH_TOKEN_TTL"); ok {
		cfg.RefreshTokenValidityDuration = mustDuration("REFRESH_TOKEN_TTL", v)
	}
	if v, ok := lookup("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic("BCRYPT_COST: " + err.Error())
		}
		cfg.BcryptCost = n
	}
	if v, ok := lookup("REQUEST_TIMEOUT"); ok {
		cfg.RequestTimeout = mustDuration("REQUEST_TIMEOUT", v)
	}
	if v, ok := lookup("ROTATE_REFRESH_TOKENS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic("ROTATE_REFRESH_TOKENS: " + err.Error())
		}
		cfg.RotateRefreshTokens = b
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup("APP_ENV"); ok {
		cfg.Env = v
	}
}

// lookup treats empty variables as unset.
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func mustDuration(key, v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(key + ": " + err.Error())
	}
	return d
}
