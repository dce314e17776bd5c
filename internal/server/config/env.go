package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvAddr            = "HABITKEEPER_ADDR"
	EnvDatabaseDSN     = "HABITKEEPER_DATABASE_DSN"
	EnvSecretKey       = "HABITKEEPER_SECRET_KEY"
	EnvAccessTokenTTL  = "HABITKEEPER_ACCESS_TOKEN_TTL"
	EnvRefreshTokenTTL = "HABITKEEPER_REFRESH_TOKEN_TTL"
	EnvAllowedOrigins  = "HABITKEEPER_ALLOWED_ORIGINS"
	EnvDebug           = "HABITKEEPER_DEBUG"
)

// parseEnv overlays values from the dotenv file (if present) and the process
// environment. Real environment variables win over the file.
func parseEnv(cfg *Config, dotenv string) {
	file := map[string]string{}
	if dotenv != "" {
		m, err := godotenv.Read(dotenv)
		switch {
		case err == nil:
			file = m
		case errors.Is(err, fs.ErrNotExist):
		default:
			panic(err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}

	if v, ok := lookup(EnvAddr); ok {
		cfg.Addr = v
	}
	if v, ok := lookup(EnvDatabaseDSN); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := lookup(EnvSecretKey); ok {
		cfg.SecretKey = v
	}
	if v, ok := lookup(EnvAccessTokenTTL); ok {
		cfg.AccessTokenTTL = mustDuration(EnvAccessTokenTTL, v)
	}
	if v, ok := lookup(EnvRefreshTokenTTL); ok {
		cfg.RefreshTokenTTL = mustDuration(EnvRefreshTokenTTL, v)
	}
	if v, ok := lookup(EnvAllowedOrigins); ok {
		cfg.AllowedOrigins = splitOrigins(v)
	}
	if v, ok := lookup(EnvDebug); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(EnvDebug + ": " + err.Error())
		}
		cfg.Debug = b
	}
}

func mustDuration(key, v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(key + ": " + err.Error())
	}
	return d
}

func splitOrigins(v string) []string {
	out := []string{}
	for _, o := range strings.Split(v, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
