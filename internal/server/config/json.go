package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/habitkeeper/internal/flagx"
	"github.com/dmitrijs2005/habitkeeper/internal/timex"
)

// JsonConfig is the intermediate DTO for JSON config files. Durations accept
// both "15m" strings and integer nanoseconds. Omitted keys keep the value
// set by earlier layers.
type JsonConfig struct {
	Addr            *string         `json:"addr"`
	DatabaseDSN     *string         `json:"database_dsn"`
	SecretKey       *string         `json:"secret_key"`
	AccessTokenTTL  *timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL *timex.Duration `json:"refresh_token_ttl"`
	AllowedOrigins  []string        `json:"allowed_origins"`
	Debug           *bool           `json:"debug"`
}

// parseJson loads the file named by -c/-config, if any, into cfg.
// Unreadable files and invalid JSON panic.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.Addr != nil {
		cfg.Addr = *jc.Addr
	}
	if jc.DatabaseDSN != nil {
		cfg.DatabaseDSN = *jc.DatabaseDSN
	}
	if jc.SecretKey != nil {
		cfg.SecretKey = *jc.SecretKey
	}
	if jc.AccessTokenTTL != nil {
		cfg.AccessTokenTTL = jc.AccessTokenTTL.Duration
	}
	if jc.RefreshTokenTTL != nil {
		cfg.RefreshTokenTTL = jc.RefreshTokenTTL.Duration
	}
	if jc.AllowedOrigins != nil {
		cfg.AllowedOrigins = jc.AllowedOrigins
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
}
