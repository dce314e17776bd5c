package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/habitkeeper/internal/flagx"
	"github.com/dmitrijs2005/habitkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Omitted keys keep
// their current value.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	StateFile      *string         `json:"state_file"`
	TokenStore     *string         `json:"token_store"`
	LogFile        *string         `json:"log_file"`
	Debug          *bool           `json:"debug"`
	StaleGuard     *bool           `json:"stale_response_guard"`
}

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

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StateFile != nil {
		cfg.StateFile = *jc.StateFile
	}
	if jc.TokenStore != nil {
		cfg.TokenStore = *jc.TokenStore
	}
	if jc.LogFile != nil {
		cfg.LogFile = *jc.LogFile
	}
	if jc.Debug != nil {
		cfg.Debug = *jc.Debug
	}
	if jc.StaleGuard != nil {
		cfg.StaleGuard = *jc.StaleGuard
	}
}
