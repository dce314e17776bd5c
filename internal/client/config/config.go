package config

import (
	"os"
	"time"
)

const (
	TokenStoreSQLite  = "sqlite"
	TokenStoreKeyring = "keyring"
	// TokenStoreMemory keeps tokens for the current process only.
	TokenStoreMemory = "memory"
)

type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	StateFile      string
	TokenStore     string
	LogFile        string
	Debug          bool
	// StaleGuard drops habit responses overtaken by a newer request of
	// the same kind.
	StaleGuard bool
}

func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api/"
	c.RequestTimeout = 15 * time.Second
	c.StateFile = "habitkeeper.db"
	c.TokenStore = TokenStoreSQLite
	c.LogFile = "habitkeeper.log"
	c.Debug = false
	c.StaleGuard = false
}

// LoadConfig applies defaults, then the JSON file, then flags taken from
// os.Args. Malformed input panics.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
