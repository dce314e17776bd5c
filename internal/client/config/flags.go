package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/habitkeeper/internal/flagx"
)

func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, "-a", "-t", "-s", "-k", "-l", "-v", "-g")

	fs := flag.NewFlagSet("habitkeeper", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the habit API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StateFile, "s", cfg.StateFile, "SQLite state file")
	fs.StringVar(&cfg.TokenStore, "k", cfg.TokenStore, "token store: sqlite, keyring or memory")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file")
	fs.BoolVar(&cfg.Debug, "v", cfg.Debug, "debug logging")
	fs.BoolVar(&cfg.StaleGuard, "g", cfg.StaleGuard, "discard habit responses overtaken by newer requests")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second

	switch cfg.TokenStore {
	case TokenStoreSQLite, TokenStoreKeyring, TokenStoreMemory:
	default:
		panic(fmt.Sprintf("unknown token store %q", cfg.TokenStore))
	}
}
