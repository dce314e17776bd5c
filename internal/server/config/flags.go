package config

import (
	"flag"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/habitkeeper/internal/flagx"
)

func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, "-a", "-d", "-s", "-t", "-r", "-o", "-v")

	fs := flag.NewFlagSet("habitkeeper-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "HTTP bind address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "JWT signing secret")
	access := fs.Int("t", int(cfg.AccessTokenTTL.Minutes()), "access token lifetime (in minutes)")
	refresh := fs.Int("r", int(cfg.RefreshTokenTTL.Minutes()), "refresh token lifetime (in minutes)")
	origins := fs.String("o", strings.Join(cfg.AllowedOrigins, ","), "allowed CORS origins, comma separated")
	fs.BoolVar(&cfg.Debug, "v", cfg.Debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// only explicit flags override, so sub-minute lifetimes from earlier
	// layers survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.AccessTokenTTL = time.Duration(*access) * time.Minute
		case "r":
			cfg.RefreshTokenTTL = time.Duration(*refresh) * time.Minute
		case "o":
			cfg.AllowedOrigins = splitOrigins(*origins)
		}
	})
}
