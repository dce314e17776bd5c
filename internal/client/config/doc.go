// Package config loads runtime configuration for the habitkeeper CLI.
//
// Sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags.
//
// Flags
//
//	-a string   base URL of the habit API (trailing slash optional)
//	-t int      HTTP request timeout in seconds
//	-s string   path of the SQLite state file
//	-k string   token store: "sqlite" or "keyring"
//	-l string   log file path
//	-v          debug logging
//
// JSON example:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080/api/",
//	  "request_timeout": "15s",
//	  "state_file": "habitkeeper.db",
//	  "token_store": "keyring",
//	  "log_file": "habitkeeper.log",
//	  "debug": false
//	}
package config
