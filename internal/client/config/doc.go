// Package config loads runtime configuration for the TaskPulse CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the server, e.g. http://localhost:5000
//	-t int      request timeout (seconds)
//	-d string   local SQLite file for the session and cached tasks
//
// # JSON schema
//
//	{
//	  "server_url": "http://localhost:5000",
//	  "request_timeout": "10s",
//	  "local_db_path": "taskpulse.db"
//	}
package config
