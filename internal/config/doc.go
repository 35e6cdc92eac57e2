// Package config loads haven's configuration.
//
// # Resolution Order
//
// Values are layered, later layers winning:
//
//  1. Built-in defaults
//  2. The TOML file (explicit path, else ~/.config/haven/config.toml)
//  3. .env files in the working directory and beside the config file
//  4. Non-empty process environment variables
//
// A missing config file is not an error. A malformed one is.
//
// # Default Values
//
//   - Config file: ~/.config/haven/config.toml
//   - API base URL: http://127.0.0.1:8080/api
//   - Request timeout: 30s
//   - Poll interval: 15s
//   - Log file: ~/.local/state/haven/haven.log (JSON, level info)
//
// # TOML Format
//
//	api_url = "https://haven.example.com/api"
//	token = ""
//	timeout = "30s"
//	poll_interval = "15s"
//	log_level = "info"
//	log_path = "~/.local/state/haven/haven.log"
//	log_format = "json"
//
// Every field is optional. Durations use time.ParseDuration syntax and must
// be positive. Tilde expansion is applied to log_path.
//
// # Environment
//
//   - HAVEN_API_URL
//   - HAVEN_TOKEN
//   - HAVEN_TIMEOUT
//   - HAVEN_LOG_LEVEL
//   - HAVEN_LOG_PATH
//
// .env files are read with godotenv without modifying the process
// environment.
package config
