// Package config handles configuration loading for cassini-mcp.
//
// # Configuration File
//
// Location (in order):
//
//  1. The --config flag
//  2. Path from CASSINI_CONFIG environment variable
//  3. $XDG_CONFIG_HOME/cassini/config.yaml (default ~/.config/cassini/config.yaml)
//
// A missing file is not an error; the defaults serve a local database on
// 127.0.0.1:8080. Files ending in .toml are read as TOML, anything else as YAML.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	tailscale:
//	  auth_key: "${TS_AUTHKEY}"
//
// CASSINI_DB_PATH, when set, overrides database.path.
//
// # Configuration Sections
//
//	server:
//	  http_addr: "127.0.0.1:8080"
//
//	database:
//	  path: "./cassini.db"
//
//	cache:
//	  enabled: true
//	  size: 256
//	  ttl: "10m"      # 0 keeps entries until evicted
//
//	tailscale:
//	  enabled: false
//	  hostname: "cassini"
//	  auth_key: "${TS_AUTHKEY}"
//	  state_dir: ""
//	  ephemeral: false
//	  https: false    # serve :443 with tailnet certificates
//	  funnel: false   # public HTTPS via Funnel
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text or json
//
//	metrics:
//	  enabled: false
//	  path: "/metrics"
package config
