// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Org is the canonical GitHub organization hosting the rules repository.
	Org string `koanf:"org"`

	// Repo is the canonical rules repository name.
	Repo string `koanf:"repo"`

	// BotUser is the service account identity used against the GitHub API.
	BotUser string `koanf:"bot_user"`

	// GitHubToken authenticates fork listing requests.
	GitHubToken string `koanf:"github_token"`

	// Channel is the chat channel announcements are sent to.
	Channel string `koanf:"channel"`

	// SlackToken authenticates the announcement client.
	SlackToken string `koanf:"slack_token"`

	// RepoPath is the local checkout the scoreboard document is written into.
	RepoPath string `koanf:"repo_path"`

	// Denylist holds identities excluded from the roster, comma-separated.
	Denylist string `koanf:"denylist"`

	// RedisAddr, RedisPassword and RedisDB configure the bus and tally store.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// BusPrefix is the channel namespace the webhook republisher uses.
	BusPrefix string `koanf:"bus_prefix"`

	// RequestTimeoutMS bounds each remote GitHub or raw-content request.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// Addr configures the HTTP listen address for /metrics and /healthz.
	Addr string `koanf:"addr"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":9080",
		RedisAddr:        "localhost:6379",
		BusPrefix:        "treslek",
		RequestTimeoutMS: 5000,
	}
}
