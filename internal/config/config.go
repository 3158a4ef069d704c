// Package config loads vire-dashboard settings from TOML files, a .env file,
// VIRE_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	API         APIConfig       `toml:"api"`
	Dashboard   DashboardConfig `toml:"dashboard"`
	Proxy       ProxyConfig     `toml:"proxy"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// APIConfig points at the equity backend.
type APIConfig struct {
	URL        string   `toml:"url"`
	Timeout    Duration `toml:"timeout"`
	HealthPath string   `toml:"health_path"`
}

// DashboardConfig controls what the dashboard loads and how sessions are kept.
type DashboardConfig struct {
	OverviewSymbol   string   `toml:"overview_symbol"`
	SentimentTicker  string   `toml:"sentiment_ticker"`
	DefaultPortfolio string   `toml:"default_portfolio"`
	SessionTTL       Duration `toml:"session_ttl"`
	MaxSessions      int      `toml:"max_sessions"`
}

// ProxyConfig controls forwarding of backend-bound paths to the API origin.
type ProxyConfig struct {
	Enabled bool         `toml:"enabled"`
	Routes  []ProxyRoute `toml:"routes"`
}

// ProxyRoute is one forwarded path prefix.
type ProxyRoute struct {
	Prefix      string `toml:"prefix"`
	StripPrefix bool   `toml:"strip_prefix"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// Duration is a time.Duration written as a string ("30s", "2h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// IsDevMode reports whether the environment is development.
func (c *Config) IsDevMode() bool {
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local":
		return true
	}
	return false
}

// Address returns host:port for the listener.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Validate reports missing or invalid settings. An empty result means the
// configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if c.API.URL == "" {
		issues = append(issues, "api.url is required (VIRE_API_URL)")
	} else if u, err := url.Parse(c.API.URL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, fmt.Sprintf("api.url must be an absolute http(s) URL (got %q)", c.API.URL))
	}
	if c.API.Timeout.Duration <= 0 {
		issues = append(issues, "api.timeout must be positive")
	}
	if c.Dashboard.SessionTTL.Duration <= 0 {
		issues = append(issues, "dashboard.session_ttl must be positive")
	}
	if c.Dashboard.MaxSessions < 0 {
		issues = append(issues, "dashboard.max_sessions must not be negative")
	}
	for i, r := range c.Proxy.Routes {
		if strings.Trim(r.Prefix, "/") == "" {
			issues = append(issues, fmt.Sprintf("proxy.routes[%d].prefix must name a path", i))
		}
	}

	return issues
}

// LoadFromFile loads configuration with priority: defaults -> file -> .env -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> .env -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	dotenv, err := readDotEnv(dotEnvPath())
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(config, envLookup(dotenv))

	return config, nil
}

// dotEnvPath is VIRE_ENV_FILE when set, otherwise .env in the working directory.
func dotEnvPath() string {
	if p := os.Getenv("VIRE_ENV_FILE"); p != "" {
		return p
	}
	return ".env"
}

// readDotEnv parses a .env file without touching the process environment.
// A missing file is not an error.
func readDotEnv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return values, nil
}

// envLookup resolves a key from the process environment first, then the .env values.
func envLookup(dotenv map[string]string) func(string) string {
	return func(key string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		return dotenv[key]
	}
}

// applyEnvOverrides applies VIRE_* overrides to config.
func applyEnvOverrides(config *Config, getenv func(string) string) {
	if env := getenv("VIRE_ENV"); env != "" {
		config.Environment = env
	}
	if port := getenv("VIRE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := getenv("VIRE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if apiURL := getenv("VIRE_API_URL"); apiURL != "" {
		config.API.URL = apiURL
	}
	if timeout := getenv("VIRE_API_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.API.Timeout.Duration = d
		}
	}
	if symbol := getenv("VIRE_DASHBOARD_SYMBOL"); symbol != "" {
		config.Dashboard.OverviewSymbol = symbol
	}
	if ticker := getenv("VIRE_DASHBOARD_SENTIMENT_TICKER"); ticker != "" {
		config.Dashboard.SentimentTicker = ticker
	}
	if ttl := getenv("VIRE_SESSION_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			config.Dashboard.SessionTTL.Duration = d
		}
	}
	if enabled := getenv("VIRE_PROXY_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Proxy.Enabled = b
		}
	}
	if level := getenv("VIRE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if outputs := getenv("VIRE_LOG_OUTPUTS"); outputs != "" {
		config.Logging.Outputs = splitList(outputs)
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host, apiURL string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if apiURL != "" {
		config.API.URL = apiURL
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
