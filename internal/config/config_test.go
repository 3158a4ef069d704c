package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolateEnv points the .env lookup at an empty temp dir so a developer's
// local .env cannot leak into tests.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("VIRE_ENV_FILE", filepath.Join(dir, ".env"))
	return dir
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 4241 {
		t.Errorf("expected default port 4241, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected default host localhost, got %s", cfg.Server.Host)
	}
	if cfg.API.URL != "http://localhost:8080" {
		t.Errorf("expected default api url http://localhost:8080, got %s", cfg.API.URL)
	}
	if cfg.API.Timeout.Duration != 10*time.Second {
		t.Errorf("expected default api timeout 10s, got %s", cfg.API.Timeout)
	}
	if cfg.Dashboard.OverviewSymbol != "AAPL" || cfg.Dashboard.SentimentTicker != "AAPL" {
		t.Errorf("expected AAPL defaults, got %s/%s", cfg.Dashboard.OverviewSymbol, cfg.Dashboard.SentimentTicker)
	}
	if !cfg.Proxy.Enabled || len(cfg.Proxy.Routes) != 0 {
		t.Errorf("expected proxy enabled with built-in routes, got %+v", cfg.Proxy)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("expected defaults to validate, got %v", issues)
	}
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles with no files should not error: %v", err)
	}
	if cfg.Server.Port != 4241 {
		t.Errorf("expected default port 4241, got %d", cfg.Server.Port)
	}
}

func TestLoadFromFiles_ValidTOML(t *testing.T) {
	dir := isolateEnv(t)
	tomlPath := filepath.Join(dir, "test.toml")

	content := `
environment = "dev"

[server]
port = 9090
host = "0.0.0.0"

[api]
url = "http://backend:8080"
timeout = "3s"

[dashboard]
overview_symbol = "MSFT"
session_ttl = "30m"
max_sessions = 10

[proxy]
enabled = false

[[proxy.routes]]
prefix = "/eq"

[[proxy.routes]]
prefix = "/api"
strip_prefix = true

[logging]
level = "debug"
outputs = ["console", "file"]
`
	if err := os.WriteFile(tomlPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFiles(tomlPath)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if !cfg.IsDevMode() {
		t.Error("expected dev mode")
	}
	if cfg.API.URL != "http://backend:8080" {
		t.Errorf("expected api url http://backend:8080, got %s", cfg.API.URL)
	}
	if cfg.API.Timeout.Duration != 3*time.Second {
		t.Errorf("expected timeout 3s, got %s", cfg.API.Timeout)
	}
	if cfg.Dashboard.OverviewSymbol != "MSFT" {
		t.Errorf("expected overview symbol MSFT, got %s", cfg.Dashboard.OverviewSymbol)
	}
	if cfg.Dashboard.SentimentTicker != "AAPL" {
		t.Errorf("expected sentiment ticker default kept, got %s", cfg.Dashboard.SentimentTicker)
	}
	if cfg.Dashboard.SessionTTL.Duration != 30*time.Minute || cfg.Dashboard.MaxSessions != 10 {
		t.Errorf("unexpected dashboard settings: %+v", cfg.Dashboard)
	}
	if cfg.Proxy.Enabled {
		t.Error("expected proxy disabled")
	}
	if len(cfg.Proxy.Routes) != 2 || cfg.Proxy.Routes[0].Prefix != "/eq" || !cfg.Proxy.Routes[1].StripPrefix {
		t.Errorf("expected routes from file, got %+v", cfg.Proxy.Routes)
	}
	if len(cfg.Logging.Outputs) != 2 {
		t.Errorf("expected two log outputs, got %v", cfg.Logging.Outputs)
	}
}

func TestLoadFromFiles_MultipleFiles(t *testing.T) {
	dir := isolateEnv(t)
	base := filepath.Join(dir, "base.toml")
	override := filepath.Join(dir, "override.toml")

	os.WriteFile(base, []byte("[server]\nport = 5000\nhost = \"base\"\n"), 0644)
	os.WriteFile(override, []byte("[server]\nport = 6000\n"), 0644)

	cfg, err := LoadFromFiles(base, override)
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Server.Port != 6000 {
		t.Errorf("expected later file to win, got port %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "base" {
		t.Errorf("expected host from first file, got %s", cfg.Server.Host)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	isolateEnv(t)
	if _, err := LoadFromFiles("/nonexistent/path.toml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadFromFiles_InvalidTOML(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "bad.toml")
	os.WriteFile(path, []byte("[server\nport = "), 0644)

	_, err := LoadFromFiles(path)
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
	if !strings.Contains(err.Error(), "file 1 of 1") {
		t.Errorf("expected file position in error, got %v", err)
	}
}

func TestLoadFromFiles_InvalidDuration(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "bad.toml")
	os.WriteFile(path, []byte("[api]\ntimeout = \"soon\"\n"), 0644)

	if _, err := LoadFromFiles(path); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestLoadFromFiles_DotEnv(t *testing.T) {
	dir := isolateEnv(t)
	envFile := filepath.Join(dir, ".env")
	os.WriteFile(envFile, []byte("VIRE_API_URL=http://dotenv:8080\nVIRE_SERVER_PORT=7000\n"), 0644)

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.API.URL != "http://dotenv:8080" {
		t.Errorf("expected api url from .env, got %s", cfg.API.URL)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("expected port from .env, got %d", cfg.Server.Port)
	}
	if _, set := os.LookupEnv("VIRE_API_URL"); set {
		t.Error("expected .env not to modify the process environment")
	}
}

func TestLoadFromFiles_ProcessEnvBeatsDotEnv(t *testing.T) {
	dir := isolateEnv(t)
	os.WriteFile(filepath.Join(dir, ".env"), []byte("VIRE_SERVER_PORT=7000\n"), 0644)
	t.Setenv("VIRE_SERVER_PORT", "7100")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("LoadFromFiles failed: %v", err)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("expected process env to win, got %d", cfg.Server.Port)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"VIRE_ENV":                        "development",
		"VIRE_SERVER_PORT":                "8888",
		"VIRE_SERVER_HOST":                "example.com",
		"VIRE_API_URL":                    "http://api:9000",
		"VIRE_API_TIMEOUT":                "250ms",
		"VIRE_DASHBOARD_SYMBOL":           "NVDA",
		"VIRE_DASHBOARD_SENTIMENT_TICKER": "SPY",
		"VIRE_SESSION_TTL":                "15m",
		"VIRE_PROXY_ENABLED":              "false",
		"VIRE_LOG_LEVEL":                  "warn",
		"VIRE_LOG_OUTPUTS":                "console, file",
	}
	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg, func(k string) string { return env[k] })

	if !cfg.IsDevMode() {
		t.Error("expected dev mode")
	}
	if cfg.Server.Port != 8888 || cfg.Server.Host != "example.com" {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.API.URL != "http://api:9000" || cfg.API.Timeout.Duration != 250*time.Millisecond {
		t.Errorf("unexpected api config %+v", cfg.API)
	}
	if cfg.Dashboard.OverviewSymbol != "NVDA" || cfg.Dashboard.SentimentTicker != "SPY" {
		t.Errorf("unexpected dashboard symbols %+v", cfg.Dashboard)
	}
	if cfg.Dashboard.SessionTTL.Duration != 15*time.Minute {
		t.Errorf("expected session ttl 15m, got %s", cfg.Dashboard.SessionTTL)
	}
	if cfg.Proxy.Enabled {
		t.Error("expected proxy disabled")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
	if len(cfg.Logging.Outputs) != 2 || cfg.Logging.Outputs[1] != "file" {
		t.Errorf("expected outputs [console file], got %v", cfg.Logging.Outputs)
	}
}

func TestApplyEnvOverrides_InvalidValuesIgnored(t *testing.T) {
	env := map[string]string{
		"VIRE_SERVER_PORT":   "not-a-number",
		"VIRE_API_TIMEOUT":   "forever",
		"VIRE_PROXY_ENABLED": "maybe",
	}
	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg, func(k string) string { return env[k] })

	if cfg.Server.Port != 4241 {
		t.Errorf("expected default port retained, got %d", cfg.Server.Port)
	}
	if cfg.API.Timeout.Duration != 10*time.Second {
		t.Errorf("expected default timeout retained, got %s", cfg.API.Timeout)
	}
	if !cfg.Proxy.Enabled {
		t.Error("expected proxy default retained")
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, 3000, "127.0.0.1", "http://flag:1")

	if cfg.Server.Port != 3000 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.API.URL != "http://flag:1" {
		t.Errorf("expected api url from flag, got %s", cfg.API.URL)
	}
}

func TestApplyFlagOverrides_ZeroPortNoOverride(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, 0, "", "")

	if cfg.Server.Port != 4241 || cfg.Server.Host != "localhost" {
		t.Errorf("expected defaults kept, got %+v", cfg.Server)
	}
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Server.Port = 0
	cfg.API.URL = "backend"
	cfg.API.Timeout.Duration = 0
	cfg.Dashboard.SessionTTL.Duration = -time.Second
	cfg.Dashboard.MaxSessions = -1
	cfg.Proxy.Routes = append(cfg.Proxy.Routes, ProxyRoute{Prefix: "/"})

	issues := cfg.Validate()
	if len(issues) != 6 {
		t.Fatalf("expected 6 issues, got %d: %v", len(issues), issues)
	}

	cfg = NewDefaultConfig()
	cfg.API.URL = ""
	issues = cfg.Validate()
	if len(issues) != 1 || !strings.Contains(issues[0], "VIRE_API_URL") {
		t.Errorf("expected api.url required issue, got %v", issues)
	}
}

func TestIsDevMode(t *testing.T) {
	for env, want := range map[string]bool{"dev": true, "DEV": true, "local": true, "prod": false, "": false} {
		cfg := NewDefaultConfig()
		cfg.Environment = env
		if got := cfg.IsDevMode(); got != want {
			t.Errorf("IsDevMode(%q) = %v, want %v", env, got, want)
		}
	}
}
