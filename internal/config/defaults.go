package config

import "time"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 4241,
			Host: "localhost",
		},
		API: APIConfig{
			URL:        "http://localhost:8080",
			Timeout:    Duration{10 * time.Second},
			HealthPath: "/health",
		},
		Dashboard: DashboardConfig{
			OverviewSymbol:   "AAPL",
			SentimentTicker:  "AAPL",
			DefaultPortfolio: "portfolio-1",
			SessionTTL:       Duration{2 * time.Hour},
			MaxSessions:      1000,
		},
		// No routes means the proxy's built-in /api, /eq and /portfolio set.
		Proxy: ProxyConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/vire-dashboard.log",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}
