package config

import "github.com/m0st4f4-hub/MCP-ProjectManager/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 4241,
			Host: "localhost",
		},
		API: APIConfig{
			URL:     "http://localhost:8000",
			Timeout: "30s",
		},
		Metrics: MetricsConfig{
			Path:         "/metrics",
			PollInterval: "15s",
			Timeout:      "5s",
		},
		MCP: MCPConfig{
			Name: "pm-portal",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/pm-portal.log",
			MaxSizeMB:  10,
			MaxBackups: 5,
		},
	}
}
