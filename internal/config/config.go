package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/m0st4f4-hub/MCP-ProjectManager/internal/common"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	API     APIConfig            `toml:"api"`
	Catalog CatalogConfig        `toml:"catalog"`
	Metrics MetricsConfig        `toml:"metrics"`
	MCP     MCPConfig            `toml:"mcp"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// APIConfig points at the project-manager backend that catalog tools call.
type APIConfig struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`
}

// CatalogConfig selects the tool catalog. An empty File uses the built-in catalog.
type CatalogConfig struct {
	File string `toml:"file"`
}

// MetricsConfig controls the telemetry poller feeding the dashboard.
type MetricsConfig struct {
	Path         string `toml:"path"`
	PollInterval string `toml:"poll_interval"`
	Timeout      string `toml:"timeout"`
}

// MCPConfig contains MCP server identity settings.
type MCPConfig struct {
	Name string `toml:"name"`
}

// GetTimeout parses the backend request timeout, defaulting to 30s.
func (c *APIConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 30*time.Second)
}

// GetPollInterval parses the metrics poll interval, defaulting to 15s.
func (c *MetricsConfig) GetPollInterval() time.Duration {
	return parseDuration(c.PollInterval, 15*time.Second)
}

// GetTimeout parses the metrics fetch timeout, defaulting to 5s.
func (c *MetricsConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 5*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
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

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies PM_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("PM_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PM_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if apiURL := os.Getenv("PM_API_URL"); apiURL != "" {
		config.API.URL = apiURL
	}
	if file := os.Getenv("PM_CATALOG_FILE"); file != "" {
		config.Catalog.File = file
	}
	if interval := os.Getenv("PM_METRICS_POLL_INTERVAL"); interval != "" {
		config.Metrics.PollInterval = interval
	}
	if level := os.Getenv("PM_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if outputs := os.Getenv("PM_LOG_OUTPUTS"); outputs != "" {
		config.Logging.Outputs = splitList(outputs)
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

// Validate reports every mandatory field that is missing or invalid.
// An empty result means the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if c.API.URL == "" {
		issues = append(issues, "api.url is required (PM_API_URL)")
	} else if u, err := url.Parse(c.API.URL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, fmt.Sprintf("api.url %q is not an absolute URL", c.API.URL))
	}
	if c.Metrics.Path != "" && !strings.HasPrefix(c.Metrics.Path, "/") {
		issues = append(issues, fmt.Sprintf("metrics.path %q must start with /", c.Metrics.Path))
	}
	if c.Metrics.PollInterval != "" {
		if _, err := time.ParseDuration(c.Metrics.PollInterval); err != nil {
			issues = append(issues, fmt.Sprintf("metrics.poll_interval %q is not a duration", c.Metrics.PollInterval))
		}
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
	default:
		issues = append(issues, fmt.Sprintf("logging.level %q is not recognised", c.Logging.Level))
	}

	return issues
}

// BaseURL returns the portal's own base URL.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}
