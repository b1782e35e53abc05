// Package config provides application-wide configuration loaded from env vars.
// A YAML file (pointed to by SERVICEDESK_CONFIG) can override the defaults;
// environment variables win over both. All fields have safe defaults so the
// binaries run locally without any setup.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for the servicedesk binaries.
type Config struct {
	// HTTP gateway
	HTTPHost string `yaml:"http_host"` // SERVICEDESK_HTTP_HOST — default: "0.0.0.0"
	HTTPPort int    `yaml:"http_port"` // SERVICEDESK_HTTP_PORT — default: 8080

	// Metrics
	MetricsNamespace string `yaml:"metrics_namespace"` // SERVICEDESK_METRICS_NAMESPACE — default: "servicedesk"
}

const (
	envKeyConfigFile       = "SERVICEDESK_CONFIG"
	envKeyHTTPHost         = "SERVICEDESK_HTTP_HOST"
	envKeyHTTPPort         = "SERVICEDESK_HTTP_PORT"
	envKeyMetricsNamespace = "SERVICEDESK_METRICS_NAMESPACE"
)

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		HTTPHost:         "0.0.0.0",
		HTTPPort:         8080,
		MetricsNamespace: "servicedesk",
	}
}

// Load builds the effective configuration: defaults, then the optional YAML
// file named by SERVICEDESK_CONFIG, then environment variable overrides.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(envKeyConfigFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.HTTPHost = envOr(envKeyHTTPHost, cfg.HTTPHost)
	cfg.MetricsNamespace = envOr(envKeyMetricsNamespace, cfg.MetricsNamespace)
	if v := os.Getenv(envKeyHTTPPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("config: invalid %s value %q", envKeyHTTPPort, v)
		}
		cfg.HTTPPort = port
	}

	return cfg, nil
}

// envOr returns the value of the environment variable key, or fallback if not set.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
