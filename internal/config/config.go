// Package config provides YAML-based configuration with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// AppConfig is the root configuration structure.
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Insight InsightConfig `yaml:"insight"`
	Export  ExportConfig  `yaml:"export"`
	Session SessionConfig `yaml:"session"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bind_address"`
	EnableCORS   bool   `yaml:"enable_cors"`
	AllowOrigins string `yaml:"allow_origins"`
	ReadTimeout  int    `yaml:"read_timeout_seconds"`
	WriteTimeout int    `yaml:"write_timeout_seconds"`
	BodyLimit    string `yaml:"body_limit"`
}

// StorageConfig contains upload storage settings.
type StorageConfig struct {
	DataDirectory    string `yaml:"data_directory"`
	UploadsDirectory string `yaml:"uploads_directory"`
	MaxUploadSize    string `yaml:"max_upload_size"`
	RecentFilesLimit int    `yaml:"recent_files_limit"`
}

// InsightConfig contains LLM insight generation settings.
type InsightConfig struct {
	// Enabled toggles LLM-backed insights. When off, every panel gets the
	// provider fallback text.
	Enabled   bool   `yaml:"enabled"`
	Model     string `yaml:"model"`
	CacheSize int    `yaml:"cache_size"`
	// APIKey is never read from YAML; it comes from the GEMINI_API_KEY
	// environment variable (or a .env file).
	APIKey string `yaml:"-"`
}

// ExportConfig contains PDF export settings.
type ExportConfig struct {
	Enabled        bool `yaml:"enabled"`
	TimeoutSeconds int  `yaml:"timeout_seconds"`
}

// SessionConfig contains dashboard session settings.
type SessionConfig struct {
	ProcessTimeoutSeconds  int `yaml:"process_timeout_seconds"`
	CleanupIntervalMinutes int `yaml:"cleanup_interval_minutes"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 60,
			BodyLimit:    "32M",
		},
		Storage: StorageConfig{
			DataDirectory:    "./data",
			UploadsDirectory: "./data/uploads",
			MaxUploadSize:    "32M",
			RecentFilesLimit: 20,
		},
		Insight: InsightConfig{
			Enabled:   true,
			Model:     "gemini-2.5-flash",
			CacheSize: 128,
		},
		Export: ExportConfig{
			Enabled:        true,
			TimeoutSeconds: 60,
		},
		Session: SessionConfig{
			ProcessTimeoutSeconds:  120,
			CleanupIntervalMinutes: 5,
		},
	}
}

// LoadConfig loads configuration from a YAML file. A missing file is written
// back with defaults so deployments always have an editable config on disk.
func LoadConfig(configPath string) (*AppConfig, error) {
	_ = godotenv.Load()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnvironmentOverrides()
		config.resolvePaths(filepath.Dir(configPath))
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save writes the configuration as YAML.
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Media Mention Dashboard configuration\n# This file is auto-generated on first run\n\n")
	if err := os.WriteFile(configPath, append(header, output...), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
		c.Storage.UploadsDirectory = filepath.Join(dataDir, "uploads")
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Insight.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		c.Insight.Model = model
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
	if !filepath.IsAbs(c.Storage.UploadsDirectory) {
		c.Storage.UploadsDirectory = filepath.Join(configDir, c.Storage.UploadsDirectory)
	}
}

// GetServerAddr returns the server bind address.
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// ProcessTimeout returns the per-run processing deadline.
func (c *AppConfig) ProcessTimeout() time.Duration {
	return time.Duration(c.Session.ProcessTimeoutSeconds) * time.Second
}

// ExportTimeout returns the per-request export deadline.
func (c *AppConfig) ExportTimeout() time.Duration {
	return time.Duration(c.Export.TimeoutSeconds) * time.Second
}

// MaxUploadBytes returns the upload size cap in bytes. Accepts a plain byte
// count or a K/M/G suffixed value like "32M"; an unparseable value falls back
// to the default cap.
func (c *AppConfig) MaxUploadBytes() int64 {
	n, err := parseByteSize(c.Storage.MaxUploadSize)
	if err != nil || n <= 0 {
		n, _ = parseByteSize(DefaultConfig().Storage.MaxUploadSize)
	}
	return n
}

func parseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	mult := int64(1)
	switch s[len(s)-1] {
	case 'K', 'k':
		mult = 1 << 10
		s = s[:len(s)-1]
	case 'M', 'm':
		mult = 1 << 20
		s = s[:len(s)-1]
	case 'G', 'g':
		mult = 1 << 30
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return n * mult, nil
}

// CleanupInterval returns how often stale sessions are evicted.
func (c *AppConfig) CleanupInterval() time.Duration {
	return time.Duration(c.Session.CleanupIntervalMinutes) * time.Minute
}

// EnsureDirectories creates all necessary directories.
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.UploadsDirectory,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
