package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents runtime configuration for the service.
type Config struct {
	BasicConfig BasicConfig  `json:"basic_config"`
	Gemini      GeminiConfig `json:"gemini"`
	Redis       RedisConfig  `json:"redis"`
}

type BasicConfig struct {
	ServerAddress     string `json:"server_address"`
	SessionStore      string `json:"session_store"` // "memory" or "redis"
	SessionTTLMinutes int    `json:"session_ttl_minutes"`
	AITimeoutSeconds  int    `json:"ai_timeout_seconds"`
	AllowTextUploads  bool   `json:"allow_text_uploads"`
	EnableWebSearch   bool   `json:"enable_web_search"`
}

type GeminiConfig struct {
	Model  string `json:"model"`
	APIKey string `json:"api_key"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

const (
	DefaultServerAddress     = ":8080"
	DefaultGeminiModel       = "gemini-1.5-flash"
	DefaultSessionTTLMinutes = 24 * 60
	DefaultAITimeoutSeconds  = 120
)

// Load reads configuration from the provided path (defaults to config.json).
// A missing file is not an error: the service can run on defaults plus the
// GOOGLE_API_KEY environment variable alone, which always overrides the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		path = "config.json"
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}

	file, err := os.Open(absPath)
	if err == nil {
		defer file.Close()
		if err := json.NewDecoder(file).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config %s: %w", absPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("open config %s: %w", absPath, err)
	}

	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BasicConfig.ServerAddress == "" {
		c.BasicConfig.ServerAddress = DefaultServerAddress
	}
	if c.BasicConfig.SessionStore == "" {
		c.BasicConfig.SessionStore = "memory"
	}
	if c.BasicConfig.SessionTTLMinutes <= 0 {
		c.BasicConfig.SessionTTLMinutes = DefaultSessionTTLMinutes
	}
	if c.BasicConfig.AITimeoutSeconds <= 0 {
		c.BasicConfig.AITimeoutSeconds = DefaultAITimeoutSeconds
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = DefaultGeminiModel
	}
}
