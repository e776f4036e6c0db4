package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	JWT       JWTConfig       `json:"jwt"`
	Quota     QuotaConfig     `json:"quota"`
	AI        AIConfig        `json:"ai"`
	UsageLogs UsageLogsConfig `json:"usage_logs"`
}

type ServerConfig struct {
	Port        string `json:"port"`
	Environment string `json:"environment"`
}

type DatabaseConfig struct {
	DSN string `json:"dsn"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type JWTConfig struct {
	Secret      string `json:"secret"`
	ExpiryHours int    `json:"expiry_hours"`
}

type QuotaConfig struct {
	// FailOpen keeps gated features usable when the limitation store is
	// unreachable. Trade-off: a tenant can exceed its configured limits
	// for the duration of a storage incident.
	FailOpen bool `json:"fail_open"`
}

type AIConfig struct {
	BaseURL        string `json:"base_url"`
	APIKey         string `json:"-"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type UsageLogsConfig struct {
	BufferSize    int `json:"buffer_size"`
	RetentionDays int `json:"retention_days"`
}

func Load(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := Config{
		Quota: QuotaConfig{FailOpen: true},
	}
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, err
	}

	config.applyEnv()

	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.JWT.ExpiryHours <= 0 {
		config.JWT.ExpiryHours = 24
	}
	if config.AI.TimeoutSeconds <= 0 {
		config.AI.TimeoutSeconds = 60
	}
	if config.UsageLogs.BufferSize <= 0 {
		config.UsageLogs.BufferSize = 1000
	}
	if config.UsageLogs.RetentionDays <= 0 {
		config.UsageLogs.RetentionDays = 90
	}

	return &config, nil
}

// Secrets come from the environment, never from the config file.
func (c *Config) applyEnv() {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.Redis.Password = password
	}
	if key := os.Getenv("AI_API_KEY"); key != "" {
		c.AI.APIKey = key
	}
}

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required (config or DATABASE_URL)")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required (config or JWT_SECRET)")
	}

	return nil
}

func (r *RedisConfig) GetRedisAddr() string {
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	port := r.Port
	if port == "" {
		port = "6379"
	}

	return host + ":" + port
}
