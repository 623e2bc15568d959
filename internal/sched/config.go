package sched

import (
	"os"

	yaml "github.com/goccy/go-yaml"
)

// Config mirrors config.yml.
type Config struct {
	TickMS           int    `yaml:"tick_ms"`             // 5 (by default)
	TaskCapacity     int    `yaml:"task_capacity"`        // 16 (by default), hard max 32
	QueueCapacity    int    `yaml:"queue_capacity"`       // 8 (by default)
	LogLevel         string `yaml:"log_level"`            // "info" (by default)
	NotifyRatePerSec int    `yaml:"notify_rate_per_sec"`  // 50 (by default)
}

// defaultConfig is used when the config file is missing or unparsable.
func defaultConfig() Config {
	return Config{
		TickMS:           5,
		TaskCapacity:     16,
		QueueCapacity:    8,
		LogLevel:         "info",
		NotifyRatePerSec: 50,
	}
}

// LoadConfig reads YAML and overrides defaults; empty path = defaults only.
func LoadConfig(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}

	_ = yaml.Unmarshal(data, &cfg)

	// sanity clamps
	if cfg.TickMS <= 0 {
		cfg.TickMS = 5
	}
	if cfg.TaskCapacity <= 0 {
		cfg.TaskCapacity = 16
	}
	if cfg.TaskCapacity > 32 {
		cfg.TaskCapacity = 32
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 8
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.NotifyRatePerSec <= 0 {
		cfg.NotifyRatePerSec = 50
	}

	return cfg
}
