package main

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config is the environment-driven configuration.
type Config struct {
	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":8080"`
	SharedBinURL string `env:"SHARED_BIN_URL,required"`
	SharedBinKey string `env:"SHARED_BIN_KEY"`
	DataDir      string `env:"DATA_DIR" envDefault:"./data"`
	CatalogPath  string `env:"CATALOG_PATH" envDefault:"./problems.json"`
	TuningPath   string `env:"TUNING_PATH"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

func loadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// Tuning is the optional YAML-driven game tuning. Every field has a default
// matching the original event setup.
type Tuning struct {
	PollIntervalMs int    `yaml:"poll_interval_ms"`
	CooldownSec    int    `yaml:"cooldown_sec"`
	TickIntervalMs int    `yaml:"tick_interval_ms"`
	RosterSize     int    `yaml:"roster_size"`
	AdminCode      string `yaml:"admin_code"`
}

func defaultTuning() Tuning {
	return Tuning{
		PollIntervalMs: 1000,
		CooldownSec:    30,
		TickIntervalMs: 250,
		RosterSize:     20,
		AdminCode:      "tumhari_maut",
	}
}

// loadTuning reads the tuning file when a path is set, falling back to
// defaults for the file itself and for any field left zero.
func loadTuning(path string) (Tuning, error) {
	tuning := defaultTuning()
	if path == "" {
		return tuning, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tuning, fmt.Errorf("failed to read tuning file: %w", err)
	}
	var loaded Tuning
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return tuning, fmt.Errorf("failed to parse tuning file: %w", err)
	}

	if loaded.PollIntervalMs > 0 {
		tuning.PollIntervalMs = loaded.PollIntervalMs
	}
	if loaded.CooldownSec > 0 {
		tuning.CooldownSec = loaded.CooldownSec
	}
	if loaded.TickIntervalMs > 0 {
		tuning.TickIntervalMs = loaded.TickIntervalMs
	}
	if loaded.RosterSize > 0 {
		tuning.RosterSize = loaded.RosterSize
	}
	if loaded.AdminCode != "" {
		tuning.AdminCode = loaded.AdminCode
	}
	return tuning, nil
}

func (t Tuning) pollInterval() time.Duration {
	return time.Duration(t.PollIntervalMs) * time.Millisecond
}

func (t Tuning) cooldown() time.Duration {
	return time.Duration(t.CooldownSec) * time.Second
}

func (t Tuning) tickInterval() time.Duration {
	return time.Duration(t.TickIntervalMs) * time.Millisecond
}
