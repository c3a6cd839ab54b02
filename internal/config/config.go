package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Scanner ScannerConfig `yaml:"scanner"`
}

type ScannerConfig struct {
	Bridge   BridgeConfig   `yaml:"bridge"`
	Capture  CaptureConfig  `yaml:"capture"`
	Channels ChannelsConfig `yaml:"channels"`
	Output   string         `yaml:"output"`
}

// ---- BRIDGE ----

type BridgeConfig struct {
	Port     string `yaml:"port"`
	Baud     int    `yaml:"baud"`
	GPIOChip string `yaml:"gpio_chip"`
	BusyPin  int    `yaml:"busy_pin"`
}

// ---- CAPTURE ----

type CaptureConfig struct {
	Tempo     uint16 `yaml:"tempo"`
	NbRead    uint16 `yaml:"nb_read"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ---- CHANNEL SWEEP ----

type ChannelsConfig struct {
	StartHz uint32 `yaml:"start_hz"`
	StopHz  uint32 `yaml:"stop_hz"`
	StepHz  uint32 `yaml:"step_hz"`
}

// Load reads and decodes a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	return &cfg, nil
}
