package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"tinyhal/host/serial"
)

// MonitorConfig is the halmon configuration file.
type MonitorConfig struct {
	Device        string `json:"device"`          // serial device of the board console
	Baud          int    `json:"baud"`            // console baud rate
	ReadTimeoutMs int    `json:"read_timeout_ms"` // serial read timeout
	DBPath        string `json:"db_path"`         // bbolt file for recorded samples
	Addr          string `json:"addr"`            // HTTP listen address
	PollMs        int    `json:"poll_ms"`         // request a report this often, 0 = only record what the board sends
	LogLevel      string `json:"log_level"`
}

// LoadConfig parses a JSON configuration string and returns a MonitorConfig
func LoadConfig(jsonData []byte) (*MonitorConfig, error) {
	var config MonitorConfig

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	// Apply defaults
	applyDefaults(&config)

	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	if config.Baud < 0 || config.PollMs < 0 || config.ReadTimeoutMs < 0 {
		return nil, fmt.Errorf("baud, read_timeout_ms and poll_ms must not be negative")
	}

	return &config, nil
}

// LoadFile reads and parses a configuration file.
func LoadFile(path string) (*MonitorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills in missing configuration values with sensible defaults
func applyDefaults(config *MonitorConfig) {
	def := DefaultConfig()

	if config.Device == "" {
		config.Device = def.Device
	}
	if config.Baud == 0 {
		config.Baud = def.Baud
	}
	if config.ReadTimeoutMs == 0 {
		config.ReadTimeoutMs = def.ReadTimeoutMs
	}
	if config.DBPath == "" {
		config.DBPath = def.DBPath
	}
	if config.Addr == "" {
		config.Addr = def.Addr
	}
	if config.LogLevel == "" {
		config.LogLevel = def.LogLevel
	}
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *MonitorConfig {
	return &MonitorConfig{
		Device:        "/dev/ttyUSB0",
		Baud:          9600,
		ReadTimeoutMs: 100,
		DBPath:        "halmon.db",
		Addr:          ":8080",
		LogLevel:      "info",
	}
}

// Serial returns the serial port settings.
func (c *MonitorConfig) Serial() *serial.Config {
	return &serial.Config{
		Device:      c.Device,
		Baud:        c.Baud,
		ReadTimeout: c.ReadTimeoutMs,
	}
}

// Level returns the parsed log level; LoadConfig has already validated it.
func (c *MonitorConfig) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
