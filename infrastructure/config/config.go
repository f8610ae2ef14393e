// Package config reads runner settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"lyra_automation/infrastructure/alttester"
)

// Driver kinds
const (
	DriverAltTester = "alttester"
	DriverSimulator = "simulator"
)

const stateDirName = ".lyra_automation"

// Config holds everything the runner needs to start
type Config struct {
	Driver    string
	AltTester alttester.Config
	LaunchURL string
	Headless  bool
	LogLevel  logrus.Level
	StateDir  string
}

// Load - loads .env files (when present) and reads the environment
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv - builds the config from a lookup function
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Driver:    DriverAltTester,
		AltTester: alttester.DefaultConfig(),
		LogLevel:  logrus.InfoLevel,
	}

	if v := getenv("LYRA_DRIVER"); v != "" {
		switch v {
		case DriverAltTester, DriverSimulator:
			cfg.Driver = v
		default:
			return nil, fmt.Errorf("LYRA_DRIVER: unknown driver %q", v)
		}
	}

	if v := getenv("ALTTESTER_HOST"); v != "" {
		cfg.AltTester.Host = v
	}
	if v := getenv("ALTTESTER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("ALTTESTER_PORT: invalid port %q", v)
		}
		cfg.AltTester.Port = port
	}
	if v := getenv("ALTTESTER_APP_NAME"); v != "" {
		cfg.AltTester.AppName = v
	}
	if v := getenv("ALTTESTER_CONNECT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("ALTTESTER_CONNECT_TIMEOUT: %w", err)
		}
		cfg.AltTester.ConnectTimeout = d
	}

	cfg.LaunchURL = getenv("LYRA_LAUNCH_URL")
	if v := getenv("LYRA_HEADLESS"); v != "" {
		headless, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("LYRA_HEADLESS: %w", err)
		}
		cfg.Headless = headless
	}

	if v := getenv("LYRA_LOG_LEVEL"); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("LYRA_LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	cfg.StateDir = getenv("LYRA_STATE_DIR")
	if cfg.StateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = "."
		}
		cfg.StateDir = filepath.Join(homeDir, stateDirName)
	}

	return cfg, nil
}
