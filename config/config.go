// Package config reads the command line and the environment.
package config

import (
	"log/slog"
	"runtime"
	"strconv"
	"time"

	"github.com/freekieb7/pebble/telemetry"
)

const (
	DefaultPort        = 5000
	DefaultServiceName = "pebble"
)

type Config struct {
	// Port is the TCP port the server listens on, on all interfaces.
	Port    int
	Workers int
	Root    string

	ReadTimeout   time.Duration
	AdminAddr     string
	StatsInterval time.Duration

	LogLevel     slog.Level
	ServiceName  string
	OTLPEndpoint string
}

// Addr is the listen address for Port.
func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Load builds the configuration from the program arguments (without the
// program name) and getenv. Invalid values fall back to their defaults.
func Load(args []string, getenv func(string) string) Config {
	cfg := Config{
		Port:        DefaultPort,
		Workers:     runtime.NumCPU(),
		Root:        ".",
		LogLevel:    slog.LevelInfo,
		ServiceName: DefaultServiceName,
	}

	if len(args) > 0 {
		cfg.Port = parsePort(args[0], DefaultPort)
	}

	if n, err := strconv.Atoi(getenv("PEBBLE_WORKERS")); err == nil && n > 0 {
		cfg.Workers = n
	}
	if root := getenv("PEBBLE_ROOT"); root != "" {
		cfg.Root = root
	}
	cfg.ReadTimeout = parseDuration(getenv("PEBBLE_READ_TIMEOUT"))
	cfg.AdminAddr = getenv("PEBBLE_ADMIN_ADDR")
	cfg.StatsInterval = parseDuration(getenv("PEBBLE_STATS_INTERVAL"))
	cfg.LogLevel = telemetry.ParseLevel(getenv("PEBBLE_LOG_LEVEL"), cfg.LogLevel)

	if name := getenv("OTEL_SERVICE_NAME"); name != "" {
		cfg.ServiceName = name
	}
	cfg.OTLPEndpoint = getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	return cfg
}

// parsePort accepts a decimal port in 1..65535.
func parsePort(s string, fallback int) int {
	port, err := strconv.Atoi(s)
	if err != nil || port < 1 || port > 65535 {
		return fallback
	}
	return port
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
