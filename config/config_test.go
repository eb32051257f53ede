package config

import (
	"log/slog"
	"runtime"
	"testing"
	"time"

	"github.com/freekieb7/pebble/test"
)

func env(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load(nil, env(nil))

	test.Equal(t, 5000, cfg.Port)
	test.Equal(t, ":5000", cfg.Addr())
	test.Equal(t, runtime.NumCPU(), cfg.Workers)
	test.Equal(t, ".", cfg.Root)
	test.Equal(t, time.Duration(0), cfg.ReadTimeout)
	test.Equal(t, "", cfg.AdminAddr)
	test.Equal(t, time.Duration(0), cfg.StatsInterval)
	test.Equal(t, slog.LevelInfo, cfg.LogLevel)
	test.Equal(t, "pebble", cfg.ServiceName)
	test.Equal(t, "", cfg.OTLPEndpoint)
}

func TestLoadPort(t *testing.T) {
	testCases := []struct {
		arg  string
		port int
	}{
		{"8080", 8080},
		{"1", 1},
		{"65535", 65535},
		{"0", 5000},
		{"65536", 5000},
		{"-1", 5000},
		{"http", 5000},
		{"", 5000},
	}

	for _, tc := range testCases {
		cfg := Load([]string{tc.arg}, env(nil))
		if cfg.Port != tc.port {
			t.Errorf("Load([%q]).Port = %d, want %d", tc.arg, cfg.Port, tc.port)
		}
	}
}

func TestLoadEnvironment(t *testing.T) {
	cfg := Load([]string{"8000", "ignored"}, env(map[string]string{
		"PEBBLE_WORKERS":              "3",
		"PEBBLE_ROOT":                 "/srv/www",
		"PEBBLE_READ_TIMEOUT":         "5s",
		"PEBBLE_ADMIN_ADDR":           "127.0.0.1:9090",
		"PEBBLE_STATS_INTERVAL":       "1m",
		"PEBBLE_LOG_LEVEL":            "debug",
		"OTEL_SERVICE_NAME":           "static",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "http://collector:4317",
	}))

	test.Equal(t, 8000, cfg.Port)
	test.Equal(t, 3, cfg.Workers)
	test.Equal(t, "/srv/www", cfg.Root)
	test.Equal(t, 5*time.Second, cfg.ReadTimeout)
	test.Equal(t, "127.0.0.1:9090", cfg.AdminAddr)
	test.Equal(t, time.Minute, cfg.StatsInterval)
	test.Equal(t, slog.LevelDebug, cfg.LogLevel)
	test.Equal(t, "static", cfg.ServiceName)
	test.Equal(t, "http://collector:4317", cfg.OTLPEndpoint)
}

func TestLoadInvalidEnvironment(t *testing.T) {
	cfg := Load(nil, env(map[string]string{
		"PEBBLE_WORKERS":        "0",
		"PEBBLE_READ_TIMEOUT":   "soon",
		"PEBBLE_STATS_INTERVAL": "-5s",
		"PEBBLE_LOG_LEVEL":      "verbose",
	}))

	test.Equal(t, runtime.NumCPU(), cfg.Workers)
	test.Equal(t, time.Duration(0), cfg.ReadTimeout)
	test.Equal(t, time.Duration(0), cfg.StatsInterval)
	test.Equal(t, slog.LevelInfo, cfg.LogLevel)
}
