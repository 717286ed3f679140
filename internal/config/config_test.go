package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"XRD_ADDR", "XRD_LOG_LEVEL", "XRD_LOG_FILE", "DATABASE_URL", "XRD_ALLOWED_ORIGINS", "XRD_MAX_SAMPLES"} {
		// Setenv restores the old value on cleanup; godotenv skips keys that
		// are present even when empty, so unset them outright.
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":5004" || cfg.LogLevel != "info" || cfg.MaxSamples != 200000 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.RequestTimeout != 30*time.Second || cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("timeouts = %v / %v", cfg.RequestTimeout, cfg.ShutdownTimeout)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.Workers != runtime.NumCPU() || cfg.RateLimit != 5 || cfg.RateBurst != 10 {
		t.Errorf("workers/rate = %d %v %d", cfg.Workers, cfg.RateLimit, cfg.RateBurst)
	}
}

func TestLoadYAMLAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := `addr: ":9000"
request_timeout: 2s
allowed_origins: ["https://lab.example"]
max_samples: 5000
workers: 3
log_level: debug
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	envPath := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envPath, []byte("XRD_LOG_FILE=xrd.log\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XRD_ADDR", ":7000")
	t.Setenv("XRD_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("XRD_MAX_SAMPLES", "1234")

	cfg, err := Load(path, envPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("addr = %q, env should win", cfg.Addr)
	}
	if cfg.RequestTimeout != 2*time.Second || cfg.Workers != 3 || cfg.LogLevel != "debug" {
		t.Errorf("yaml values lost: %+v", cfg)
	}
	if cfg.MaxSamples != 1234 {
		t.Errorf("max samples = %d", cfg.MaxSamples)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.LogFile != "xrd.log" {
		t.Errorf("log file = %q, want value from env file", cfg.LogFile)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("addr: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad, filepath.Join(dir, "none.env")); err == nil {
		t.Error("expected YAML parse error")
	}

	t.Setenv("XRD_MAX_SAMPLES", "lots")
	if _, err := Load("", filepath.Join(dir, "none.env")); err == nil {
		t.Error("expected XRD_MAX_SAMPLES error")
	}
}
