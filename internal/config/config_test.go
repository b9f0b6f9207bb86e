package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("taxdoc-binder", pflag.ContinueOnError)
	DefineFlags(fs, DefaultConfig())
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed to parse flags: %v", err)
	}
	return fs
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Mode != "stdio" {
		t.Errorf("Expected default mode to be 'stdio', got '%s'", cfg.Mode)
	}
	if cfg.Port != 8080 {
		t.Errorf("Expected default port to be 8080, got %d", cfg.Port)
	}
	if cfg.ServerName != "taxdoc-binder" {
		t.Errorf("Expected default server name to be 'taxdoc-binder', got '%s'", cfg.ServerName)
	}
	if cfg.OCRThreshold != 50 {
		t.Errorf("Expected default OCR threshold to be 50, got %d", cfg.OCRThreshold)
	}
	if cfg.OCRLanguage != "eng" || cfg.OCRDPI != 300 {
		t.Errorf("Expected eng@300, got %s@%d", cfg.OCRLanguage, cfg.OCRDPI)
	}
	if cfg.Cache != CacheNone {
		t.Errorf("Expected cache to be disabled by default, got '%s'", cfg.Cache)
	}
	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	currentDir, _ := os.Getwd()
	if cfg.InputDirectory != currentDir {
		t.Errorf("Expected default input directory to be '%s', got '%s'", currentDir, cfg.InputDirectory)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid stdio", func(c *Config) {}, ""},
		{"valid server", func(c *Config) { c.Mode = ModeServer }, ""},
		{"invalid mode", func(c *Config) { c.Mode = "http" }, "mode must be"},
		{"bad port in server mode", func(c *Config) { c.Mode = ModeServer; c.Port = 0 }, "port must be"},
		{"bad port ignored in stdio mode", func(c *Config) { c.Port = 0 }, ""},
		{"zero max file size", func(c *Config) { c.MaxFileSize = 0 }, "maximum file size"},
		{"no workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"negative threshold", func(c *Config) { c.OCRThreshold = -1 }, "threshold"},
		{"dpi too low", func(c *Config) { c.OCRDPI = 10 }, "DPI"},
		{"empty language", func(c *Config) { c.OCRLanguage = "" }, "language"},
		{"negative timeout", func(c *Config) { c.PageTimeout = -time.Second }, "timeout"},
		{"unknown cache", func(c *Config) { c.Cache = "redis" }, "invalid cache"},
		{"sqlite without path", func(c *Config) { c.Cache = CacheSQLite; c.CachePath = "" }, "cache path"},
		{"memory without size", func(c *Config) { c.Cache = CacheMemory; c.CacheSize = 0 }, "cache size"},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newFlags(t))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Mode != ModeStdio {
		t.Errorf("Load() Mode = %v, want %v", cfg.Mode, ModeStdio)
	}
	if cfg.PageTimeout != DefaultPageTimeout {
		t.Errorf("Load() PageTimeout = %v, want %v", cfg.PageTimeout, DefaultPageTimeout)
	}
	if !filepath.IsAbs(cfg.InputDirectory) {
		t.Errorf("Load() InputDirectory should be absolute, got %s", cfg.InputDirectory)
	}
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load(newFlags(t,
		"--mode=server", "--port=9090", "--workers=8",
		"--ocr-threshold=80", "--page-timeout=5s",
		"--cache=memory", "--cache-size=10",
		"--log-level=DEBUG", "--log-format=json",
	))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Mode != ModeServer || cfg.Port != 9090 {
		t.Errorf("Load() server = %s:%d, want server:9090", cfg.Mode, cfg.Port)
	}
	if cfg.Workers != 8 || cfg.OCRThreshold != 80 {
		t.Errorf("Load() workers/threshold = %d/%d, want 8/80", cfg.Workers, cfg.OCRThreshold)
	}
	if cfg.PageTimeout != 5*time.Second {
		t.Errorf("Load() PageTimeout = %v, want 5s", cfg.PageTimeout)
	}
	if cfg.Cache != CacheMemory || cfg.CacheSize != 10 {
		t.Errorf("Load() cache = %s/%d, want memory/10", cfg.Cache, cfg.CacheSize)
	}
	if !cfg.IsDebug() || cfg.LogFormat != FormatJSON {
		t.Errorf("Load() logging = %s/%s, want debug/json", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("TAXDOC_WORKERS", "3")
	t.Setenv("TAXDOC_OCR_LANGUAGE", "deu")

	cfg, err := Load(newFlags(t))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Workers != 3 {
		t.Errorf("Load() Workers = %d, want 3", cfg.Workers)
	}
	if cfg.OCRLanguage != "deu" {
		t.Errorf("Load() OCRLanguage = %s, want deu", cfg.OCRLanguage)
	}

	// flags win over the environment
	cfg, err = Load(newFlags(t, "--workers=6"))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Workers != 6 {
		t.Errorf("Load() Workers = %d, want 6", cfg.Workers)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxdoc.yaml")
	content := "workers: 2\ncache: sqlite\ncache-path: /tmp/taxdoc-test.db\nlog-level: warn\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(newFlags(t, "--config="+path))
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Workers != 2 || cfg.Cache != CacheSQLite || cfg.LogLevel != "warn" {
		t.Errorf("Load() = %s, want values from file", cfg)
	}
	if cfg.CachePath != "/tmp/taxdoc-test.db" {
		t.Errorf("Load() CachePath = %s", cfg.CachePath)
	}

	if _, err := Load(newFlags(t, "--config="+filepath.Join(t.TempDir(), "missing.yaml"))); err == nil {
		t.Error("Load() expected error for missing config file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(newFlags(t, "--cache=redis"))
	if err == nil {
		t.Fatal("Load() expected error for invalid cache")
	}
	if !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("Load() error = %v", err)
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := &Config{Host: "0.0.0.0", Port: 8081}
	if got := cfg.Address(); got != "0.0.0.0:8081" {
		t.Errorf("Address() = %s, want 0.0.0.0:8081", got)
	}
}

func TestConfigModes(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.IsStdioMode() || cfg.IsServerMode() {
		t.Error("default config should be stdio mode")
	}
	cfg.Mode = ModeServer
	if cfg.IsStdioMode() || !cfg.IsServerMode() {
		t.Error("expected server mode")
	}
}

func TestConfigString(t *testing.T) {
	s := DefaultConfig().String()
	for _, want := range []string{"Mode: stdio", "eng@300dpi<50", "Cache: none", "LogFormat: console"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %s, missing %q", s, want)
		}
	}
}
