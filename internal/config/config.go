package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// Log formats
	FormatConsole = "console"
	FormatJSON    = "json"

	// Cache kinds
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheSQLite = "sqlite"

	// Default values
	DefaultPort         = 8080
	DefaultHost         = "127.0.0.1"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = FormatConsole
	DefaultMaxFileSize  = 100 * 1024 * 1024 // 100MB
	DefaultOCRThreshold = 50
	DefaultOCRLanguage  = "eng"
	DefaultOCRDPI       = 300
	DefaultPageTimeout  = 60 * time.Second
	DefaultCacheSize    = 4096

	// EnvPrefix prefixes every environment variable, e.g. TAXDOC_WORKERS
	EnvPrefix = "TAXDOC"
)

// Config holds all configuration for the binder and its MCP server
type Config struct {
	// Server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Input configuration
	InputDirectory string
	MaxFileSize    int64 // Maximum input file size in bytes

	// Processing configuration
	Workers      int
	OCRThreshold int
	OCRLanguage  string
	OCRDPI       int
	PageTimeout  time.Duration

	// Text cache
	Cache     string
	CachePath string
	CacheSize int

	// Application configuration
	Version    string
	ServerName string
	LogLevel   string
	LogFormat  string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		cacheDir = os.TempDir()
	}

	return &Config{
		Mode:           ModeStdio,
		Host:           DefaultHost,
		Port:           DefaultPort,
		InputDirectory: currentDir,
		MaxFileSize:    DefaultMaxFileSize,
		Workers:        4,
		OCRThreshold:   DefaultOCRThreshold,
		OCRLanguage:    DefaultOCRLanguage,
		OCRDPI:         DefaultOCRDPI,
		PageTimeout:    DefaultPageTimeout,
		Cache:          CacheNone,
		CachePath:      filepath.Join(cacheDir, "taxdoc-binder", "text.db"),
		CacheSize:      DefaultCacheSize,
		Version:        "1.0.0",
		ServerName:     "taxdoc-binder",
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// DefineFlags registers every configuration flag on fs
func DefineFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.String("config", "", "Optional YAML configuration file")
	fs.String("mode", cfg.Mode, "MCP server mode: 'stdio' for standard I/O, 'server' for HTTP")
	fs.String("host", cfg.Host, "Server host address (server mode only)")
	fs.Int("port", cfg.Port, "Server port (server mode only)")
	fs.String("dir", cfg.InputDirectory, "Default input directory for MCP tools")
	fs.Int64("max-file-size", cfg.MaxFileSize, "Maximum input file size in bytes")
	fs.Int("workers", cfg.Workers, "Pages extracted in parallel")
	fs.Int("ocr-threshold", cfg.OCRThreshold, "Run OCR when the best text is shorter than this many characters")
	fs.String("ocr-language", cfg.OCRLanguage, "Tesseract language")
	fs.Int("ocr-dpi", cfg.OCRDPI, "Render resolution for OCR")
	fs.Duration("page-timeout", cfg.PageTimeout, "Time limit for one extraction backend on one page")
	fs.String("cache", cfg.Cache, "Page text cache: none, memory or sqlite")
	fs.String("cache-path", cfg.CachePath, "SQLite cache file")
	fs.Int("cache-size", cfg.CacheSize, "Pages kept by the memory cache")
	fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("log-format", cfg.LogFormat, "Log format (console, json)")
}

// keys maps viper keys to flag names
var keys = []string{
	"mode", "host", "port", "dir", "max-file-size", "workers",
	"ocr-threshold", "ocr-language", "ocr-dpi", "page-timeout",
	"cache", "cache-path", "cache-size", "log-level", "log-format",
}

// Load resolves the configuration from defaults, an optional config file,
// TAXDOC_* environment variables and the flags in fs, in increasing
// precedence.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	setupViperEnvironment(v, cfg)
	for _, k := range keys {
		if f := fs.Lookup(k); f != nil {
			_ = v.BindPFlag(k, f)
		}
	}

	if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	populateConfigFromViper(v, cfg)

	if cfg.InputDirectory != "" {
		if expandedPath, err := filepath.Abs(cfg.InputDirectory); err == nil {
			cfg.InputDirectory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", cfg.Mode)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("dir", cfg.InputDirectory)
	v.SetDefault("max-file-size", cfg.MaxFileSize)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("ocr-threshold", cfg.OCRThreshold)
	v.SetDefault("ocr-language", cfg.OCRLanguage)
	v.SetDefault("ocr-dpi", cfg.OCRDPI)
	v.SetDefault("page-timeout", cfg.PageTimeout)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("cache-path", cfg.CachePath)
	v.SetDefault("cache-size", cfg.CacheSize)
	v.SetDefault("log-level", cfg.LogLevel)
	v.SetDefault("log-format", cfg.LogFormat)
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Mode = v.GetString("mode")
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.InputDirectory = v.GetString("dir")
	cfg.MaxFileSize = v.GetInt64("max-file-size")
	cfg.Workers = v.GetInt("workers")
	cfg.OCRThreshold = v.GetInt("ocr-threshold")
	cfg.OCRLanguage = v.GetString("ocr-language")
	cfg.OCRDPI = v.GetInt("ocr-dpi")
	cfg.PageTimeout = v.GetDuration("page-timeout")
	cfg.Cache = v.GetString("cache")
	cfg.CachePath = v.GetString("cache-path")
	cfg.CacheSize = v.GetInt("cache-size")
	cfg.LogLevel = strings.ToLower(v.GetString("log-level"))
	cfg.LogFormat = strings.ToLower(v.GetString("log-format"))
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	// Port only matters when listening
	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if c.OCRThreshold < 0 {
		return errors.New("OCR threshold cannot be negative")
	}
	if c.OCRDPI < 72 || c.OCRDPI > 1200 {
		return fmt.Errorf("OCR DPI %d out of range (72-1200)", c.OCRDPI)
	}
	if c.OCRLanguage == "" {
		return errors.New("OCR language cannot be empty")
	}
	if c.PageTimeout < 0 {
		return errors.New("page timeout cannot be negative")
	}

	switch c.Cache {
	case CacheNone, CacheMemory:
	case CacheSQLite:
		if c.CachePath == "" {
			return errors.New("sqlite cache requires a cache path")
		}
	default:
		return fmt.Errorf("invalid cache: %s (must be one of: none, memory, sqlite)", c.Cache)
	}
	if c.Cache == CacheMemory && c.CacheSize < 1 {
		return errors.New("memory cache size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}
	if c.LogFormat != FormatConsole && c.LogFormat != FormatJSON {
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.LogFormat)
	}

	return nil
}

// Address returns the server address as host:port
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, InputDirectory: %s, Workers: %d, "+
		"OCR: %s@%ddpi<%d, PageTimeout: %s, Cache: %s, LogLevel: %s, LogFormat: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.InputDirectory, c.Workers,
		c.OCRLanguage, c.OCRDPI, c.OCRThreshold, c.PageTimeout, c.Cache, c.LogLevel, c.LogFormat, c.MaxFileSize)
}

// IsServerMode returns true if the MCP server listens over HTTP
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the MCP server speaks over standard I/O
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
