package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Mode constants
	ModeStdio  = "stdio"
	ModeServer = "server"

	// PDF backends
	BackendLayout = "layout"
	BackendText   = "text"

	// Default values
	DefaultPort        = 8080
	DefaultHost        = "127.0.0.1"
	DefaultLogLevel    = "info"
	DefaultBackend     = BackendLayout
	DefaultWorkers     = 1
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750

	// EnvPrefix prefixes every environment variable
	EnvPrefix = "SPEC_SCANNER"
)

// ErrVersionRequested is returned by LoadFromFlags when --version is given
var ErrVersionRequested = errors.New("version requested")

// Config holds the configuration of the scanner CLI and the MCP server
type Config struct {
	// MCP server configuration
	Mode string // "server" or "stdio"
	Host string
	Port int

	// Document directory, also the confinement root of the MCP tools
	Directory string

	// Extraction configuration
	Backend        string // PDF backend, "layout" or "text"
	Workers        int
	Extensions     []string
	PreserveLines  bool
	ValidateSchema bool
	Echo           bool

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	MaxFileSize int64 // Maximum document size in bytes

	// Args holds the positional arguments left after flag parsing
	Args []string
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		Mode:          ModeStdio,
		Host:          DefaultHost,
		Port:          DefaultPort,
		Directory:     currentDir,
		Backend:       DefaultBackend,
		Workers:       DefaultWorkers,
		Extensions:    []string{".pdf"},
		PreserveLines: true,
		Echo:          true,
		Version:       "1.0.0",
		ServerName:    "mcp-pdf-spec",
		LogLevel:      DefaultLogLevel,
		MaxFileSize:   DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and environment variables and
// returns a validated configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)
	cfg.Args = pflag.Args()

	if cfg.Directory != "" {
		if expandedPath, err := filepath.Abs(cfg.Directory); err == nil {
			cfg.Directory = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("host", cfg.Host)
	viper.SetDefault("port", cfg.Port)
	viper.SetDefault("dir", cfg.Directory)
	viper.SetDefault("backend", cfg.Backend)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("extensions", cfg.Extensions)
	viper.SetDefault("preserve_lines", cfg.PreserveLines)
	viper.SetDefault("validate_schema", cfg.ValidateSchema)
	viper.SetDefault("echo", cfg.Echo)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "MCP server mode: 'stdio' for standard I/O, 'server' for HTTP (SSE)")
	pflag.String("host", cfg.Host, "Server host address (server mode only)")
	pflag.Int("port", cfg.Port, "Server port (server mode only)")
	pflag.String("dir", cfg.Directory, "Document directory")
	pflag.String("backend", cfg.Backend, "PDF backend (layout, text)")
	pflag.Int("workers", cfg.Workers, "Number of documents processed in parallel")
	pflag.StringSlice("extensions", cfg.Extensions, "Document extensions processed in directory mode")
	pflag.Bool("preserve-lines", cfg.PreserveLines, "Keep line structure while normalizing text")
	pflag.Bool("validate-schema", cfg.ValidateSchema, "Validate mapped records against the record schema")
	pflag.Bool("echo", cfg.Echo, "Echo each record as JSON on stdout")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum document size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	_ = viper.BindPFlag("mode", pflag.Lookup("mode"))
	_ = viper.BindPFlag("host", pflag.Lookup("host"))
	_ = viper.BindPFlag("port", pflag.Lookup("port"))
	_ = viper.BindPFlag("dir", pflag.Lookup("dir"))
	_ = viper.BindPFlag("backend", pflag.Lookup("backend"))
	_ = viper.BindPFlag("workers", pflag.Lookup("workers"))
	_ = viper.BindPFlag("extensions", pflag.Lookup("extensions"))
	_ = viper.BindPFlag("preserve_lines", pflag.Lookup("preserve-lines"))
	_ = viper.BindPFlag("validate_schema", pflag.Lookup("validate-schema"))
	_ = viper.BindPFlag("echo", pflag.Lookup("echo"))
	_ = viper.BindPFlag("loglevel", pflag.Lookup("loglevel"))
	_ = viper.BindPFlag("maxfilesize", pflag.Lookup("maxfilesize"))
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nExtracts structured product data from specification sheets\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pdf-spec-scanner sheet.pdf                          # one document\n")
		fmt.Fprintf(os.Stderr, "  pdf-spec-scanner --workers=4 ./sheets               # every PDF of a directory\n")
		fmt.Fprintf(os.Stderr, "  pdf-spec-scanner --extensions=.pdf,.xlsx ./sheets   # PDFs and spreadsheets\n")
		fmt.Fprintf(os.Stderr, "  mcp-pdf-spec --dir=/path/to/sheets                  # MCP over stdio\n")
		fmt.Fprintf(os.Stderr, "  mcp-pdf-spec --mode=server --port=8081              # MCP over HTTP\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		for _, key := range []string{
			"mode", "host", "port", "dir", "backend", "workers", "extensions",
			"preserve_lines", "validate_schema", "echo", "loglevel", "maxfilesize",
		} {
			fmt.Fprintf(os.Stderr, "  %s_%s\n", EnvPrefix, strings.ToUpper(key))
		}
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if IsVersionArg(arg) {
			return ErrVersionRequested
		}
	}
	return nil
}

// IsVersionArg reports whether a command line argument asks for the version
func IsVersionArg(arg string) bool {
	return arg == "-version" || arg == "--version" || arg == "-v"
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.Host = viper.GetString("host")
	cfg.Port = viper.GetInt("port")
	cfg.Directory = viper.GetString("dir")
	cfg.Backend = viper.GetString("backend")
	cfg.Workers = viper.GetInt("workers")
	cfg.Extensions = splitList(viper.Get("extensions"))
	cfg.PreserveLines = viper.GetBool("preserve_lines")
	cfg.ValidateSchema = viper.GetBool("validate_schema")
	cfg.Echo = viper.GetBool("echo")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// splitList accepts a string slice from flags or a comma separated string
// from the environment
func splitList(value interface{}) []string {
	var parts []string
	switch v := value.(type) {
	case []string:
		parts = v
	case string:
		parts = strings.Split(v, ",")
	case []interface{}:
		for _, item := range v {
			parts = append(parts, fmt.Sprint(item))
		}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Mode != ModeStdio && c.Mode != ModeServer {
		return errors.New("mode must be either 'stdio' or 'server'")
	}

	if c.Mode == ModeServer && (c.Port < 1 || c.Port > 65535) {
		return errors.New("port must be between 1 and 65535")
	}

	if c.Directory == "" {
		return errors.New("document directory cannot be empty")
	}

	if _, err := os.Stat(c.Directory); os.IsNotExist(err) {
		if err := os.MkdirAll(c.Directory, DefaultDirPerm); err != nil {
			return fmt.Errorf("cannot create document directory %s: %w", c.Directory, err)
		}
	} else if err != nil {
		return fmt.Errorf("cannot access document directory %s: %w", c.Directory, err)
	}

	if c.Backend != BackendLayout && c.Backend != BackendText {
		return fmt.Errorf("invalid backend: %s (must be one of: layout, text)", c.Backend)
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}

	if len(c.Extensions) == 0 {
		return errors.New("at least one document extension is required")
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	if _, ok := logLevels[c.LogLevel]; !ok {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// SlogLevel returns the configured log level, info when unknown
func (c *Config) SlogLevel() slog.Level {
	if level, ok := logLevels[c.LogLevel]; ok {
		return level
	}
	return slog.LevelInfo
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
	return fmt.Sprintf("Config{Mode: %s, Host: %s, Port: %d, Directory: %s, Backend: %s, Workers: %d, "+
		"Extensions: %v, PreserveLines: %t, ValidateSchema: %t, Echo: %t, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.Host, c.Port, c.Directory, c.Backend, c.Workers,
		c.Extensions, c.PreserveLines, c.ValidateSchema, c.Echo, c.LogLevel, c.MaxFileSize)
}

// IsServerMode returns true if the MCP server runs over HTTP
func (c *Config) IsServerMode() bool {
	return c.Mode == ModeServer
}

// IsStdioMode returns true if the MCP server runs over standard I/O
func (c *Config) IsStdioMode() bool {
	return c.Mode == ModeStdio
}
