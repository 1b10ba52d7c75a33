package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Auth      AuthConfig      `yaml:"auth" envconfig:"AUTH"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
	Feeds     FeedsConfig     `yaml:"feeds" envconfig:"FEEDS"`
	Sheets    SheetsConfig    `yaml:"sheets" envconfig:"SHEETS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port             int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout      time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout     time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout      time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes   int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	OperationTimeout time.Duration `yaml:"operation_timeout" envconfig:"OPERATION_TIMEOUT" default:"2h"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// AuthConfig contains session authentication configuration.
// UsersFile points at a YAML file of username to bcrypt hash entries.
type AuthConfig struct {
	Enabled    bool          `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	UsersFile  string        `yaml:"users_file" envconfig:"USERS_FILE" default:"users.yaml"`
	SessionTTL time.Duration `yaml:"session_ttl" envconfig:"SESSION_TTL" default:"24h"`
	CookieName string        `yaml:"cookie_name" envconfig:"COOKIE_NAME" default:"pitchpulse_session"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format      string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT" default:"true"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	ExecutableDir string `yaml:"executable_dir" envconfig:"EXECUTABLE_DIR"`
	DataDir       string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	WebDir        string `yaml:"web_dir" envconfig:"WEB_DIR" default:"web"`
	LogsDir       string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" default:"1024"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" default:"1024"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD" default:"30s"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT" default:"60s"`
}

// FeedsConfig contains soccer data feed client configuration
type FeedsConfig struct {
	BaseURL        string        `yaml:"base_url" envconfig:"BASE_URL" default:"https://api.performfeeds.com"`
	PortalURL      string        `yaml:"portal_url" envconfig:"PORTAL_URL" default:"https://www.scoresway.com"`
	OutletKey      string        `yaml:"outlet_key" envconfig:"OUTLET_KEY"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
	RequestsPerSec float64       `yaml:"requests_per_sec" envconfig:"REQUESTS_PER_SEC" default:"2"`
	MaxRetries     int           `yaml:"max_retries" envconfig:"MAX_RETRIES" default:"5"`
	RetryBackoff   time.Duration `yaml:"retry_backoff" envconfig:"RETRY_BACKOFF" default:"1s"`
}

// SheetsConfig contains Google Sheets publishing configuration
type SheetsConfig struct {
	Enabled         bool   `yaml:"enabled" envconfig:"ENABLED" default:"false"`
	CredentialsFile string `yaml:"credentials_file" envconfig:"CREDENTIALS_FILE" default:"credentials.json"`
	SpreadsheetID   string `yaml:"spreadsheet_id" envconfig:"SPREADSHEET_ID"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Environment variables win over the config file
	if err := envconfig.Process("PITCHPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.resolvePaths(); err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := cfg.ValidatePaths(); err != nil {
		return nil, fmt.Errorf("path validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Feeds.OutletKey == "" {
		envConfig.Feeds.OutletKey = fileConfig.Feeds.OutletKey
	}
	if envConfig.Sheets.SpreadsheetID == "" {
		envConfig.Sheets.SpreadsheetID = fileConfig.Sheets.SpreadsheetID
	}
	if envConfig.Auth.UsersFile == "" {
		envConfig.Auth.UsersFile = fileConfig.Auth.UsersFile
	}

	return envConfig
}

// resolvePaths sets up the executable directory
func (c *Config) resolvePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	c.Paths.ExecutableDir = paths.ExecutableDir

	return nil
}

// ValidatePaths validates that critical paths exist or can be created
func (c *Config) ValidatePaths() error {
	paths, err := GetPaths()
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	paths.LogPathResolution()

	return nil
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Feeds.RequestsPerSec <= 0 {
		return fmt.Errorf("feeds requests per second must be positive")
	}

	if c.Feeds.MaxRetries < 0 {
		return fmt.Errorf("feeds max retries must not be negative")
	}

	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}

	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "console" {
		c.Logging.Output = "both"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Auth: AuthConfig{
			Enabled:    true,
			UsersFile:  "users.yaml",
			SessionTTL: 24 * time.Hour,
			CookieName: "pitchpulse_session",
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			Output:      "both",
			FilePath:    "logs/app.log",
			Development: true,
		},
		Paths: PathsConfig{
			DataDir: "data",
			WebDir:  "web",
			LogsDir: "logs",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
		},
		Feeds: FeedsConfig{
			BaseURL:        "https://api.performfeeds.com",
			PortalURL:      "https://www.scoresway.com",
			RequestTimeout: 30 * time.Second,
			RequestsPerSec: 2,
			MaxRetries:     5,
			RetryBackoff:   time.Second,
		},
		Sheets: SheetsConfig{
			CredentialsFile: "credentials.json",
		},
	}
}
