package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the portal
type Config struct {
	// Remote auth API configuration
	API APIConfig `mapstructure:"api"`

	// Local credential persistence configuration
	Credential CredentialConfig `mapstructure:"credential"`

	// Development stub server configuration
	StubServer StubServerConfig `mapstructure:"stub_server"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`
}

// APIConfig holds the remote auth API configuration
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	RequestTimeout int    `mapstructure:"request_timeout"`
}

// CredentialConfig holds credential storage configuration
type CredentialConfig struct {
	Path string `mapstructure:"path"`
}

// StubServerConfig holds the development auth backend configuration
type StubServerConfig struct {
	Host         string         `mapstructure:"host"`
	Port         int            `mapstructure:"port"`
	JWTSecret    string         `mapstructure:"jwt_secret"`
	TokenTTL     int            `mapstructure:"token_ttl"`
	ReadTimeout  int            `mapstructure:"read_timeout"`
	WriteTimeout int            `mapstructure:"write_timeout"`
	Database     DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig holds database configuration for the stub server registry
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/medvault")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Override with environment variables
	overrideWithEnv(&config)

	// Resolve the credential path against the home directory
	if config.Credential.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		config.Credential.Path = filepath.Join(home, ".medvault", "token")
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// API defaults; base URL points at the local stub server
	viper.SetDefault("api.base_url", "http://localhost:8080")
	viper.SetDefault("api.request_timeout", 10)

	// Stub server defaults
	viper.SetDefault("stub_server.host", "0.0.0.0")
	viper.SetDefault("stub_server.port", 8080)
	viper.SetDefault("stub_server.token_ttl", 86400) // 24 hours
	viper.SetDefault("stub_server.read_timeout", 30)
	viper.SetDefault("stub_server.write_timeout", 30)

	// Database defaults (stub server registry)
	viper.SetDefault("stub_server.database.port", 5432)
	viper.SetDefault("stub_server.database.name", "medvault")
	viper.SetDefault("stub_server.database.user", "medvault")
	viper.SetDefault("stub_server.database.ssl_mode", "disable")
	viper.SetDefault("stub_server.database.max_open_conns", 25)
	viper.SetDefault("stub_server.database.max_idle_conns", 5)
	viper.SetDefault("stub_server.database.conn_max_lifetime", 300)

	// Logging defaults
	viper.SetDefault("log_level", "info")
}

// overrideWithEnv overrides configuration with environment variables
func overrideWithEnv(config *Config) {
	if baseURL := os.Getenv("API_BASE_URL"); baseURL != "" {
		config.API.BaseURL = strings.TrimRight(baseURL, "/")
	}

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.StubServer.Port = p
		}
	}

	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		config.StubServer.JWTSecret = jwtSecret
	}

	if credPath := os.Getenv("CREDENTIAL_PATH"); credPath != "" {
		config.Credential.Path = credPath
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.LogLevel = logLevel
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}

	if config.API.RequestTimeout <= 0 {
		return fmt.Errorf("invalid API request timeout: %d", config.API.RequestTimeout)
	}

	if config.StubServer.Port <= 0 || config.StubServer.Port > 65535 {
		return fmt.Errorf("invalid stub server port: %d", config.StubServer.Port)
	}

	return nil
}
