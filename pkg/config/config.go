package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// API settings
	APIHost string `mapstructure:"api_host"`
	APIPort int    `mapstructure:"api_port"`

	// Optional SSL settings
	SSLCert string `mapstructure:"ssl_cert"`
	SSLKey  string `mapstructure:"ssl_key"`

	// Optional CORS settings
	CORSOrigins []string `mapstructure:"cors_origins"`

	DBPath string `mapstructure:"db_path"`

	// Logging settings
	LogDir       string `mapstructure:"log_dir"`
	LogLevel     string `mapstructure:"log_level"`
	LogToConsole bool   `mapstructure:"log_to_console"`

	MetricsEnabled bool `mapstructure:"metrics_enabled"`

	Validation ValidationConfig `mapstructure:"validation"`

	ConfigPath string
}

type ValidationConfig struct {
	Strictness    string `mapstructure:"strictness"` // "basic" or "strict"
	NameMinLength int    `mapstructure:"name_min_length"`
}

const (
	DefaultConfigPath = "/etc/clientreg/config.yml"
	DefaultAPIHost    = "0.0.0.0"
	DefaultAPIPort    = 3000
	DefaultDBPath     = "clientreg.sqlite3"
	DefaultLogDir     = "logs"
	DefaultLogLevel   = "info"
	DefaultStrictness = "basic"
)

// Load reads configPath (the default path when empty) and applies
// CLIENTREG_* environment overrides. A missing file is not an error; the
// defaults plus environment then make up the whole configuration.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("api_host", DefaultAPIHost)
	v.SetDefault("api_port", DefaultAPIPort)
	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("log_dir", DefaultLogDir)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_to_console", true)
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("ssl_cert", "")
	v.SetDefault("ssl_key", "")
	v.SetDefault("validation.strictness", DefaultStrictness)
	v.SetDefault("validation.name_min_length", 0)

	v.SetEnvPrefix("CLIENTREG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ConfigPath = configPath

	// PORT is what the hosting platform sets; it wins over the file but not
	// over an explicit CLIENTREG_API_PORT.
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CLIENTREG_API_PORT") == "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.APIPort = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("api_port must be between 1 and 65535, got %d", c.APIPort)
	}

	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}

	switch c.Validation.Strictness {
	case "basic", "strict":
	default:
		return fmt.Errorf("validation.strictness must be 'basic' or 'strict'")
	}

	if c.Validation.NameMinLength < 0 {
		return fmt.Errorf("validation.name_min_length must not be negative")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}

	// Validate SSL config if provided
	if c.SSLCert != "" || c.SSLKey != "" {
		if c.SSLCert == "" || c.SSLKey == "" {
			return fmt.Errorf("both ssl_cert and ssl_key must be provided")
		}
		if _, err := os.Stat(c.SSLCert); os.IsNotExist(err) {
			return fmt.Errorf("ssl_cert file does not exist: %s", c.SSLCert)
		}
		if _, err := os.Stat(c.SSLKey); os.IsNotExist(err) {
			return fmt.Errorf("ssl_key file does not exist: %s", c.SSLKey)
		}
	}

	return nil
}

func (c *Config) IsDevMode() bool {
	return os.Getenv("CLIENTREG_DEV_MODE") == "1"
}
