package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Proxmox ProxmoxConfig `mapstructure:"proxmox" validate:"required"`
	Waits   WaitConfig    `mapstructure:"waits" validate:"required"`
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Logging LoggingConfig `mapstructure:"logging" validate:"required"`
}

// ProxmoxConfig contains the ambient connection defaults for the target
// Proxmox VE node. Per-call connection overrides take precedence over
// these values.
type ProxmoxConfig struct {
	Host               string           `mapstructure:"host" validate:"required" example:"pve1.example.com"`
	Node               string           `mapstructure:"node" validate:"required" example:"pve1"`
	APIPort            int              `mapstructure:"api_port" validate:"min=1,max=65535" example:"8006"`
	Credential         CredentialConfig `mapstructure:"credential" validate:"required"`
	InsecureSkipVerify bool             `mapstructure:"insecure_skip_verify" example:"false"`
	RequestTimeout     time.Duration    `mapstructure:"request_timeout" validate:"required" example:"60s"`
}

// CredentialConfig names the secret holding the API token. The token value
// itself never appears in configuration files when source is env or file.
type CredentialConfig struct {
	Source string `mapstructure:"source" validate:"required,oneof=static env file" example:"env"`
	Value  string `mapstructure:"value" example:"root@pam!pipeline=00000000-0000-0000-0000-000000000000"`
	EnvVar string `mapstructure:"env_var" example:"PVE_API_TOKEN"`
	Path   string `mapstructure:"path" example:"/run/secrets/pve-api-token"`
}

// WaitConfig contains the default wait and retry budgets for VM and
// snapshot operations. Every value can be overridden per call.
type WaitConfig struct {
	BootWait         time.Duration `mapstructure:"boot_wait" validate:"required" example:"30s"`
	StopWait         time.Duration `mapstructure:"stop_wait" validate:"required" example:"5s"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout" validate:"required" example:"300s"`
	SnapshotAttempts int           `mapstructure:"snapshot_attempts" validate:"min=1" example:"24"`
	SnapshotInterval time.Duration `mapstructure:"snapshot_interval" validate:"required" example:"5s"`
	RestorePause     time.Duration `mapstructure:"restore_pause" validate:"required" example:"5s"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port" validate:"min=1,max=65535" example:"8080"`
	Host         string        `mapstructure:"host" example:"0.0.0.0"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" validate:"required" example:"10s"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"required" example:"10m"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout" validate:"required" example:"60s"`
	EnableCORS   bool          `mapstructure:"enable_cors" example:"true"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `mapstructure:"level" validate:"required,oneof=debug info warn error" example:"info"`
	Format   string `mapstructure:"format" validate:"required,oneof=json text" example:"json"`
	Output   string `mapstructure:"output" validate:"required,oneof=stdout stderr file" example:"stdout"`
	FilePath string `mapstructure:"file_path" example:"/var/log/pve-pipeline-ops.log"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Proxmox: ProxmoxConfig{
			APIPort:            8006,
			InsecureSkipVerify: false,
			RequestTimeout:     60 * time.Second,
			Credential: CredentialConfig{
				Source: "env",
				EnvVar: "PVE_API_TOKEN",
			},
		},
		Waits: WaitConfig{
			BootWait:         30 * time.Second,
			StopWait:         5 * time.Second,
			ShutdownTimeout:  300 * time.Second,
			SnapshotAttempts: 24,
			SnapshotInterval: 5 * time.Second,
			RestorePause:     5 * time.Second,
		},
		Server: ServerConfig{
			Port:        8080,
			Host:        "0.0.0.0",
			ReadTimeout: 30 * time.Second,
			// Shutdown and snapshot-verify requests block for their whole
			// polling budget, so the write timeout covers the worst case.
			WriteTimeout: 10 * time.Minute,
			IdleTimeout:  120 * time.Second,
			EnableCORS:   true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// Load loads configuration from multiple sources with the following precedence:
// 1. Environment variables (highest)
// 2. Configuration file
// 3. Default values (lowest)
func Load(configFile string) (*Config, error) {
	// Start with default configuration
	config := DefaultConfig()

	// Initialize viper
	v := viper.New()

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// Search for config file in multiple locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/pve-pipeline-ops/")
		v.AddConfigPath("$HOME/.pve-pipeline-ops/")
	}

	// Enable environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("PVEOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Read configuration file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, continue with defaults and env vars
	}

	// Unmarshal configuration
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration using struct tags
func ValidateConfig(config *Config) error {
	validate := validator.New()

	if err := validate.Struct(config); err != nil {
		return err
	}

	// Additional custom validations
	if err := validateProxmoxConfig(&config.Proxmox); err != nil {
		return fmt.Errorf("proxmox config validation failed: %w", err)
	}

	if err := validateWaitConfig(&config.Waits); err != nil {
		return fmt.Errorf("waits config validation failed: %w", err)
	}

	if err := validateLoggingConfig(&config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	return nil
}

// validateProxmoxConfig performs additional validation for the Proxmox configuration
func validateProxmoxConfig(config *ProxmoxConfig) error {
	if config.Host == "" {
		return fmt.Errorf("host is required")
	}

	if config.Node == "" {
		return fmt.Errorf("node is required")
	}

	if config.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	switch config.Credential.Source {
	case "static":
		if config.Credential.Value == "" {
			return fmt.Errorf("credential value is required when source is 'static'")
		}
	case "env":
		if config.Credential.EnvVar == "" {
			return fmt.Errorf("credential env_var is required when source is 'env'")
		}
	case "file":
		if config.Credential.Path == "" {
			return fmt.Errorf("credential path is required when source is 'file'")
		}
		if _, err := os.Stat(config.Credential.Path); os.IsNotExist(err) {
			return fmt.Errorf("credential file does not exist: %s", config.Credential.Path)
		}
	default:
		return fmt.Errorf("unsupported credential source: %s", config.Credential.Source)
	}

	return nil
}

// validateWaitConfig performs additional validation for the wait configuration
func validateWaitConfig(config *WaitConfig) error {
	if config.SnapshotAttempts < 1 {
		return fmt.Errorf("snapshot_attempts must be at least 1")
	}

	if config.SnapshotInterval <= 0 {
		return fmt.Errorf("snapshot_interval must be positive")
	}

	if config.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}

	return nil
}

// validateLoggingConfig performs additional validation for logging configuration
func validateLoggingConfig(config *LoggingConfig) error {
	if config.Output == "file" && config.FilePath == "" {
		return fmt.Errorf("file_path is required when output is set to 'file'")
	}

	return nil
}

// GetAddress returns the server address in host:port format
func (c *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
