package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration shared by the demo
// server and the devloop supervisor.
type Config struct {
	Server     ServerConfig     `yaml:"server" envconfig:"SERVER"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Token      TokenConfig      `yaml:"token" envconfig:"TOKEN"`
	Supervisor SupervisorConfig `yaml:"supervisor" envconfig:"SUPERVISOR"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host string `yaml:"host" envconfig:"HOST"`
	Port int    `yaml:"port" envconfig:"PORT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`   // debug, info, warn, error
	Format string `yaml:"format" envconfig:"FORMAT"` // json, text
}

// TokenConfig contains the signing configuration for the demo token endpoints
type TokenConfig struct {
	Secret      string `yaml:"secret" envconfig:"SECRET"`
	ExpiryHours int    `yaml:"expiry_hours" envconfig:"EXPIRY_HOURS"`
	Issuer      string `yaml:"issuer" envconfig:"ISSUER"`
}

// SupervisorConfig contains the devloop supervisor configuration
type SupervisorConfig struct {
	// WorkDir is the directory the managed process and the install
	// command run in, and the directory descriptor paths resolve against.
	WorkDir string `yaml:"workdir" envconfig:"WORKDIR"`
	// Command is the managed server process, argv style.
	Command []string `yaml:"command" envconfig:"COMMAND"`
	// Descriptors are the dependency descriptor files watched for drift,
	// in fingerprint order.
	Descriptors []string `yaml:"descriptors" envconfig:"DESCRIPTORS"`
	// InstallCommand materializes dependencies from the descriptors.
	InstallCommand []string `yaml:"install_command" envconfig:"INSTALL_COMMAND"`
	// FingerprintFile persists the last-installed fingerprint, relative
	// to WorkDir unless absolute.
	FingerprintFile string `yaml:"fingerprint_file" envconfig:"FINGERPRINT_FILE"`

	TickSeconds           int `yaml:"tick_seconds" envconfig:"TICK_SECONDS"`
	RestartDelaySeconds   int `yaml:"restart_delay_seconds" envconfig:"RESTART_DELAY_SECONDS"`
	BootstrapAttempts     int `yaml:"bootstrap_attempts" envconfig:"BOOTSTRAP_ATTEMPTS"`
	BootstrapDelaySeconds int `yaml:"bootstrap_delay_seconds" envconfig:"BOOTSTRAP_DELAY_SECONDS"`
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Load from YAML file if provided (overrides defaults)
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// File doesn't exist, that's ok - we'll use defaults and env vars
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("DEMO", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible default values
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Token: TokenConfig{
			ExpiryHours: 24,
			Issuer:      "demo-backend",
		},
		Supervisor: SupervisorConfig{
			WorkDir:               ".",
			Command:               []string{"go", "run", "./cmd/server"},
			Descriptors:           []string{"go.mod", "go.sum"},
			InstallCommand:        []string{"go", "mod", "download"},
			FingerprintFile:       ".devloop-fingerprint",
			TickSeconds:           10,
			RestartDelaySeconds:   2,
			BootstrapAttempts:     12,
			BootstrapDelaySeconds: 5,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if len(c.Supervisor.Command) == 0 {
		return fmt.Errorf("supervisor command is required")
	}

	if len(c.Supervisor.Descriptors) == 0 {
		return fmt.Errorf("at least one descriptor file is required")
	}

	if len(c.Supervisor.InstallCommand) == 0 {
		return fmt.Errorf("supervisor install_command is required")
	}

	if c.Supervisor.TickSeconds < 1 {
		return fmt.Errorf("invalid tick_seconds: %d", c.Supervisor.TickSeconds)
	}

	if c.Supervisor.RestartDelaySeconds < 0 {
		return fmt.Errorf("invalid restart_delay_seconds: %d", c.Supervisor.RestartDelaySeconds)
	}

	if c.Supervisor.BootstrapAttempts < 1 {
		return fmt.Errorf("invalid bootstrap_attempts: %d", c.Supervisor.BootstrapAttempts)
	}

	return nil
}

// Address returns the server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Tick returns the watcher poll interval
func (c *SupervisorConfig) Tick() time.Duration {
	return time.Duration(c.TickSeconds) * time.Second
}

// RestartDelay returns the pause between a child exit and the respawn
func (c *SupervisorConfig) RestartDelay() time.Duration {
	return time.Duration(c.RestartDelaySeconds) * time.Second
}

// BootstrapDelay returns the pause between descriptor-wait attempts
func (c *SupervisorConfig) BootstrapDelay() time.Duration {
	return time.Duration(c.BootstrapDelaySeconds) * time.Second
}
