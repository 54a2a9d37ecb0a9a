package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type FrontendConfig struct {
	Node string `mapstructure:"node"` // node binary for the compiler driver
	Dir  string `mapstructure:"dir"`  // directory whose node_modules provides typescript
}

type SandboxConfig struct {
	Image       string `mapstructure:"image"`
	MaxMemory   string `mapstructure:"max_memory"`
	Timeout     string `mapstructure:"timeout"`
	ProfilesDir string `mapstructure:"profiles_dir"`
	Profile     string `mapstructure:"profile"` // default runtime profile name
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Frontend FrontendConfig `mapstructure:"frontend"`
	Sandbox  SandboxConfig  `mapstructure:"sandbox"`
}

// Load reads workert.yaml from the working directory or ~/.workert. A missing
// config file is fine; every setting has a default.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("workert")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.workert")

	v.SetDefault("server.port", 8080)
	v.SetDefault("frontend.node", "node")
	v.SetDefault("frontend.dir", ".")
	v.SetDefault("sandbox.image", "node:22-slim")
	v.SetDefault("sandbox.max_memory", "256m")
	v.SetDefault("sandbox.timeout", "30s")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// SandboxTimeout parses the configured sandbox timeout.
func (c *Config) SandboxTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Sandbox.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid sandbox.timeout %q: %w", c.Sandbox.Timeout, err)
	}
	return d, nil
}
