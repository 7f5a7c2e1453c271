// Package internal holds the application configuration shared by all
// commands. Configuration is an explicit struct loaded from YAML (with
// environment expansion), not ambient environment state.
package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Docs   DocsConfig        `yaml:"docs"`
	Remote RemoteConfig      `yaml:"remote"`
	State  StateConfig       `yaml:"state"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Docs.Validate(); err != nil {
		return err
	}
	if err := c.Remote.Validate(); err != nil {
		return err
	}
	return c.State.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return nil
}

// DocsConfig holds the path to the local documentation directory.
type DocsConfig struct {
	Dir string `yaml:"dir"`
}

// Validate validates the docs configuration.
func (c *DocsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// RemoteConfig holds the documentation hosting API settings. BaseURL and
// APIKey may stay empty for commands that never touch the network
// (markdownize, validate without URL probing); fetch and push require
// them via RequireCredentials.
type RemoteConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-request timeout.
func (c *RemoteConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate validates the remote configuration.
func (c *RemoteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, is.URL),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1), validation.Max(300)),
	)
}

// RequireCredentials fails when the remote API is not configured.
func (c *RemoteConfig) RequireCredentials() error {
	if c.BaseURL == "" {
		return fmt.Errorf("remote: base_url is not configured")
	}
	if c.APIKey == "" {
		return fmt.Errorf("remote: api_key is not configured")
	}
	return nil
}

// StateConfig holds the sync-state SQLite database location.
type StateConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the state configuration.
func (c *StateConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Docs: DocsConfig{
			Dir: "./docs",
		},
		Remote: RemoteConfig{
			TimeoutSeconds: 10,
		},
		State: StateConfig{
			Path: "./mdsync.db",
		},
	}
}
