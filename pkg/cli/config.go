// Package cli provides shared pieces for the cortexgo command line:
// the named-context config file, the styled interactive terminal, and
// request prefill loading.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config is the on-disk configuration: named contexts plus the one
// currently in use.
type Config struct {
	// CurrentContext is the name of the currently active context.
	CurrentContext string `yaml:"current_context,omitempty"`

	// Contexts maps context name to its credentials and endpoint.
	Contexts map[string]*Context `yaml:"contexts,omitempty"`

	// configPath is where the config was loaded from / saves to.
	configPath string
}

// Context holds the Cortex application credentials for one developer
// account, plus optional endpoint overrides.
type Context struct {
	Name string `yaml:"name"`

	// ClientID and ClientSecret come from the Emotiv developer portal.
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`

	// URL overrides the Cortex WebSocket endpoint (optional).
	URL string `yaml:"url,omitempty"`

	// Timeout is the call/warning timeout in seconds (optional).
	Timeout int `yaml:"timeout,omitempty"`
}

// LoadConfig reads the config file. A missing file yields an empty
// config bound to the same path, so Save creates it.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{configPath: path}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config back, creating the directory with restricted
// permissions; the file carries credentials.
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("config has no path")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Context returns the named context, or the current one when name is
// empty.
func (c *Config) Context(name string) (*Context, error) {
	if name == "" {
		name = c.CurrentContext
	}
	if name == "" {
		return nil, fmt.Errorf("no context selected; run `cortexgo configure` first")
	}
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

// SetContext adds or replaces a context and makes it current when no
// context was selected before.
func (c *Config) SetContext(ctx *Context) {
	if c.Contexts == nil {
		c.Contexts = make(map[string]*Context)
	}
	c.Contexts[ctx.Name] = ctx
	if c.CurrentContext == "" {
		c.CurrentContext = ctx.Name
	}
}

// Use selects the named context as current.
func (c *Config) Use(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return nil
}
