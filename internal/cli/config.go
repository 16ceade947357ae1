package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/example/plant-shop/internal/shopapi"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is looked up in the user's home directory.
	ConfigFileName = ".shopctl.yaml"
	// EnvAPIURL overrides the configured API URL.
	EnvAPIURL = "SHOPCTL_API_URL"
)

// Config is the content of the shopctl configuration file.
//
//	api_url: http://localhost:8080/api/
//	timeout: 30s   # optional; requests never time out when unset
//	placeholders:
//	  - https://images.example.com/plant-1.jpg
type Config struct {
	APIURL       string   `yaml:"api_url"`
	Timeout      string   `yaml:"timeout"`
	Placeholders []string `yaml:"placeholders"`
}

// DefaultConfigPath returns $HOME/.shopctl.yaml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ConfigFileName)
}

// LoadConfig reads the file at path. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if cfg.APIURL == "" {
		cfg.APIURL = shopapi.DefaultBaseURL
	}
	if _, err := cfg.timeout(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv lets SHOPCTL_API_URL override the file.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	}
}

func (c *Config) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", c.Timeout)
	}
	return d, nil
}
