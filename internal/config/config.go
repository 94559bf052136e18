// Package config loads the optional server configuration file and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/fengqun/fq-weapp-ui-mcp/internal/catalog"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/credential"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/discovery"
	"github.com/fengqun/fq-weapp-ui-mcp/internal/gitlab"
)

// AppName names the configuration directory
const AppName = "fq-weapp-ui-mcp"

// Transport types
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// Environment overrides
const (
	EnvGitLabURL  = "FQUI_GITLAB_URL"
	EnvProjectID  = "FQUI_PROJECT_ID"
	EnvRef        = "FQUI_REF"
	EnvProjectDir = "FQUI_PROJECT_DIR"
)

// GitLabConfig locates the repository holding demos and sources
type GitLabConfig struct {
	BaseURL   string `yaml:"base_url" toml:"base_url"`
	ProjectID string `yaml:"project_id" toml:"project_id"`
	Ref       string `yaml:"ref" toml:"ref"`
	// TokenEnv is the environment variable holding the fallback token
	TokenEnv string `yaml:"token_env" toml:"token_env"`
}

// DiscoveryConfig tunes installed-package introspection
type DiscoveryConfig struct {
	ProjectDir      string `yaml:"project_dir" toml:"project_dir"`
	ComponentPrefix string `yaml:"component_prefix" toml:"component_prefix"`
}

// MappingsConfig adds or replaces component paths on top of the built-in tables
type MappingsConfig struct {
	Demo   map[string]string `yaml:"demo" toml:"demo"`
	Source map[string]string `yaml:"source" toml:"source"`
}

// ServerConfig selects the MCP transport
type ServerConfig struct {
	Transport  string `yaml:"transport" toml:"transport"`
	ListenAddr string `yaml:"listen_addr" toml:"listen_addr"`
}

// UpdateConfig points self-update at the release project
type UpdateConfig struct {
	// Repository is the GitLab project path, e.g. fe/fq-weapp-ui-mcp
	Repository string `yaml:"repository" toml:"repository"`
}

// Config holds the full server configuration
type Config struct {
	GitLab    GitLabConfig    `yaml:"gitlab" toml:"gitlab"`
	Discovery DiscoveryConfig `yaml:"discovery" toml:"discovery"`
	Mappings  MappingsConfig  `yaml:"mappings" toml:"mappings"`
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Update    UpdateConfig    `yaml:"update" toml:"update"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		GitLab: GitLabConfig{
			BaseURL:   gitlab.DefaultBaseURL,
			ProjectID: gitlab.DefaultProjectID,
			Ref:       gitlab.DefaultRef,
			TokenEnv:  credential.DefaultEnvVar,
		},
		Discovery: DiscoveryConfig{
			ComponentPrefix: discovery.DefaultPrefix,
		},
		Server: ServerConfig{
			Transport:  TransportStdio,
			ListenAddr: ":8090",
		},
		Update: UpdateConfig{
			Repository: "fe/fq-weapp-ui-mcp",
		},
	}
}

// Path returns the default configuration file location
func Path() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Load reads the configuration file at path on top of the defaults. An empty
// path selects Path(), where a missing file simply yields the defaults; a
// missing file that was named explicitly is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = Path()
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	if err := cfg.decodeFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, c); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q (use .yaml, .yml or .toml)", ext)
	}
	return nil
}

// ApplyEnv overrides file values with FQUI_* environment variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(EnvGitLabURL, &c.GitLab.BaseURL)
	set(EnvProjectID, &c.GitLab.ProjectID)
	set(EnvRef, &c.GitLab.Ref)
	set(EnvProjectDir, &c.Discovery.ProjectDir)
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.GitLab.BaseURL == "" {
		return fmt.Errorf("GitLab base URL is required")
	}

	parsedURL, err := url.Parse(c.GitLab.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid GitLab base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("invalid GitLab base URL %q: missing host", c.GitLab.BaseURL)
	}

	// Tokens travel in a header, so plain HTTP is only allowed for loopback
	if parsedURL.Scheme == "http" {
		hostname := parsedURL.Hostname()
		// Note: Hostname() strips brackets from IPv6 addresses, so [::1] becomes ::1
		if hostname != "localhost" && hostname != "127.0.0.1" && hostname != "::1" {
			return fmt.Errorf("HTTP GitLab URLs are only allowed for localhost/127.0.0.1/[::1], use HTTPS for other hosts")
		}
	} else if parsedURL.Scheme != "https" {
		return fmt.Errorf("GitLab URL scheme must be http (localhost only) or https, got: %s", parsedURL.Scheme)
	}

	if strings.TrimSpace(c.GitLab.ProjectID) == "" {
		return fmt.Errorf("GitLab project ID is required")
	}
	if strings.TrimSpace(c.GitLab.Ref) == "" {
		return fmt.Errorf("GitLab ref is required")
	}
	if strings.TrimSpace(c.GitLab.TokenEnv) == "" {
		c.GitLab.TokenEnv = credential.DefaultEnvVar
	}

	switch c.Server.Transport {
	case TransportStdio:
	case TransportStreamableHTTP:
		if c.Server.ListenAddr == "" {
			return fmt.Errorf("listen address is required for %s transport", TransportStreamableHTTP)
		}
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)", c.Server.Transport, TransportStdio, TransportStreamableHTTP)
	}

	return nil
}

// Overrides converts the mappings section into catalog layers
func (c *Config) Overrides() catalog.Overrides {
	overrides := catalog.Overrides{}
	if len(c.Mappings.Demo) > 0 {
		overrides[catalog.KindDemo] = c.Mappings.Demo
	}
	if len(c.Mappings.Source) > 0 {
		overrides[catalog.KindSource] = c.Mappings.Source
	}
	return overrides
}
