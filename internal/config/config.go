// Package config holds tfsmith's runtime configuration: the target provider,
// the generation backend, and output settings. Configuration is loaded from a
// YAML file and can be overridden by environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	goversion "github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// Config is the top-level tfsmith configuration.
type Config struct {
	Provider    ProviderConfig `yaml:"provider"`
	LLM         LLMConfig      `yaml:"llm"`
	Output      OutputConfig   `yaml:"output"`
	Concurrency int            `yaml:"concurrency"`
}

// ProviderConfig identifies the Terraform provider whose schema is compiled.
type ProviderConfig struct {
	Supplier string `yaml:"supplier"` // registry namespace, e.g. "hashicorp"
	Name     string `yaml:"name"`     // provider name, e.g. "azurerm"
	Version  string `yaml:"version"`  // exact version, e.g. "4.8.0"
}

// Address returns the full registry address used as the key in the schema
// document, e.g. "registry.terraform.io/hashicorp/azurerm".
func (p ProviderConfig) Address() string {
	return fmt.Sprintf("registry.terraform.io/%s/%s", p.Supplier, p.Name)
}

// Validate checks that the provider identity is complete and the version
// parses as a semantic version.
func (p ProviderConfig) Validate() error {
	if p.Supplier == "" || p.Name == "" {
		return fmt.Errorf("provider supplier and name are required")
	}
	if _, err := goversion.NewVersion(p.Version); err != nil {
		return fmt.Errorf("invalid provider version %q: %w", p.Version, err)
	}
	return nil
}

// LLMConfig configures the generation backend.
type LLMConfig struct {
	Provider string        `yaml:"provider"` // gemini, openai
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"` // duration string, e.g. "5m"
}

// UnmarshalYAML decodes the backend config, parsing the timeout from a
// duration string like "90s" or "5m". yaml.v3 cannot decode those into a
// time.Duration on its own, and a bare integer would silently mean
// nanoseconds. Fields absent from the file keep their current values.
func (c *LLMConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Provider string `yaml:"provider"`
		APIKey   string `yaml:"api_key"`
		Model    string `yaml:"model"`
		BaseURL  string `yaml:"base_url"`
		Timeout  string `yaml:"timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Provider != "" {
		c.Provider = raw.Provider
	}
	if raw.APIKey != "" {
		c.APIKey = raw.APIKey
	}
	if raw.Model != "" {
		c.Model = raw.Model
	}
	if raw.BaseURL != "" {
		c.BaseURL = raw.BaseURL
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid llm timeout %q: %w", raw.Timeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// OutputConfig configures where artifacts land.
type OutputConfig struct {
	ModulesDir string `yaml:"modules_dir"` // root for generated modules
	SchemasDir string `yaml:"schemas_dir"` // exported schema documents
}

// DefaultConfig returns sensible defaults. Provider identity is left empty
// and must come from the config file or flags.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "gemini",
			Timeout:  5 * time.Minute,
		},
		Output: OutputConfig{
			ModulesDir: "modules",
			SchemasDir: "schemas",
		},
		Concurrency: 2,
	}
}

// Load reads the config file at path (if it exists), applies environment
// overrides, and fills defaults. A missing file is not an error: env vars and
// defaults alone can form a valid config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fall through to env + defaults
		default:
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.LLM.Timeout <= 0 {
		cfg.LLM.Timeout = 5 * time.Minute
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 2
	}
	return cfg, nil
}

// applyEnv layers environment variables over file values.
// TFSMITH_* variables win over the file; provider-specific API key variables
// are used only when no key is configured yet.
func (c *Config) applyEnv() {
	if v := os.Getenv("TFSMITH_LLM_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}
	if v := os.Getenv("TFSMITH_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("TFSMITH_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("TFSMITH_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "openai":
			c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		default:
			if v := os.Getenv("GEMINI_API_KEY"); v != "" {
				c.LLM.APIKey = v
			} else {
				c.LLM.APIKey = os.Getenv("GOOGLE_API_KEY")
			}
		}
	}
}
