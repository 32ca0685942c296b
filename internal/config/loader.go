package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name searched for in the
// current directory and the user's home directory.
const DefaultConfigFile = ".saa.yaml"

// KeysFileName is the API keys file under the saa config directory.
// It is created by `saa init` with 0600 permissions.
const KeysFileName = "keys.yaml"

// File is the on-disk YAML configuration. Every field is optional;
// zero values leave the corresponding Config field untouched.
type File struct {
	// DefaultLLM is the provider:model used when --llm is not given.
	DefaultLLM string `yaml:"default_llm"`

	// DefaultPlan is the audit plan path used when --plan is not given.
	DefaultPlan string `yaml:"default_plan"`

	// OutputDir is where reports land when --output is not given.
	OutputDir string `yaml:"output_dir"`

	// Pacing overrides the default pacing level.
	Pacing string `yaml:"pacing"`

	// ChromiumPath overrides browser auto-detection.
	ChromiumPath string `yaml:"chromium_path"`

	// MaxPages and MaxDepth override the mode defaults.
	MaxPages int `yaml:"max_pages"`
	MaxDepth int `yaml:"max_depth"`
}

// keysFile is the on-disk YAML keys document.
type keysFile struct {
	XAIAPIKey       string `yaml:"xai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
}

// LoadFile reads a configuration file. If the file does not exist it
// returns ErrConfigNotFound; callers decide whether that is fatal
// based on whether the path was explicitly requested.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindConfigFile searches for the configuration file:
//  1. the explicit path, if given
//  2. .saa.yaml in the current directory
//  3. .saa.yaml in the user's home directory
//
// Returns the path if found, or empty string.
func FindConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// Apply copies the non-zero file settings onto the config. CLI flags
// are applied after this, so flags win over the file.
func (f *File) Apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.DefaultLLM != "" {
		cfg.LLM = f.DefaultLLM
	}
	if f.DefaultPlan != "" {
		cfg.PlanPath = f.DefaultPlan
	}
	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}
	if f.Pacing != "" {
		cfg.Pacing = f.Pacing
	}
	if f.ChromiumPath != "" {
		cfg.ChromiumPath = f.ChromiumPath
	}
	if f.MaxPages > 0 {
		cfg.MaxPages = f.MaxPages
	}
	if f.MaxDepth > 0 {
		cfg.MaxDepth = f.MaxDepth
	}
}

// LoadKeys populates the provider credentials. Precedence, later
// overriding earlier: the keys file under ConfigDir(), then the
// XAI_API_KEY and ANTHROPIC_API_KEY environment variables.
func LoadKeys(cfg *Config) {
	path := filepath.Join(ConfigDir(), KeysFileName)
	if data, err := os.ReadFile(path); err == nil { //nolint:gosec // fixed path under config dir
		var k keysFile
		if yaml.Unmarshal(data, &k) == nil {
			if k.XAIAPIKey != "" {
				cfg.XAIAPIKey = k.XAIAPIKey
			}
			if k.AnthropicAPIKey != "" {
				cfg.AnthropicAPIKey = k.AnthropicAPIKey
			}
		}
	}

	if v := os.Getenv("XAI_API_KEY"); v != "" {
		cfg.XAIAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.AnthropicAPIKey = v
	}
}
