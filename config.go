package tapline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TokenExprConfig is one `templates` entry of the YAML config, wrapping
// a template source with its optional repetition modifiers (spec §3,
// §6).
type TokenExprConfig struct {
	Tag   string            `yaml:"tag"`
	Many  bool              `yaml:"many"`
	Count *int              `yaml:"count"`
	Begin string            `yaml:"begin"`
	End   string            `yaml:"end"`
	Vars  map[string]string `yaml:"vars"`
}

// AppConfig is the top-level YAML document (spec §6).
type AppConfig struct {
	Templates []TokenExprConfig `yaml:"templates"`
	Table     string            `yaml:"table"`
	Timestamp string            `yaml:"timestamp"`
	Output    string            `yaml:"output"`
	Vars      []string          `yaml:"vars"`
	Filters   []string          `yaml:"filters"`
}

// LoadConfig reads and parses the YAML config file at path, the way
// the teacher's cli/cmd/config.go loads sqlcode.yaml.
func LoadConfig(path string) (AppConfig, error) {
	var cfg AppConfig
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return AppConfig{}, fmt.Errorf("tapline: no config file found at %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return AppConfig{}, fmt.Errorf("tapline: reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("tapline: parsing config %q: %w", path, err)
	}
	if cfg.Table == "" {
		cfg.Table = "main"
	}
	return cfg, nil
}
