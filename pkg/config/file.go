package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFileYAML is the canonical config filename.
	DefaultConfigFileYAML = ".wafreport.yaml"
	// DefaultConfigFileYML is a compatible alternate config filename.
	DefaultConfigFileYML = ".wafreport.yml"
)

// FileConfig represents values loaded from a .wafreport.yaml file. The
// file carries operational tuning; credentials stay in the environment.
type FileConfig struct {
	Schedule      string         `yaml:"schedule"`
	Lookback      string         `yaml:"lookback"`
	QueryTimeout  string         `yaml:"query_timeout"`
	OutputDir     string         `yaml:"output_dir"`
	FontFile      string         `yaml:"font_file"`
	ExcludeAppIDs []string       `yaml:"exclude_app_ids"`
	ExcludeIPs    []string       `yaml:"exclude_ips"`
	AttackTypes   map[int]string `yaml:"attack_types"`
}

// Normalize trims and removes empty items from list fields.
func (fc *FileConfig) Normalize() {
	if fc == nil {
		return
	}
	fc.Schedule = strings.TrimSpace(fc.Schedule)
	fc.Lookback = strings.TrimSpace(fc.Lookback)
	fc.QueryTimeout = strings.TrimSpace(fc.QueryTimeout)
	fc.OutputDir = strings.TrimSpace(fc.OutputDir)
	fc.FontFile = strings.TrimSpace(fc.FontFile)
	fc.ExcludeAppIDs = normalizeList(fc.ExcludeAppIDs)
	fc.ExcludeIPs = normalizeList(fc.ExcludeIPs)
}

// ApplyTo overlays the file values onto cfg.
func (fc *FileConfig) ApplyTo(cfg *Config) error {
	if fc == nil || cfg == nil {
		return nil
	}

	if fc.Schedule != "" {
		cfg.Schedule = fc.Schedule
	}
	if fc.Lookback != "" {
		d, err := ParseDuration(fc.Lookback)
		if err != nil {
			return fmt.Errorf("invalid lookback: %w", err)
		}
		cfg.Lookback = d
	}
	if fc.QueryTimeout != "" {
		d, err := ParseDuration(fc.QueryTimeout)
		if err != nil {
			return fmt.Errorf("invalid query_timeout: %w", err)
		}
		cfg.QueryTimeout = d
	}
	if fc.OutputDir != "" {
		cfg.OutputDir = fc.OutputDir
	}
	if fc.FontFile != "" {
		cfg.FontFile = fc.FontFile
	}
	if len(fc.ExcludeAppIDs) > 0 {
		cfg.ExcludeAppIDs = fc.ExcludeAppIDs
	}
	if len(fc.ExcludeIPs) > 0 {
		cfg.ExcludeIPs = fc.ExcludeIPs
	}
	if len(fc.AttackTypes) > 0 {
		cfg.AttackTypes.Merge(fc.AttackTypes)
	}
	return nil
}

// AutoLoadFile discovers and loads the first available config file.
func AutoLoadFile() (*FileConfig, string, error) {
	candidates := []string{
		DefaultConfigFileYAML,
		DefaultConfigFileYML,
	}

	if homeDir, err := os.UserHomeDir(); err == nil && strings.TrimSpace(homeDir) != "" {
		candidates = append(candidates,
			filepath.Join(homeDir, DefaultConfigFileYAML),
			filepath.Join(homeDir, DefaultConfigFileYML),
		)
	}

	return LoadFirstExistingFile(candidates)
}

// LoadFirstExistingFile loads the first config file that exists in paths.
func LoadFirstExistingFile(paths []string) (*FileConfig, string, error) {
	for _, path := range paths {
		candidate := strings.TrimSpace(path)
		if candidate == "" {
			continue
		}

		info, err := os.Stat(candidate)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("failed to access config file %q: %w", candidate, err)
		}
		if info.IsDir() {
			return nil, "", fmt.Errorf("config path %q is a directory, expected a file", candidate)
		}

		cfg, err := LoadFile(candidate)
		if err != nil {
			return nil, "", err
		}
		return cfg, candidate, nil
	}

	return nil, "", nil
}

// LoadFile loads config values from a specific YAML file path.
func LoadFile(path string) (*FileConfig, error) {
	filename := strings.TrimSpace(path)
	if filename == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", filename, err)
	}

	cfg := &FileConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", filename, err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Normalize trims the exclusion lists so empty entries never reach the
// query layer.
func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.ExcludeAppIDs = normalizeList(c.ExcludeAppIDs)
	c.ExcludeIPs = normalizeList(c.ExcludeIPs)
}

func normalizeList(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	normalized := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
