package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Save writes c to config.yaml in ConfigDir and returns the path.
func (c *Config) Save() (string, error) {
	dir := ConfigDir()
	if dir == "" {
		return "", fmt.Errorf("no user config directory on this platform")
	}
	path := filepath.Join(dir, "config.yaml")
	return path, c.SaveTo(path)
}

// SaveTo writes c as YAML, creating parent directories.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
