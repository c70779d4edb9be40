package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"

	"github.com/granodigital/report-annotate/internal/matcher"
)

// ValidateConfigPath checks that the path points at a readable regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the application configuration from configPath. A missing
// file is not an error when optional is true; the zero configuration is
// returned instead so flag and default layers still apply.
func LoadConfig(configPath string, optional bool) (*Config, error) {
	config := &Config{}

	if err := LoadYAML(configPath, config); err != nil {
		if optional && os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}

	return config, nil
}

// LoadMatchers reads a standalone matcher specification file: a YAML map of
// matcher name to specification.
func LoadMatchers(path string) (map[string]matcher.Spec, error) {
	matchers := map[string]matcher.Spec{}
	if err := LoadYAML(path, &matchers); err != nil {
		return nil, fmt.Errorf("load matchers %q: %w", path, err)
	}
	return matchers, nil
}
