package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML config file. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()

	cfg := &Config{}
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ResolveFile returns the config file to load: the explicit path, or
// DefaultConfigFile when it exists. An empty result means no file.
func ResolveFile(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return existing(DefaultConfigFile)
}

// LoadEnv loads a dotenv file into the process environment without
// overriding variables that are already set. With no explicit path,
// DefaultEnvFile is loaded when present.
func LoadEnv(explicit string) error {
	path := explicit
	if path == "" {
		p, err := existing(DefaultEnvFile)
		if err != nil || p == "" {
			return err
		}
		path = p
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func existing(path string) (string, error) {
	_, err := os.Stat(path)
	if err == nil {
		return path, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	return "", err
}
