package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/piwi3910/WMSLabel/internal/model"
)

// DefaultConfigDir is ~/.wmslabel, or ./.wmslabel without a home directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".wmslabel")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// DefaultPreferencesPath returns the default path of the key-value file used
// by the command line tool.
func DefaultPreferencesPath() string {
	return filepath.Join(DefaultConfigDir(), "preferences.json")
}

// SaveAppConfig writes config as indented JSON, replacing the file
// atomically.
func SaveAppConfig(path string, config model.AppConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// LoadAppConfig reads the config at path over the defaults and normalizes
// it. A missing file is not an error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return config, nil
	case err != nil:
		return model.AppConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	config.Validate()
	return config, nil
}
