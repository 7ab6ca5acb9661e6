package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	apperrors "github.com/maksimkurb/njupt-wifi-login/src/internal/errors"
	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
)

func LoadConfig(configPath string) (*Config, error) {
	configFile := filepath.Clean(configPath)

	if !filepath.IsAbs(configFile) {
		if path, err := filepath.Abs(configFile); err != nil {
			return nil, apperrors.NewConfigError("failed to get absolute path", err)
		} else {
			configFile = path
		}
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Errorf("Configuration file not found: %s", configFile)
			return nil, apperrors.NewConfigError("configuration file not found: "+configFile, err)
		}
		return nil, apperrors.NewConfigError("failed to read config file", err)
	}

	config, err := parseConfig(content)
	if err != nil {
		return nil, err
	}
	config._absConfigFilePath = configFile

	log.Debugf("Configuration file path: %s", configFile)
	return config, nil
}

func parseConfig(content []byte) (*Config, error) {
	config := Config{CheckInterval: DefaultCheckIntervalSeconds}
	if err := toml.Unmarshal(content, &config); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf("%s", derr.String())
			row, col := derr.Position()
			log.Errorf("Error at line %d, column %d", row, col)
			return nil, apperrors.NewConfigError(fmt.Sprintf("failed to parse config file at line %d, column %d", row, col), err)
		}
		return nil, apperrors.NewConfigError("failed to parse config file", err)
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) SerializeConfig() (*bytes.Buffer, error) {
	buf := bytes.Buffer{}
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return &buf, nil
}

// WriteConfig saves the config to the path it was loaded from.
func (c *Config) WriteConfig() error {
	if c._absConfigFilePath == "" {
		return apperrors.NewConfigError("config path is not set", nil)
	}
	config, err := c.SerializeConfig()
	if err != nil {
		return apperrors.NewConfigError("failed to serialize config", err)
	}
	// The file may hold a plaintext password.
	if err := os.WriteFile(c._absConfigFilePath, config.Bytes(), 0600); err != nil {
		return apperrors.NewConfigError("failed to write config file", err)
	}
	return nil
}
