package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Load reads the config file at path, picking the decoder by file extension.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed opening config: %w", err)
	}
	defer f.Close()

	var conf Config
	switch {
	case strings.HasSuffix(path, ".toml"):
		err = toml.NewDecoder(f).Decode(&conf)
	case strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml"):
		err = yaml.NewDecoder(f).Decode(&conf)
	case strings.HasSuffix(path, ".json"):
		err = json.NewDecoder(f).Decode(&conf)
	default:
		return nil, fmt.Errorf("unsupported config format: %s", path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed decoding config: %w", err)
	}

	return &conf, nil
}
