package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"
)

// loadConfigFile reads the optional TOML configuration file into a flat
// name → value map.  The file location is $WASIXCC_CONFIG, or
// ~/.wasixcc/config.toml by default; a missing file is not an error.
//
// Values may be TOML strings, booleans, or integers.  Arrays are folded back
// into the colon-delimited list encoding so that the same parsing applies to
// every settings layer.
func loadConfigFile() (map[string]string, error) {
	path := os.Getenv(envPrefix + "CONFIG")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil
		}
		path = filepath.Join(home, ".wasixcc", "config.toml")
	}

	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	settings := make(map[string]string)
	for name, value := range tree.ToMap() {
		encoded, err := encodeConfigValue(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s in config file %s: %w", name, path, err)
		}

		settings[name] = encoded
	}

	return settings, nil
}

func encodeConfigValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool, int64, float64:
		return fmt.Sprint(v), nil
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return "", fmt.Errorf("list items must be strings, got %T", item)
			}
			items = append(items, strings.ReplaceAll(s, ":", `\:`))
		}
		return strings.Join(items, ":"), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}
