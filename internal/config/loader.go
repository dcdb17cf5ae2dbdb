package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix namespaces the generator's environment variables, e.g.
// COURSES_MIN_RATING=1200.
const EnvPrefix = "COURSES_"

// ConfigPathEnv names an optional YAML config file.
const ConfigPathEnv = "COURSES_CONFIG"

// Load builds a Config by layering, lowest precedence first:
//  1. Default()
//  2. YAML file named by COURSES_CONFIG, if set
//  3. environment variables with the COURSES_ prefix
//
// Flag handling stays with the caller; flags override the loaded values.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// COURSES_MIN_RATING -> min_rating, matching the koanf struct tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
