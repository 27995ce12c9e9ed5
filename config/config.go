// Package config loads the fixed set of recognized server configuration
// keys from a YAML document, writing a default configuration file the
// first time the server runs against a fresh path.
package config

import (
	"os"

	"github.com/google/renameio/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ServerSection holds the "server.*" configuration keys.
type ServerSection struct {
	Address       string `yaml:"address"`
	Port          int    `yaml:"port"`
	WorkerThreads int    `yaml:"workerThreads"`
	DocumentRoot  string `yaml:"documentRoot"`
	MimeConfig    string `yaml:"mimeConfig"`
	Workers       string `yaml:"workers"`
}

// SessionSection holds the "session.*" configuration keys.
type SessionSection struct {
	TimeoutSeconds int `yaml:"timeout"`
}

// Config holds every recognized server and session configuration key.
type Config struct {
	Server  ServerSection  `yaml:"server"`
	Session SessionSection `yaml:"session"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerSection{
			Address:       "0.0.0.0",
			Port:          8080,
			WorkerThreads: 16,
			DocumentRoot:  "./webroot",
			MimeConfig:    "",
			Workers:       "",
		},
		Session: SessionSection{
			TimeoutSeconds: 600,
		},
	}
}

// DefaultConfigYAML is written to disk the first time a server runs
// without a config file at its configured path, mirroring app.go's
// DefaultConfigYaml embed-and-bootstrap idiom.
var DefaultConfigYAML = mustMarshalDefault()

func mustMarshalDefault() []byte {
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return data
}

// LoadOrCreate loads the config file at path if it exists, or writes the
// default configuration to path and returns it otherwise.
func LoadOrCreate(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := writeDefaultConfig(path); err != nil {
			return Config{}, errors.Wrapf(err, "writing default config to %q", path)
		}
		return DefaultConfig(), nil
	} else if err != nil {
		return Config{}, errors.Wrapf(err, "reading config from %q", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "yaml.Unmarshal %q", path)
	}
	return cfg, nil
}

// writeDefaultConfig atomically writes the default configuration to path:
// a temp file in the target directory, synced, then renamed into place, so
// a crash mid-write never leaves a truncated config file.
func writeDefaultConfig(path string) error {
	return renameio.WriteFile(path, DefaultConfigYAML, 0644)
}
