package config

import (
	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config carries the engine tunables.
type Config struct {
	// MaxWriteBuffer bounds the number of buffered ops per transaction.
	// Zero or negative means unbounded.
	MaxWriteBuffer int `toml:"max-write-buffer"`
	// LogLevel is the level for the driver's logger: debug, info, warn, error.
	LogLevel string `toml:"log-level"`
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxWriteBuffer: 0,
		LogLevel:       "info",
	}
}

// Load reads a TOML file over the defaults.
func Load(path string) (*Config, error) {
	conf := NewDefaultConfig()
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, errors.Wrapf(err, "load config %s", path)
	}
	return conf, nil
}
