package config

import (
	"fmt"
	"os"

	"objgram/codec"
	"objgram/network"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Address     string `yaml:"address"`
	Port        int    `yaml:"port"`
	BufferSize  int    `yaml:"buffer_size"`
	Codec       string `yaml:"codec"`
	Compression string `yaml:"compression"`
	LogLevel    string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Address:     "127.0.0.1",
		Port:        9999,
		BufferSize:  network.DefaultBufferSize,
		Codec:       codec.NameGob,
		Compression: codec.ModeNone,
		LogLevel:    "info",
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.BufferSize < 1 || c.BufferSize > network.MaxDatagramSize {
		return fmt.Errorf("buffer_size %d out of range 1-%d", c.BufferSize, network.MaxDatagramSize)
	}
	if _, err := c.NewCodec(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func (c Config) NewCodec() (codec.Codec, error) {
	return codec.ByName(c.Codec, c.Compression)
}
