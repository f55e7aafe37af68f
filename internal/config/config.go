// Package config loads the runtime configuration shared by the demo and the
// stress tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"collisioneer/internal/character"
	"collisioneer/internal/logging"
	"collisioneer/internal/sweep"

	"gopkg.in/yaml.v3"
)

type Log struct {
	Level string `yaml:"level"`
}

type Config struct {
	Log       Log              `yaml:"log"`
	Sweep     sweep.Config     `yaml:"sweep"`
	Character character.Params `yaml:"character"`
	// Scene is the scene file path. Relative paths resolve against the
	// directory of the config file.
	Scene string `yaml:"scene"`
}

const DefaultScene = "assets/scenes/basic.yaml"

func Default() Config {
	return Config{
		Log:       Log{Level: "info"},
		Sweep:     sweep.DefaultConfig(),
		Character: character.DefaultParams(),
		Scene:     DefaultScene,
	}
}

// Parse decodes data over the defaults, so missing keys keep their
// default values.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if !filepath.IsAbs(cfg.Scene) {
		cfg.Scene = filepath.Join(filepath.Dir(path), cfg.Scene)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log: %w", err)
	}
	if err := c.Sweep.Validate(); err != nil {
		return fmt.Errorf("config: sweep: %w", err)
	}
	if err := c.Character.Validate(); err != nil {
		return fmt.Errorf("config: character: %w", err)
	}
	if c.Scene == "" {
		return fmt.Errorf("config: scene path is empty")
	}
	return nil
}
