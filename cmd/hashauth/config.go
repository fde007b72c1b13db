package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/jeremyhahn/go-hashauth/pkg/hashauth"
)

// LogLevel is a logrus level that unmarshals from its YAML name.
type LogLevel struct {
	l *logrus.Level
}

func (l *LogLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	lev, err := logrus.ParseLevel(s)
	if err != nil {
		return err
	}
	l.l = &lev
	return nil
}

// LogrusLevel returns the configured level, or info if none was set.
func (l *LogLevel) LogrusLevel() logrus.Level {
	if l == nil || l.l == nil {
		return logrus.InfoLevel
	}
	return *l.l
}

// Configuration is the YAML configuration file layout.
type Configuration struct {
	hashauth.Config `yaml:",inline"`

	LogLevel LogLevel `yaml:"log_level"`
	Listen   string   `yaml:"listen"`
}

// defaultConfiguration returns the configuration used when no file is given.
func defaultConfiguration() Configuration {
	return Configuration{
		Config: hashauth.DefaultConfig(""),
		Listen: ":8080",
	}
}

// loadConfiguration reads path over the defaults. Keys absent from the file
// keep their default values.
func loadConfiguration(path string) (Configuration, error) {
	cfg := defaultConfiguration()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}
