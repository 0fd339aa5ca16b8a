package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the optional YAML configuration. Command line flags take
// precedence over it.
type fileConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Zeroize   bool   `yaml:"zeroize"`
	// Authority is mixed into the hashes that derive demo attribute keys.
	Authority string `yaml:"authority"`
}

func loadConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return fc, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fc, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	return fc, nil
}
