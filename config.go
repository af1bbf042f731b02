// SPDX-License-Identifier: MIT

package matfree

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML configuration file. Missing keys keep their
// defaults; unknown keys are rejected.
//
//	symmetric: true
//	reorthogonalize: full        # none | selective | full
//	max_depth: 40
//	probe_distribution: gaussian # rademacher | gaussian
//	tolerance: 0.01
//	max_probes: 512
//	seed: 7
//	workers: 4
//	hutch_plus_plus: false
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("LoadConfig: %w", err)
	}
	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("LoadConfig: %s: %w", path, err)
	}

	return cfg, nil
}

// ParseConfig decodes YAML from r over DefaultConfig and validates it.
// An empty document yields the defaults.
func ParseConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("ParseConfig: %w: %w", ErrConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("ParseConfig: %w", err)
	}

	return cfg, nil
}
