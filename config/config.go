// SPDX-License-Identifier: EPL-2.0

// Package config loads a player configuration from YAML.
//
//	engine:
//	  sample_rate: 48000
//	  hop_size: 128
//	  chunk_size: 200
//	player:
//	  request_timeout: 2s
//	  autoplay: true
//
// Fields left out keep their defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ik5/hopstream/engine"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidRequestTimeout = errors.New("request timeout must be positive")
	ErrInvalidInboxSize      = errors.New("inbox size must be positive")
	ErrInvalidEventBuffer    = errors.New("event buffer must be positive")
)

// Config is the complete file.
type Config struct {
	Engine engine.Config `yaml:"engine"`
	Player Player        `yaml:"player"`
}

// Player holds the control-side settings.
type Player struct {
	RequestTimeout time.Duration `yaml:"request_timeout"` // before a stalled chunk request is re-issued
	Autoplay       bool          `yaml:"autoplay"`
	StopAtEnd      bool          `yaml:"stop_at_end"`
	InboxSize      int           `yaml:"inbox_size"`   // queued control messages
	EventBuffer    int           `yaml:"event_buffer"` // queued engine events
}

func Default() Config {
	return Config{
		Engine: engine.DefaultConfig(),
		Player: Player{
			RequestTimeout: 2 * time.Second,
			Autoplay:       true,
			InboxSize:      engine.DefaultInboxSize,
			EventBuffer:    1024,
		},
	}
}

func (c Config) Validate() error {
	var errs []error

	if err := c.Engine.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Player.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidRequestTimeout, c.Player.RequestTimeout))
	}
	if c.Player.InboxSize < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidInboxSize, c.Player.InboxSize))
	}
	if c.Player.EventBuffer < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidEventBuffer, c.Player.EventBuffer))
	}

	return errors.Join(errs...)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}
