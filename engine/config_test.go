// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}

	if cfg.Buckets() != 800 {
		t.Errorf("Buckets() = %d, want 800", cfg.Buckets())
	}
	if cfg.ChunkFrames() != 25600 {
		t.Errorf("ChunkFrames() = %d, want 25600", cfg.ChunkFrames())
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{"zero sample rate", func(c *Config) { c.SampleRate = 0 }, ErrInvalidSampleRate},
		{"zero hop size", func(c *Config) { c.HopSize = 0 }, ErrInvalidHopSize},
		{"negative chunk size", func(c *Config) { c.ChunkSize = -1 }, ErrInvalidChunkSize},
		{"zero channels", func(c *Config) { c.Channels = 0 }, ErrInvalidChannels},
		{"zero depth", func(c *Config) { c.DepthInChunks = 0 }, ErrInvalidDepth},
		{"zero low-water mark", func(c *Config) { c.LowWaterMark = 0 }, ErrInvalidLowWaterMark},
		{"low-water mark leaves no room for a chunk", func(c *Config) { c.LowWaterMark = 601 }, ErrInvalidLowWaterMark},
		{"depth of one", func(c *Config) { c.DepthInChunks = 1 }, ErrInvalidLowWaterMark},
		{"zero gate releases", func(c *Config) { c.GateReleases = 0 }, ErrInvalidGateReleases},
		{"gate releases beyond depth", func(c *Config) { c.GateReleases = 5 }, ErrInvalidGateReleases},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateReportsAll(t *testing.T) {
	t.Parallel()

	err := Config{}.Validate()
	for _, want := range []error{
		ErrInvalidSampleRate, ErrInvalidHopSize, ErrInvalidChunkSize,
		ErrInvalidChannels, ErrInvalidDepth, ErrInvalidLowWaterMark, ErrInvalidGateReleases,
	} {
		if !errors.Is(err, want) {
			t.Errorf("Validate() error missing %v", want)
		}
	}
}

func TestConfig_Layout(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	l := cfg.Layout()

	if l.Channels != cfg.Channels || l.HopSize != cfg.HopSize || l.ChunkSize != cfg.ChunkSize ||
		l.DepthInChunks != cfg.DepthInChunks || l.LowWaterMark != cfg.LowWaterMark {
		t.Errorf("Layout() = %+v does not mirror %+v", l, cfg)
	}
	if err := l.Validate(); err != nil {
		t.Errorf("Layout().Validate() error = %v", err)
	}
}
