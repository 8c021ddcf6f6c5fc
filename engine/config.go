// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"fmt"

	"github.com/ik5/hopstream/ring"
)

// Config holds the constants an Engine is parameterized by.
type Config struct {
	SampleRate    int `yaml:"sample_rate"`
	HopSize       int `yaml:"hop_size"`        // samples per render quantum
	ChunkSize     int `yaml:"chunk_size"`      // hops per chunk
	Channels      int `yaml:"channels"`
	DepthInChunks int `yaml:"depth_in_chunks"` // ring capacity in chunks
	LowWaterMark  int `yaml:"low_water_mark"`  // hops of headroom before refetching
	GateReleases  int `yaml:"gate_releases"`   // chunk deliveries that end a seek
}

// DefaultConfig matches a 128-sample render quantum at 44.1 kHz stereo.
func DefaultConfig() Config {
	return Config{
		SampleRate:    44100,
		HopSize:       128,
		ChunkSize:     200,
		Channels:      2,
		DepthInChunks: 4,
		LowWaterMark:  200,
		GateReleases:  1,
	}
}

// Buckets returns the ring capacity in hops.
func (c Config) Buckets() int { return c.ChunkSize * c.DepthInChunks }

// ChunkFrames returns how many frames one chunk carries.
func (c Config) ChunkFrames() int { return c.ChunkSize * c.HopSize }

// Layout returns the ring geometry described by c.
func (c Config) Layout() ring.Layout {
	return ring.Layout{
		Channels:      c.Channels,
		HopSize:       c.HopSize,
		ChunkSize:     c.ChunkSize,
		DepthInChunks: c.DepthInChunks,
		LowWaterMark:  c.LowWaterMark,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error

	if c.SampleRate < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidSampleRate, c.SampleRate))
	}
	if c.HopSize < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidHopSize, c.HopSize))
	}
	if c.ChunkSize < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidChunkSize, c.ChunkSize))
	}
	if c.Channels < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidChannels, c.Channels))
	}
	if c.DepthInChunks < 1 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidDepth, c.DepthInChunks))
	}

	// A refetch fires with fewer than LowWaterMark hops unread, then writes a
	// whole chunk; both must fit without overwriting unread hops.
	if c.LowWaterMark < 1 || (c.ChunkSize > 0 && c.DepthInChunks > 0 && c.LowWaterMark > c.Buckets()-c.ChunkSize) {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidLowWaterMark, c.LowWaterMark))
	}

	if c.GateReleases < 1 || (c.DepthInChunks > 0 && c.GateReleases > c.DepthInChunks) {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidGateReleases, c.GateReleases))
	}

	return errors.Join(errs...)
}
