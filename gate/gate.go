// SPDX-License-Identifier: EPL-2.0

// Package gate provides a re-armable latch that holds rendering until it
// has been released a fixed number of times.
package gate

import "errors"

// ErrInvalidThreshold is returned when a gate is built with a release
// threshold below one.
var ErrInvalidThreshold = errors.New("gate threshold must be at least 1")

// Gate is an armed/disarmed barrier with a release counter.
//
// A Gate is not safe for concurrent use; it belongs to the single render
// thread that owns the engine.
type Gate struct {
	armed     bool
	threshold int
	count     int
}

// New returns a disarmed gate that disarms after threshold releases.
func New(threshold int) (*Gate, error) {
	if threshold < 1 {
		return nil, ErrInvalidThreshold
	}

	return &Gate{threshold: threshold}, nil
}

// Arm sets the barrier and restarts release counting.
func (g *Gate) Arm() {
	g.armed = true
	g.count = 0
}

func (g *Gate) IsArmed() bool { return g.armed }

func (g *Gate) Threshold() int { return g.threshold }

// Release counts one confirmation. The gate disarms on the threshold-th
// release. Releasing a disarmed gate does nothing.
func (g *Gate) Release() {
	if !g.armed {
		return
	}

	g.count++
	if g.count >= g.threshold {
		g.armed = false
		g.count = 0
	}
}
