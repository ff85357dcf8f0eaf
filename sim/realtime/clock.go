// Package realtime runs appliance models against an accelerated wall clock:
// one goroutine per model, woken by injections and by the deadlines of their
// pending events.
package realtime

import (
	"fmt"
	"time"

	"github.com/hemsim/hemsim/sim"
)

// Clock maps simulated instants onto the wall clock.
type Clock interface {
	Now() sim.Instant
	// Until returns the wall-clock delay before simulated instant t.
	Until(t sim.Instant) time.Duration
	After(t sim.Instant) <-chan time.Time
}

// AcceleratedClock runs simulated time Acceleration times faster than the
// wall clock, from Start at Origin.
type AcceleratedClock struct {
	Start        sim.Instant
	Origin       time.Time
	Acceleration float64
}

// NewAcceleratedClock starts a clock at instant start now.
func NewAcceleratedClock(start sim.Instant, acceleration float64) (*AcceleratedClock, error) {
	if acceleration <= 0 {
		return nil, fmt.Errorf("acceleration must be positive, got %f", acceleration)
	}
	return &AcceleratedClock{Start: start, Origin: time.Now(), Acceleration: acceleration}, nil
}

// Now returns the simulated instant matching the current wall-clock time.
func (c *AcceleratedClock) Now() sim.Instant {
	return c.at(time.Now())
}

func (c *AcceleratedClock) at(wall time.Time) sim.Instant {
	elapsed := float64(wall.Sub(c.Origin).Microseconds()) * c.Acceleration
	return c.Start.Add(sim.Duration(elapsed))
}

// Deadline returns the wall-clock time of simulated instant t.
func (c *AcceleratedClock) Deadline(t sim.Instant) time.Time {
	wall := float64(t.Sub(c.Start)) * float64(time.Microsecond) / c.Acceleration
	return c.Origin.Add(time.Duration(wall))
}

func (c *AcceleratedClock) Until(t sim.Instant) time.Duration {
	return time.Until(c.Deadline(t))
}

func (c *AcceleratedClock) After(t sim.Instant) <-chan time.Time {
	return time.After(c.Until(t))
}
