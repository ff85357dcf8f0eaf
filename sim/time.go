package sim

import (
	"fmt"
	"math"
)

// Instant is a point on the simulated timeline, in ticks of one microsecond.
type Instant int64

// Duration is a span of simulated time, in ticks of one microsecond.
type Duration int64

// TicksPerHour is the number of ticks in one simulated hour.
const TicksPerHour = 3_600_000_000

// Hours converts a number of hours into a Duration, rounded to the nearest tick.
func Hours(h float64) Duration {
	return Duration(math.Round(h * TicksPerHour))
}

// AtHours returns the instant h hours after the origin of the timeline.
func AtHours(h float64) Instant {
	return Instant(Hours(h))
}

// Hours returns the duration expressed in hours.
func (d Duration) Hours() float64 {
	return float64(d) / TicksPerHour
}

// Hours returns the instant expressed in hours since the origin.
func (t Instant) Hours() float64 {
	return float64(t) / TicksPerHour
}

// Add returns t shifted by d.
func (t Instant) Add(d Duration) Instant {
	return t + Instant(d)
}

// Sub returns the duration elapsed from u to t.
func (t Instant) Sub(u Instant) Duration {
	return Duration(t - u)
}

func (t Instant) String() string {
	return fmt.Sprintf("%.6fh", t.Hours())
}

func (d Duration) String() string {
	return fmt.Sprintf("%.6fh", d.Hours())
}

// Advance is the result of a model's time-advance function: either an internal
// transition is due right now, or nothing happens until the next external event.
type Advance struct {
	immediate bool
}

var (
	// Immediate requests a zero-delay internal transition.
	Immediate = Advance{immediate: true}
	// Passive means no internal transition is scheduled.
	Passive = Advance{}
)

// IsImmediate reports whether an internal transition is due at the current instant.
func (a Advance) IsImmediate() bool {
	return a.immediate
}

// Duration returns the delay until the next internal transition and whether one
// is scheduled at all.
func (a Advance) Duration() (Duration, bool) {
	if a.immediate {
		return 0, true
	}
	return 0, false
}

func (a Advance) String() string {
	if a.immediate {
		return "immediate"
	}
	return "passive"
}
