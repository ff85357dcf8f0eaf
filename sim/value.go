package sim

import "sync/atomic"

// Reading is a time-stamped exported value: the current draw in amperes for a
// consumer, or the production in watts for a producer.
type Reading struct {
	Value float64
	At    Instant // instant of the last recomputation
}

// exportedValue publishes a Reading so that readers always see a value and its
// timestamp from the same update.
type exportedValue struct {
	p atomic.Pointer[Reading]
}

func (v *exportedValue) store(r Reading) {
	v.p.Store(&r)
}

func (v *exportedValue) load() Reading {
	if r := v.p.Load(); r != nil {
		return *r
	}
	return Reading{}
}
