package sim

import "fmt"

// State is the discrete operating state of one appliance domain.
type State interface {
	comparable
	fmt.Stringer
}

// Kind is a control command of one appliance domain.
// Rank is the total-order key used to apply events that share an instant:
// the lower rank is applied first. Ranks must be distinct within a domain.
type Kind interface {
	comparable
	fmt.Stringer
	Rank() int
}

// HasPriorityOver reports whether a must be applied before b when both occur
// at the same instant.
func HasPriorityOver[K Kind](a, b K) bool {
	return a.Rank() < b.Rank()
}

// Event is an external control command targeted at one model.
type Event[K Kind] struct {
	At   Instant // occurrence time
	Kind K
	seq  uint64 // arrival order, breaks ties between equal (At, Rank) pairs
}

func (e Event[K]) String() string {
	return fmt.Sprintf("%s@%s", e.Kind, e.At)
}
