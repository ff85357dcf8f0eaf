// Package scenario scripts the events of a simulation run.
package scenario

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/hemsim/hemsim/sim"
)

// Spec is a scripted scenario: events to inject and an optional end instant.
type Spec struct {
	// EndHours is the run horizon. Zero ends the run at the last event.
	EndHours float64     `yaml:"end_hours,omitempty"`
	Events   []EventSpec `yaml:"events"`
}

// EventSpec schedules Event on Target at AtHours.
type EventSpec struct {
	AtHours float64 `yaml:"at_hours"`
	Target  string  `yaml:"target"`
	Event   string  `yaml:"event"`
}

// LoadSpec reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML scenario.
func Parse(data []byte) (*Spec, error) {
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &spec, nil
}

// Validate checks instants and names. Targets are checked against the
// simulator when the scenario is applied.
func (s *Spec) Validate() error {
	if err := validateInstant("end_hours", s.EndHours); err != nil {
		return err
	}
	for i, e := range s.Events {
		prefix := fmt.Sprintf("events[%d]", i)
		if err := validateInstant(prefix+".at_hours", e.AtHours); err != nil {
			return err
		}
		if e.Target == "" {
			return fmt.Errorf("%s: empty target", prefix)
		}
		if e.Event == "" {
			return fmt.Errorf("%s: empty event", prefix)
		}
		if s.EndHours > 0 && e.AtHours > s.EndHours {
			logrus.Warnf("%s: %s/%s at %.3fh is after end_hours %.3fh and will not be applied",
				prefix, e.Target, e.Event, e.AtHours, s.EndHours)
		}
	}
	return nil
}

func validateInstant(name string, h float64) error {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, h)
	}
	if h < 0 {
		return fmt.Errorf("%s must be non-negative, got %f", name, h)
	}
	return nil
}

// Horizon returns the end instant of the scenario, zero when open-ended.
func (s *Spec) Horizon() sim.Instant {
	return sim.AtHours(s.EndHours)
}

// Sorted returns the events ordered by instant. Events sharing an instant keep
// their file order.
func (s *Spec) Sorted() []EventSpec {
	events := make([]EventSpec, 0, len(s.Events))
	for _, i := range s.order() {
		events = append(events, s.Events[i])
	}
	return events
}

// order returns the indices of s.Events in the order of Sorted.
func (s *Spec) order() []int {
	idx := make([]int, len(s.Events))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return s.Events[idx[a]].AtHours < s.Events[idx[b]].AtHours })
	return idx
}

// Injector receives scenario events. *sim.Simulator and the real-time runner
// implement it.
type Injector interface {
	Inject(target, event string, at sim.Instant) error
}

// Apply validates the scenario and injects every event into inj.
func (s *Spec) Apply(inj Injector) error {
	if err := s.Validate(); err != nil {
		return err
	}
	for _, i := range s.order() {
		e := s.Events[i]
		if err := inj.Inject(e.Target, e.Event, sim.AtHours(e.AtHours)); err != nil {
			return fmt.Errorf("events[%d] (%s/%s at %.3fh): %w", i, e.Target, e.Event, e.AtHours, err)
		}
	}
	logrus.Infof("Scenario applied: %d event(s)", len(s.Events))
	return nil
}
