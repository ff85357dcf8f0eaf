// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/hemsim/hemsim/sim/trace"
)

// Config groups the run parameters of a Simulator.
type Config struct {
	Start Instant
	// Horizon is the end of the run. Zero means: end at the last event instant.
	Horizon Instant
	Trace   trace.TraceConfig
}

// Simulator is the run driver: it owns the models, the routing table and the
// meter, and steps every model in global time order on a single goroutine.
type Simulator struct {
	Clock  Instant
	config Config
	models []Model
	byID   map[string]Model
	router *Router
	meter  *Meter
	trace  *trace.SimulationTrace
	// events injected before Run, delivered once models are initialised
	scheduled []scheduledDelivery
	hasRun    bool
}

type scheduledDelivery struct {
	Delivery
	At Instant
}

// NewSimulator creates a Simulator with no models.
func NewSimulator(config Config) *Simulator {
	s := &Simulator{
		Clock:  config.Start,
		config: config,
		byID:   make(map[string]Model),
		router: NewRouter(),
		meter:  NewMeter(),
	}
	if config.Trace.Enabled() {
		s.trace = trace.NewSimulationTrace(config.Trace)
	}
	return s
}

// AddModel registers m. Panics on a duplicate id.
func (s *Simulator) AddModel(m Model) {
	if _, dup := s.byID[m.ID()]; dup {
		panic(fmt.Sprintf("Simulator.AddModel: duplicate model id %q", m.ID()))
	}
	if s.trace != nil {
		m.SetRecorder(s.trace)
	}
	s.models = append(s.models, m)
	s.byID[m.ID()] = m
	s.meter.Observe(m)
}

// Model returns the registered model with id.
func (s *Simulator) Model(id string) (Model, bool) {
	m, ok := s.byID[id]
	return m, ok
}

// Models returns the registered models in registration order.
func (s *Simulator) Models() []Model { return s.models }

// Router returns the cross-model routing table.
func (s *Simulator) Router() *Router { return s.router }

// Meter returns the household meter.
func (s *Simulator) Meter() *Meter { return s.meter }

// Trace returns the collected trace, nil when tracing is disabled.
func (s *Simulator) Trace() *trace.SimulationTrace { return s.trace }

// Inject schedules event on target at instant at, together with every event
// the routing table derives from it. Before Run, events are held until the
// models are initialised; out-of-order checks then apply against Start.
func (s *Simulator) Inject(target, event string, at Instant) error {
	m, ok := s.byID[target]
	if !ok {
		return fmt.Errorf("injecting %s into %s: %w", event, target, ErrUnknownModel)
	}
	name, err := m.CanonicalEvent(event)
	if err != nil {
		return err
	}
	deliveries := s.router.Expand(target, name)
	for _, d := range deliveries {
		if _, ok := s.byID[d.Target]; !ok {
			return fmt.Errorf("injecting %s into %s: %w", d.Event, d.Target, ErrUnknownModel)
		}
	}
	if !s.hasRun {
		for _, d := range deliveries {
			s.scheduled = append(s.scheduled, scheduledDelivery{Delivery: d, At: at})
		}
		return nil
	}
	return s.deliver(deliveries, at)
}

func (s *Simulator) deliver(deliveries []Delivery, at Instant) error {
	for i, d := range deliveries {
		if err := s.byID[d.Target].InjectNamed(d.Event, at); err != nil {
			if i == 0 {
				return err
			}
			return fmt.Errorf("routing %s/%s -> %s/%s: %w", deliveries[0].Target, deliveries[0].Event, d.Target, d.Event, err)
		}
	}
	return nil
}

// Run initialises every model, processes all events up to the horizon, ends
// every model and returns the run report. A contract violation aborts the run
// and is returned as a *ContractViolation.
// Panics if called more than once.
func (s *Simulator) Run() (report *RunReport, err error) {
	if s.hasRun {
		panic("Simulator.Run() called more than once")
	}
	s.hasRun = true
	defer recoverViolation(&err)

	if s.config.Horizon > 0 && s.config.Horizon < s.config.Start {
		return nil, fmt.Errorf("horizon %s precedes start %s", s.config.Horizon, s.config.Start)
	}

	logrus.Infof("Starting simulation of %d model(s) at %s", len(s.models), s.config.Start)
	for _, m := range s.models {
		m.Initialise(s.config.Start)
	}
	s.meter.Start(s.config.Start)

	for _, d := range s.scheduled {
		if err := s.byID[d.Target].InjectNamed(d.Event, d.At); err != nil {
			return nil, fmt.Errorf("scheduling %s on %s at %s: %w", d.Event, d.Target, d.At, err)
		}
	}
	s.scheduled = nil

	for {
		next, ok := s.nextInstant()
		if !ok {
			break
		}
		if s.config.Horizon > 0 && next > s.config.Horizon {
			break
		}
		s.Clock = next
		logrus.Debugf("[%s] resolving instant", s.Clock)
		for _, m := range s.models {
			Resolve(m, s.Clock)
		}
		s.meter.Sample(s.Clock)
	}

	end := s.Clock
	if s.config.Horizon > 0 {
		end = s.config.Horizon
	}
	for _, m := range s.models {
		m.EndSimulation(end)
	}
	reading := s.meter.Close(end)
	s.Clock = end
	logrus.Infof("[%s] Simulation ended", end)

	report = NewRunReport(s.config.Start, end, s.models, reading)
	if s.trace != nil {
		report.Trace = trace.Summarize(s.trace)
	}
	return report, nil
}

// nextInstant returns the earliest pending event instant across models.
func (s *Simulator) nextInstant() (Instant, bool) {
	var next Instant
	found := false
	for _, m := range s.models {
		if at, ok := m.NextEventTime(); ok && (!found || at < next) {
			next, found = at, true
		}
	}
	return next, found
}
