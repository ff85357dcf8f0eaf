package sim

import (
	"container/heap"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hemsim/hemsim/sim/trace"
)

// Role tells the meter how to account for a model's exported value.
type Role int

const (
	// RoleConsumer exports a current draw in amperes.
	RoleConsumer Role = iota
	// RoleProducer exports a production in watts.
	RoleProducer
	// RoleObserver exports a value in watts that the meter does not account for.
	RoleObserver
)

func (r Role) String() string {
	switch r {
	case RoleConsumer:
		return "consumer"
	case RoleProducer:
		return "producer"
	case RoleObserver:
		return "observer"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Behavior is the closed, pure description of one appliance domain.
// Implementations MUST NOT keep mutable state: the model owns it.
type Behavior[S State, K Kind] interface {
	// Domain names the appliance kind, e.g. "heater".
	Domain() string
	Initial() S
	// Apply returns the state reached by applying k in s. ok is false when
	// the pair has no defined effect, which the model treats as a contract violation.
	Apply(s S, k K) (next S, ok bool)
	// Output is the exported value implied by s.
	Output(s S) float64
	ParseKind(name string) (K, error)
	Kinds() []K
	States() []S
}

// Model is the domain-independent view of an atomic appliance model used by
// the run driver, the meter and the real-time runner.
type Model interface {
	ID() string
	Domain() string
	Role() Role

	Initialise(t0 Instant)
	InjectNamed(name string, at Instant) error
	CanonicalEvent(name string) (string, error)
	CheckNamed(name string, at Instant) error
	NextEventTime() (Instant, bool)
	Now() Instant
	TimeAdvance() Advance
	ExternalTransition(elapsed Duration)
	InternalTransition()
	EndSimulation(end Instant)

	Read() Reading
	Watts(value float64) float64
	StateName() string
	Report() Report
	SetRecorder(r trace.Recorder)
}

// AtomicModel is the state machine shared by every appliance: it holds the
// current discrete state, consumes injected events, recomputes its exported
// value with a zero-delay internal transition after each state change and
// integrates its power over simulated time.
//
// Transition methods must be called from a single goroutine. Inject may be
// called concurrently with them.
type AtomicModel[S State, K Kind] struct {
	id       string
	role     Role
	voltage  float64
	behavior Behavior[S, K]
	recorder trace.Recorder

	mu          sync.Mutex // guards the fields below up to state
	queue       *eventQueue[K]
	seq         uint64
	now         Instant
	initialised bool
	frozen      bool

	state   S
	pending bool    // a recompute of the exported value is due
	total   float64 // watt-hours integrated so far
	value   exportedValue
}

// NewAtomicModel creates a model for behavior b. voltage converts a consumer's
// current draw into power; it is ignored for producers and observers.
func NewAtomicModel[S State, K Kind](id string, role Role, voltage float64, b Behavior[S, K]) *AtomicModel[S, K] {
	if role == RoleConsumer && voltage <= 0 {
		panic(fmt.Sprintf("NewAtomicModel(%s): consumer requires a positive voltage, got %f", id, voltage))
	}
	return &AtomicModel[S, K]{
		id:       id,
		role:     role,
		voltage:  voltage,
		behavior: b,
		queue:    newEventQueue[K](),
	}
}

func (m *AtomicModel[S, K]) ID() string     { return m.id }
func (m *AtomicModel[S, K]) Domain() string { return m.behavior.Domain() }
func (m *AtomicModel[S, K]) Role() Role     { return m.role }

// SetRecorder attaches a trace recorder. Must be called before Initialise.
func (m *AtomicModel[S, K]) SetRecorder(r trace.Recorder) { m.recorder = r }

// Initialise resets the model to the domain's initial state at t0, clears
// pending events and the pending recompute, and zeroes the run total.
func (m *AtomicModel[S, K]) Initialise(t0 Instant) {
	m.mu.Lock()
	m.queue.reset()
	m.seq = 0
	m.now = t0
	m.initialised = true
	m.frozen = false
	m.mu.Unlock()

	m.state = m.behavior.Initial()
	m.pending = false
	m.total = 0
	m.value.store(Reading{Value: m.behavior.Output(m.state), At: t0})
	logrus.Debugf("[%s] %s initialised in %s at %s", m.id, m.Domain(), m.state, t0)
}

// Inject stores kind for consumption at instant at. Events sharing an instant
// are applied by rank when consumed, whatever their injection order.
func (m *AtomicModel[S, K]) Inject(kind K, at Instant) error {
	err := m.enqueue(kind, at)
	if m.recorder != nil {
		rec := trace.InjectionRecord{ModelID: m.id, Clock: int64(at), Event: kind.String(), Accepted: err == nil}
		if err != nil {
			rec.Reason = err.Error()
		}
		m.recorder.RecordInjection(rec)
	}
	if err != nil {
		logrus.Warnf("[%s] rejected %s at %s: %v", m.id, kind, at, err)
	}
	return err
}

func (m *AtomicModel[S, K]) enqueue(kind K, at Instant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialised {
		return fmt.Errorf("model %s: %w", m.id, ErrNotInitialised)
	}
	if m.frozen {
		return fmt.Errorf("model %s: %w", m.id, ErrModelFrozen)
	}
	if at < m.now {
		return &OutOfOrderEventError{ModelID: m.id, Kind: kind.String(), At: at, Now: m.now}
	}
	m.seq++
	m.queue.schedule(Event[K]{At: at, Kind: kind, seq: m.seq})
	return nil
}

// InjectNamed parses name in the model's domain and injects it.
func (m *AtomicModel[S, K]) InjectNamed(name string, at Instant) error {
	kind, err := m.behavior.ParseKind(name)
	if err != nil {
		return fmt.Errorf("model %s: %w", m.id, err)
	}
	return m.Inject(kind, at)
}

// CanonicalEvent returns the domain's spelling of the event called name.
func (m *AtomicModel[S, K]) CanonicalEvent(name string) (string, error) {
	kind, err := m.behavior.ParseKind(name)
	if err != nil {
		return "", fmt.Errorf("model %s: %w", m.id, err)
	}
	return kind.String(), nil
}

// CheckNamed reports whether the event called name, injected at at, would be
// defined once every event already queued is applied in order. It returns an
// error wrapping ErrNotApplicable otherwise. The state is read without
// synchronisation: callers must not run it concurrently with transitions.
func (m *AtomicModel[S, K]) CheckNamed(name string, at Instant) error {
	kind, err := m.behavior.ParseKind(name)
	if err != nil {
		return fmt.Errorf("model %s: %w", m.id, err)
	}
	m.mu.Lock()
	q := &eventQueue[K]{events: append([]Event[K](nil), m.queue.events...)}
	q.events = append(q.events, Event[K]{At: at, Kind: kind, seq: m.seq + 1})
	m.mu.Unlock()

	heap.Init(q)
	s := m.state
	for q.Len() > 0 {
		e := heap.Pop(q).(Event[K])
		next, ok := m.behavior.Apply(s, e.Kind)
		if !ok {
			return fmt.Errorf("model %s: %s in state %s: %w", m.id, e.Kind, s, ErrNotApplicable)
		}
		s = next
	}
	return nil
}

// NextEventTime returns the occurrence of the earliest pending event.
func (m *AtomicModel[S, K]) NextEventTime() (Instant, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.queue.peek()
	return e.At, ok
}

// Now returns the instant of the last transition.
func (m *AtomicModel[S, K]) Now() Instant {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// TimeAdvance returns Immediate while a recompute is pending, Passive otherwise.
func (m *AtomicModel[S, K]) TimeAdvance() Advance {
	if m.pending {
		return Immediate
	}
	return Passive
}

// ExternalTransition consumes every event pending at now+elapsed. The power
// exported before the transition is integrated over elapsed first, then the
// batch is folded into the state in rank order. A state change arms the
// pending recompute.
func (m *AtomicModel[S, K]) ExternalTransition(elapsed Duration) {
	m.mu.Lock()
	now := m.now
	switch {
	case !m.initialised:
		m.mu.Unlock()
		violate(m.id, now, "external transition before initialise")
	case m.frozen:
		m.mu.Unlock()
		violate(m.id, now, "external transition after end of simulation")
	case m.pending:
		m.mu.Unlock()
		violate(m.id, now, "external transition while a recompute is pending")
	case elapsed < 0:
		m.mu.Unlock()
		violate(m.id, now, "negative elapsed time %d", elapsed)
	}
	t := now.Add(elapsed)
	head, ok := m.queue.peek()
	switch {
	case !ok:
		m.mu.Unlock()
		violate(m.id, t, "external transition with no pending event")
	case head.At < t:
		m.mu.Unlock()
		violate(m.id, t, "event %s was stepped over", head)
	case head.At > t:
		m.mu.Unlock()
		violate(m.id, t, "no event pending at %s, next is %s", t, head)
	}
	batch := m.queue.popAt(t)
	m.now = t
	m.mu.Unlock()

	m.total += m.Watts(m.value.load().Value) * elapsed.Hours()

	old := m.state
	s := old
	for _, e := range batch {
		next, ok := m.behavior.Apply(s, e.Kind)
		if !ok {
			violate(m.id, t, "event %s undefined in state %s", e.Kind, s)
		}
		logrus.Debugf("[%s] %s: %s -> %s at %s", m.id, e.Kind, s, next, t)
		m.record(trace.TransitionExternal, t, e.Kind.String(), s, next)
		s = next
	}
	m.state = s
	if s != old {
		m.pending = true
	}
}

// InternalTransition recomputes the exported value from the current state and
// clears the pending recompute.
func (m *AtomicModel[S, K]) InternalTransition() {
	now := m.Now()
	if !m.pending {
		violate(m.id, now, "internal transition without a pending recompute")
	}
	v := m.behavior.Output(m.state)
	m.value.store(Reading{Value: v, At: now})
	m.pending = false
	logrus.Debugf("[%s] output %g in %s at %s", m.id, v, m.state, now)
	m.record(trace.TransitionInternal, now, "", m.state, m.state)
}

// EndSimulation integrates the exported power up to end and freezes the model.
// Events still pending are discarded.
func (m *AtomicModel[S, K]) EndSimulation(end Instant) {
	m.mu.Lock()
	now := m.now
	switch {
	case m.frozen:
		m.mu.Unlock()
		violate(m.id, now, "simulation already ended")
	case m.pending:
		m.mu.Unlock()
		violate(m.id, now, "end of simulation with a recompute pending")
	case end < now:
		m.mu.Unlock()
		violate(m.id, now, "end %s precedes current time", end)
	}
	dropped := m.queue.Len()
	m.queue.reset()
	m.now = end
	m.frozen = true
	m.mu.Unlock()

	m.total += m.Watts(m.value.load().Value) * end.Sub(now).Hours()
	if dropped > 0 {
		logrus.Debugf("[%s] %d event(s) after end of simulation discarded", m.id, dropped)
	}
}

// Read returns the exported value and the instant it was computed at.
func (m *AtomicModel[S, K]) Read() Reading {
	return m.value.load()
}

// Watts converts an exported value of this model into power.
func (m *AtomicModel[S, K]) Watts(value float64) float64 {
	if m.role == RoleConsumer {
		return value * m.voltage
	}
	return value
}

// State returns the current discrete state.
func (m *AtomicModel[S, K]) State() S { return m.state }

// StateName returns the current discrete state's name.
func (m *AtomicModel[S, K]) StateName() string { return m.state.String() }

// Pending reports whether a recompute of the exported value is due.
func (m *AtomicModel[S, K]) Pending() bool { return m.pending }

// Frozen reports whether EndSimulation has been called.
func (m *AtomicModel[S, K]) Frozen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frozen
}

// Report returns a snapshot of the energy integrated so far.
func (m *AtomicModel[S, K]) Report() Report {
	return Report{
		ModelID: m.id,
		Domain:  m.Domain(),
		Role:    m.role.String(),
		State:   m.state.String(),
		TotalWh: m.total,
	}
}

func (m *AtomicModel[S, K]) record(kind trace.TransitionKind, t Instant, event string, from, to S) {
	if m.recorder == nil {
		return
	}
	m.recorder.RecordTransition(trace.TransitionRecord{
		ModelID: m.id,
		Clock:   int64(t),
		Kind:    kind,
		Event:   event,
		From:    from.String(),
		To:      to.String(),
		Output:  m.value.load().Value,
	})
}

// Resolve brings m to quiescence at instant t: pending recomputes are carried
// out and every event occurring at or before t is consumed at its own instant.
func Resolve(m Model, t Instant) {
	for {
		if m.TimeAdvance().IsImmediate() {
			m.InternalTransition()
			continue
		}
		at, ok := m.NextEventTime()
		if !ok || at > t {
			return
		}
		m.ExternalTransition(at.Sub(m.Now()))
	}
}
