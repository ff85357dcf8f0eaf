package realtime

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hemsim/hemsim/sim"
)

// Config groups the parameters of a real-time run.
type Config struct {
	Start        sim.Instant
	Acceleration float64
	// MeterPeriod is the simulated time between two meter samples.
	// Zero samples only at the end of the run.
	MeterPeriod sim.Duration
	// OnSample receives every meter sample, from the meter goroutine.
	OnSample func(sim.MeterReading)
}

// Runner executes models concurrently against an AcceleratedClock. Each model
// is driven by its own goroutine; Inject may be called from any goroutine.
type Runner struct {
	config Config
	clock  atomic.Pointer[AcceleratedClock]

	mu     sync.RWMutex
	lanes  map[string]*lane
	models []sim.Model
	router *sim.Router
	meter  *sim.Meter

	started atomic.Bool
}

type lane struct {
	// mu serializes injections with the resolution of the model
	mu    sync.Mutex
	model sim.Model
	// one-slot: a pending wake-up is never lost and never blocks Inject
	wake chan struct{}
}

// NewRunner creates a runner with no models.
func NewRunner(config Config) (*Runner, error) {
	clock, err := NewAcceleratedClock(config.Start, config.Acceleration)
	if err != nil {
		return nil, err
	}
	if config.MeterPeriod < 0 {
		return nil, fmt.Errorf("meter period must be non-negative, got %s", config.MeterPeriod)
	}
	r := &Runner{
		config: config,
		lanes:  make(map[string]*lane),
		router: sim.NewRouter(),
		meter:  sim.NewMeter(),
	}
	r.clock.Store(clock)
	return r, nil
}

// AddModel registers and initialises m at the run start, so that events can
// be injected before Run. Panics on a duplicate id or once running.
func (r *Runner) AddModel(m sim.Model) {
	if r.started.Load() {
		panic("Runner.AddModel called after Run")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.lanes[m.ID()]; dup {
		panic(fmt.Sprintf("Runner.AddModel: duplicate model id %q", m.ID()))
	}
	m.Initialise(r.config.Start)
	r.lanes[m.ID()] = &lane{model: m, wake: make(chan struct{}, 1)}
	r.models = append(r.models, m)
	r.meter.Observe(m)
}

// Router returns the cross-model routing table.
func (r *Runner) Router() *sim.Router { return r.router }

// Meter returns the household meter.
func (r *Runner) Meter() *sim.Meter { return r.meter }

// Models returns the registered models.
func (r *Runner) Models() []sim.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]sim.Model(nil), r.models...)
}

// Clock returns the accelerated clock. Run restarts it at the run start.
func (r *Runner) Clock() *AcceleratedClock { return r.clock.Load() }

// Inject schedules event on target at instant at, with every routed event.
// It never blocks on the target's goroutine.
func (r *Runner) Inject(target, event string, at sim.Instant) error {
	return r.inject(target, event, func() sim.Instant { return at }, false)
}

// InjectNow schedules event on target at the current simulated instant. A
// command that is undefined in the state its targets will be in, such as a
// second SwitchOn, is refused with sim.ErrNotApplicable and nothing is queued.
func (r *Runner) InjectNow(target, event string) error {
	return r.inject(target, event, func() sim.Instant { return r.Clock().Now() }, true)
}

func (r *Runner) inject(target, event string, when func() sim.Instant, check bool) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	root, ok := r.lanes[target]
	if !ok {
		return fmt.Errorf("injecting %s into %s: %w", event, target, sim.ErrUnknownModel)
	}
	name, err := root.model.CanonicalEvent(event)
	if err != nil {
		return err
	}
	deliveries := r.router.Expand(target, name)
	lanes := make([]*lane, len(deliveries))
	for i, d := range deliveries {
		l, ok := r.lanes[d.Target]
		if !ok {
			return fmt.Errorf("injecting %s into %s: %w", d.Event, d.Target, sim.ErrUnknownModel)
		}
		lanes[i] = l
	}

	unlock := lockLanes(lanes)
	defer unlock()
	at := when()
	if check {
		for i, d := range deliveries {
			if err := lanes[i].model.CheckNamed(d.Event, at); err != nil {
				return err
			}
		}
	}
	for i, d := range deliveries {
		if err := lanes[i].model.InjectNamed(d.Event, at); err != nil {
			return err
		}
		select {
		case lanes[i].wake <- struct{}{}:
		default:
		}
	}
	return nil
}

// lockLanes locks every distinct lane in model id order and returns the
// matching unlock.
func lockLanes(lanes []*lane) func() {
	seen := make(map[*lane]bool, len(lanes))
	var set []*lane
	for _, l := range lanes {
		if !seen[l] {
			seen[l] = true
			set = append(set, l)
		}
	}
	sort.Slice(set, func(i, j int) bool { return set[i].model.ID() < set[j].model.ID() })
	for _, l := range set {
		l.mu.Lock()
	}
	return func() {
		for _, l := range set {
			l.mu.Unlock()
		}
	}
}

// Run drives every model until the clock passes end, then ends the models and
// closes the meter. A contract violation raised by a model cancels the run
// and is returned. Panics if called more than once.
func (r *Runner) Run(ctx context.Context, end sim.Instant) (*sim.RunReport, error) {
	if !r.started.CompareAndSwap(false, true) {
		panic("Runner.Run() called more than once")
	}
	if end < r.config.Start {
		return nil, fmt.Errorf("end %s precedes start %s", end, r.config.Start)
	}
	models := r.Models()

	clock, err := NewAcceleratedClock(r.config.Start, r.config.Acceleration)
	if err != nil {
		return nil, err
	}
	r.clock.Store(clock)
	r.meter.Start(r.config.Start)
	logrus.Infof("Starting real-time run of %d model(s) at x%g until %s", len(models), r.config.Acceleration, end)

	g, gctx := errgroup.WithContext(ctx)
	r.mu.RLock()
	for _, l := range r.lanes {
		g.Go(func() error { return r.runLane(gctx, l, end) })
	}
	r.mu.RUnlock()
	g.Go(func() error { return r.runMeter(gctx, end) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := sim.Guard(func() {
		for _, m := range models {
			m.EndSimulation(end)
		}
	}); err != nil {
		return nil, err
	}
	reading := r.meter.Close(end)
	if r.config.OnSample != nil {
		r.config.OnSample(reading)
	}
	logrus.Infof("[%s] Real-time run ended", end)
	return sim.NewRunReport(r.config.Start, end, models, reading), nil
}

// runLane resolves l's model at the deadline of each of its pending events.
func (r *Runner) runLane(ctx context.Context, l *lane, end sim.Instant) error {
	clock := r.Clock()
	endTimer := time.NewTimer(clock.Until(end))
	defer endTimer.Stop()
	for {
		var fire <-chan time.Time
		var timer *time.Timer
		next, ok := l.model.NextEventTime()
		if ok && next <= end {
			timer = time.NewTimer(clock.Until(next))
			fire = timer.C
		}
		var until sim.Instant
		due, last := false, false
		select {
		case <-ctx.Done():
		case <-l.wake:
		case <-fire:
			until, due = next, true
		case <-endTimer.C:
			until, due, last = end, true, true
		}
		if timer != nil {
			timer.Stop()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !due {
			continue
		}
		if err := l.resolve(until); err != nil {
			return err
		}
		if last {
			return nil
		}
	}
}

func (l *lane) resolve(t sim.Instant) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sim.Guard(func() { sim.Resolve(l.model, t) })
}

// runMeter samples the meter every MeterPeriod of simulated time.
func (r *Runner) runMeter(ctx context.Context, end sim.Instant) error {
	if r.config.MeterPeriod == 0 {
		return nil
	}
	clock := r.Clock()
	for next := r.config.Start.Add(r.config.MeterPeriod); next < end; next = next.Add(r.config.MeterPeriod) {
		t := time.NewTimer(clock.Until(next))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		reading := r.meter.Sample(next)
		if r.config.OnSample != nil {
			r.config.OnSample(reading)
		}
	}
	return nil
}
