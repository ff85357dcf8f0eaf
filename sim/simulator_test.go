package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemsim/hemsim/sim/trace"
)

func newLampSimulator(t *testing.T, cfg Config, ids ...string) *Simulator {
	t.Helper()
	s := NewSimulator(cfg)
	for _, id := range ids {
		s.AddModel(newLamp(id))
	}
	return s
}

func TestSimulator_Run_IntegratesEnergyPerModelAndMeter(t *testing.T) {
	// GIVEN a lamp bright over [0, 2h) and another dim over [1h, 3h)
	s := newLampSimulator(t, Config{}, "kitchen", "hall")
	s.AddModel(newSun("roof"))
	require.NoError(t, s.Inject("kitchen", "SwitchOn", 0))
	require.NoError(t, s.Inject("kitchen", "SetBright", 0))
	require.NoError(t, s.Inject("kitchen", "SwitchOff", AtHours(2)))
	require.NoError(t, s.Inject("hall", "SwitchOn", AtHours(1)))
	require.NoError(t, s.Inject("hall", "SwitchOff", AtHours(3)))
	require.NoError(t, s.Inject("roof", "Rise", AtHours(0.5)))
	require.NoError(t, s.Inject("roof", "Set", AtHours(2.5)))

	// WHEN the run ends at the last event
	report, err := s.Run()
	require.NoError(t, err)

	// THEN each model reports its own integral
	kitchen, ok := report.Find("kitchen")
	require.True(t, ok)
	assert.InDelta(t, 200.0, kitchen.TotalWh, 1e-9) // 1 A × 100 V × 2 h
	assert.Equal(t, "OFF", kitchen.State)
	hall, _ := report.Find("hall")
	assert.InDelta(t, 100.0, hall.TotalWh, 1e-9)
	roof, _ := report.Find("roof")
	assert.InDelta(t, 1000.0, roof.TotalWh, 1e-9)

	// AND the meter totals equal the sum of the per-role model totals
	assert.InDelta(t, kitchen.TotalWh+hall.TotalWh, report.ConsumedWh, 1e-9)
	assert.InDelta(t, roof.TotalWh, report.ProducedWh, 1e-9)
	assert.Equal(t, 3.0, report.EndHours)
	assert.Equal(t, AtHours(3), s.Clock)
}

func TestSimulator_Run_HorizonCutsRunAndIntegratesToIt(t *testing.T) {
	s := newLampSimulator(t, Config{Horizon: AtHours(4)}, "lamp")
	require.NoError(t, s.Inject("lamp", "SwitchOn", AtHours(1)))
	require.NoError(t, s.Inject("lamp", "SwitchOff", AtHours(6)))

	report, err := s.Run()
	require.NoError(t, err)

	lamp, _ := report.Find("lamp")
	assert.Equal(t, "DIM", lamp.State)
	assert.InDelta(t, 150.0, lamp.TotalWh, 1e-9) // 0.5 A × 100 V × 3 h
	assert.InDelta(t, 150.0, report.ConsumedWh, 1e-9)
	assert.Equal(t, 4.0, report.EndHours)
}

func TestSimulator_Run_HorizonBeforeStart_Errors(t *testing.T) {
	s := newLampSimulator(t, Config{Start: AtHours(2), Horizon: AtHours(1)}, "lamp")
	_, err := s.Run()
	assert.Error(t, err)
}

func TestSimulator_Run_ContractViolationSurfacesWithModelID(t *testing.T) {
	// GIVEN a level change on a lamp that was never switched on
	s := newLampSimulator(t, Config{}, "ok", "broken")
	require.NoError(t, s.Inject("ok", "SwitchOn", AtHours(1)))
	require.NoError(t, s.Inject("broken", "SetBright", AtHours(1)))

	// WHEN run
	_, err := s.Run()

	// THEN the run aborts with a violation naming the model
	var cv *ContractViolation
	require.True(t, errors.As(err, &cv), "got %v", err)
	assert.Equal(t, "broken", cv.ModelID)
	assert.Equal(t, AtHours(1), cv.At)
}

func TestSimulator_Inject_UnknownModel(t *testing.T) {
	s := newLampSimulator(t, Config{}, "lamp")
	err := s.Inject("nobody", "SwitchOn", 0)
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestSimulator_Inject_UnknownEventRejected(t *testing.T) {
	s := newLampSimulator(t, Config{}, "lamp")
	assert.ErrorIs(t, s.Inject("lamp", "Explode", 0), ErrUnknownKind)
}

func TestSimulator_Inject_RoutesFanOut(t *testing.T) {
	// GIVEN a route mirroring the kitchen lamp onto a twin
	s := newLampSimulator(t, Config{}, "kitchen", "twin")
	for _, ev := range []string{"SwitchOn", "SwitchOff"} {
		s.Router().Add("kitchen", ev, Route{Target: "twin", Event: ev})
	}
	require.NoError(t, s.Inject("kitchen", "SwitchOn", 0))
	require.NoError(t, s.Inject("kitchen", "SwitchOff", AtHours(1)))

	report, err := s.Run()
	require.NoError(t, err)

	twin, _ := report.Find("twin")
	kitchen, _ := report.Find("kitchen")
	assert.InDelta(t, kitchen.TotalWh, twin.TotalWh, 1e-9)
	assert.InDelta(t, 50.0, twin.TotalWh, 1e-9)
}

func TestSimulator_Inject_RoutesIgnoreEventCase(t *testing.T) {
	// GIVEN a twin route registered with a lower-case event name
	s := newLampSimulator(t, Config{}, "kitchen", "twin")
	s.Router().Add("kitchen", "switchon", Route{Target: "twin", Event: "switchon"})
	s.Router().Add("kitchen", "SwitchOff", Route{Target: "twin", Event: "SwitchOff"})

	// WHEN events are injected with yet another spelling
	require.NoError(t, s.Inject("kitchen", "SWITCHON", 0))
	require.NoError(t, s.Inject("kitchen", "switchoff", AtHours(1)))
	report, err := s.Run()
	require.NoError(t, err)

	// THEN the twin follows the source
	twin, _ := report.Find("twin")
	assert.InDelta(t, 50.0, twin.TotalWh, 1e-9)
}

func TestSimulator_Inject_RouteToUnknownTarget(t *testing.T) {
	s := newLampSimulator(t, Config{}, "kitchen")
	s.Router().Add("kitchen", "SwitchOn", Route{Target: "ghost", Event: "SwitchOn"})
	assert.ErrorIs(t, s.Inject("kitchen", "SwitchOn", 0), ErrUnknownModel)
}

func TestSimulator_AddModel_DuplicatePanics(t *testing.T) {
	s := newLampSimulator(t, Config{}, "lamp")
	assert.Panics(t, func() { s.AddModel(newLamp("lamp")) })
}

func TestSimulator_Run_Twice_Panics(t *testing.T) {
	s := newLampSimulator(t, Config{}, "lamp")
	_, err := s.Run()
	require.NoError(t, err)
	assert.Panics(t, func() { _, _ = s.Run() })
}

func TestSimulator_Run_NoEvents_EndsAtStart(t *testing.T) {
	s := newLampSimulator(t, Config{Start: AtHours(5)}, "lamp")
	report, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, 5.0, report.StartHours)
	assert.Equal(t, 5.0, report.EndHours)
	assert.Equal(t, 0.0, report.ConsumedWh)
}

func TestSimulator_Trace_SummarizesTransitions(t *testing.T) {
	s := newLampSimulator(t, Config{Trace: trace.TraceConfig{Level: trace.TraceLevelTransitions}}, "lamp")
	require.NoError(t, s.Inject("lamp", "SwitchOn", 0))
	require.NoError(t, s.Inject("lamp", "SwitchOff", AtHours(1)))

	report, err := s.Run()
	require.NoError(t, err)
	require.NotNil(t, report.Trace)
	// two externals, each followed by one internal
	assert.Equal(t, 2, report.Trace.ExternalCount)
	assert.Equal(t, 2, report.Trace.InternalCount)
	assert.Equal(t, 2, report.Trace.AcceptedInjections)
	assert.Equal(t, 4, report.Trace.TransitionsPerModel["lamp"])
}

func TestSimulator_Run_IsDeterministic(t *testing.T) {
	run := func() *RunReport {
		s := newLampSimulator(t, Config{}, "a", "b")
		require.NoError(t, s.Inject("b", "SwitchOn", AtHours(0.25)))
		require.NoError(t, s.Inject("a", "SwitchOn", AtHours(0.5)))
		require.NoError(t, s.Inject("a", "SetBright", AtHours(0.5)))
		require.NoError(t, s.Inject("b", "SwitchOff", AtHours(2)))
		require.NoError(t, s.Inject("a", "SwitchOff", AtHours(2)))
		r, err := s.Run()
		require.NoError(t, err)
		return r
	}
	first, second := run(), run()
	assert.Equal(t, first.Models, second.Models)
	assert.Equal(t, first.ConsumedWh, second.ConsumedWh)
}
