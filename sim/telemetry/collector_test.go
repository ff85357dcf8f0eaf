package telemetry

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemsim/hemsim/sim"
	"github.com/hemsim/hemsim/sim/appliance"
)

func newSource(t *testing.T) *sim.Simulator {
	t.Helper()
	s := sim.NewSimulator(sim.Config{})
	for _, spec := range []struct{ id, kind string }{
		{"heater", appliance.KindHeater},
		{"roof", appliance.KindSolarPanel},
	} {
		m, err := appliance.New(spec.kind, spec.id, nil)
		require.NoError(t, err)
		s.AddModel(m)
	}
	return s
}

func TestCollector_ExposesMeterAndModels(t *testing.T) {
	// GIVEN a finished run where the heater heated for 1h and the panel produced for 1h
	s := newSource(t)
	require.NoError(t, s.Inject("heater", "SwitchOn", 0))
	require.NoError(t, s.Inject("heater", "Heat", 0))
	require.NoError(t, s.Inject("roof", "SwitchOn", 0))
	require.NoError(t, s.Inject("roof", "SunRise", 0))
	require.NoError(t, s.Inject("roof", "SunSet", sim.AtHours(1)))
	_, err := s.Run()
	require.NoError(t, err)

	// WHEN collected
	c := NewCollector(s)
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))

	// THEN meter totals and per-model outputs are exposed
	expected := `
# HELP hemsim_meter_consumed_watt_hours Energy consumed since the start of the run, as of the last meter sample.
# TYPE hemsim_meter_consumed_watt_hours counter
hemsim_meter_consumed_watt_hours 2200
# HELP hemsim_meter_produced_watt_hours Energy produced since the start of the run, as of the last meter sample.
# TYPE hemsim_meter_produced_watt_hours counter
hemsim_meter_produced_watt_hours 3000
# HELP hemsim_model_output Exported value of a model: amperes for consumers, watts otherwise.
# TYPE hemsim_model_output gauge
hemsim_model_output{kind="heater",model="heater"} 10
hemsim_model_output{kind="solar-panel",model="roof"} 0
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"hemsim_meter_consumed_watt_hours", "hemsim_meter_produced_watt_hours", "hemsim_model_output"))
	assert.Equal(t, 6, testutil.CollectAndCount(c))
}

func TestCollector_CurrentValues_ReadWithoutStepping(t *testing.T) {
	// GIVEN a heater switched on outside of any run
	s := newSource(t)
	heater, _ := s.Model("heater")
	heater.Initialise(0)
	require.NoError(t, heater.InjectNamed("SwitchOn", 0))
	sim.Resolve(heater, 0)

	// WHEN scraped
	expected := `
# HELP hemsim_meter_consumption_amperes Current drawn by all consumers, in amperes.
# TYPE hemsim_meter_consumption_amperes gauge
hemsim_meter_consumption_amperes 0.1
# HELP hemsim_meter_production_watts Power produced by all producers, in watts.
# TYPE hemsim_meter_production_watts gauge
hemsim_meter_production_watts 0
`
	// THEN the meter reports the standby draw
	assert.NoError(t, testutil.CollectAndCompare(NewCollector(s), strings.NewReader(expected),
		"hemsim_meter_consumption_amperes", "hemsim_meter_production_watts"))
}
