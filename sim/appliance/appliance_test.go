package appliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemsim/hemsim/sim"
)

func TestOutputs_DefaultParameters(t *testing.T) {
	tests := []struct {
		name  string
		model func() float64
		want  float64
	}{
		{"heater on", func() float64 { return Heater{Voltage: 220, IdleWatts: 22}.Output(HeaterOn) }, 0.1},
		{"heater heating", func() float64 { return Heater{Voltage: 220, HeatWatts: 2200}.Output(HeaterHeating) }, 10},
		{"thermal heating", func() float64 { return HeaterThermal{HeatWatts: 2200, Efficiency: 0.9}.Output(HeaterHeating) }, 1980},
		{"thermal on", func() float64 { return HeaterThermal{HeatWatts: 2200, Efficiency: 1}.Output(HeaterOn) }, 0},
		{"dryer low", func() float64 { return HairDryer{Voltage: 220, LowWatts: 660}.Output(HairDryerLow) }, 3},
		{"dryer high", func() float64 { return HairDryer{Voltage: 220, HighWatts: 1100}.Output(HairDryerHigh) }, 5},
		{"garden light off", func() float64 { return IndoorGarden{Voltage: 220, StandbyWatts: 11}.Output(GardenLightOff) }, 0.05},
		{"garden light on", func() float64 { return IndoorGarden{Voltage: 220, LightWatts: 110}.Output(GardenLightOn) }, 0.5},
		{"blanket on", func() float64 {
			return ElectricBlanket{Voltage: 220, StandbyWatts: 11}.Output(BlanketState{Mode: BlanketOn, High: true})
		}, 0.05},
		{"blanket heating high", func() float64 {
			return ElectricBlanket{Voltage: 220, HighWatts: 110}.Output(BlanketState{Mode: BlanketHeating, High: true})
		}, 0.5},
		{"blanket heating low", func() float64 {
			return ElectricBlanket{Voltage: 220, LowWatts: 55}.Output(BlanketState{Mode: BlanketHeating})
		}, 0.25},
		{"aircon cooling", func() float64 { return AirConditioner{Voltage: 220, CoolWatts: 1100}.Output(AirConditionerCooling) }, 5},
		{"fridge freezing", func() float64 { return Refrigerator{Voltage: 220, FreezeWatts: 220}.Output(RefrigeratorFreezing) }, 1},
		{"solar day", func() float64 { return SolarPanel{PeakWatts: 3000}.Output(SolarDay) }, 3000},
		{"solar night", func() float64 { return SolarPanel{PeakWatts: 3000}.Output(SolarNight) }, 0},
		{"solar off in daylight", func() float64 { return SolarPanel{PeakWatts: 3000}.Output(SolarOffDay) }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.model(), 1e-12)
		})
	}
}

func TestHeater_SwitchOnAndHeatAtSameInstant_DrawsFullCurrent(t *testing.T) {
	// GIVEN a default heater
	m, err := New(KindHeater, "heater", nil)
	require.NoError(t, err)
	m.Initialise(0)

	// WHEN SwitchOn and Heat both occur at 0, injected in reverse order
	require.NoError(t, m.InjectNamed("Heat", 0))
	require.NoError(t, m.InjectNamed("SwitchOn", 0))
	sim.Resolve(m, 0)

	// THEN the heater is heating and exports 10 A
	assert.Equal(t, "HEATING", m.StateName())
	assert.InDelta(t, 10.0, m.Read().Value, 1e-12)
}

func TestHeater_TwoHourRun_ConsumesFourPointFourKWh(t *testing.T) {
	// GIVEN a heater and its thermal twin following the same commands
	s := sim.NewSimulator(sim.Config{})
	heater, err := New(KindHeater, "heater", nil)
	require.NoError(t, err)
	thermal, err := New(KindHeaterThermal, "heater.thermal", nil)
	require.NoError(t, err)
	s.AddModel(heater)
	s.AddModel(thermal)
	for _, ev := range []string{"SwitchOn", "Heat", "DoNotHeat", "SwitchOff"} {
		s.Router().Add("heater", ev, sim.Route{Target: "heater.thermal", Event: ev})
	}

	// WHEN it heats from 0 to 2h
	require.NoError(t, s.Inject("heater", "SwitchOn", 0))
	require.NoError(t, s.Inject("heater", "Heat", 0))
	require.NoError(t, s.Inject("heater", "SwitchOff", sim.AtHours(2)))
	report, err := s.Run()
	require.NoError(t, err)

	// THEN 10 A × 220 V × 2 h = 4400 Wh, and the twin delivers the same heat
	h, _ := report.Find("heater")
	assert.InDelta(t, 4400.0, h.TotalWh, 1e-9)
	assert.Equal(t, "OFF", h.State)
	th, _ := report.Find("heater.thermal")
	assert.InDelta(t, 4400.0, th.TotalWh, 1e-9)
	assert.Equal(t, "observer", th.Role)

	// AND the meter only accounts for the electric side
	assert.InDelta(t, 4400.0, report.ConsumedWh, 1e-9)
	assert.Equal(t, 0.0, report.ProducedWh)
}

func TestMeter_SumsHeaterOffAndGardenStandby(t *testing.T) {
	heater, err := New(KindHeater, "heater", nil)
	require.NoError(t, err)
	garden, err := New(KindIndoorGarden, "garden", nil)
	require.NoError(t, err)
	heater.Initialise(0)
	garden.Initialise(0)
	require.NoError(t, garden.InjectNamed("SwitchOn", 0))
	sim.Resolve(garden, 0)

	meter := sim.NewMeter()
	meter.Observe(heater, garden)

	assert.InDelta(t, 0.05, meter.CurrentConsumption(), 1e-12)
}

func TestElectricBlanket_KeepsTemperatureSettingAcrossModes(t *testing.T) {
	b := ElectricBlanket{}
	s := b.Initial()
	steps := []struct {
		event BlanketEvent
		want  string
	}{
		{BlanketSwitchOn, "ON_LOW"},
		{BlanketSetHighTemperature, "ON_HIGH"},
		{BlanketHeat, "HEATING_HIGH"},
		{BlanketDoNotHeat, "ON_HIGH"},
		{BlanketSwitchOff, "OFF"},
		{BlanketSwitchOn, "ON_HIGH"},
		{BlanketSetLowTemperature, "ON_LOW"},
	}
	for _, st := range steps {
		next, ok := b.Apply(s, st.event)
		require.True(t, ok, "%s in %s", st.event, s)
		assert.Equal(t, st.want, next.String())
		s = next
	}
	_, ok := b.Apply(BlanketState{}, BlanketHeat)
	assert.False(t, ok)
}

func TestSolarPanel_TracksDaylightWhileOff(t *testing.T) {
	p := SolarPanel{PeakWatts: 3000}
	s := p.Initial()
	for _, st := range []struct {
		event SolarEvent
		want  SolarState
	}{
		{SolarSunRise, SolarOffDay},
		{SolarSwitchOn, SolarDay},
		{SolarSunSet, SolarNight},
		{SolarSwitchOff, SolarOffNight},
	} {
		next, ok := p.Apply(s, st.event)
		require.True(t, ok)
		assert.Equal(t, st.want, next)
		s = next
	}
	_, ok := p.Apply(SolarOffDay, SolarSwitchOff)
	assert.False(t, ok)
}

func TestIllegalPairs_AreUndefined(t *testing.T) {
	_, ok := Heater{}.Apply(HeaterOff, HeaterHeat)
	assert.False(t, ok)
	_, ok = Heater{}.Apply(HeaterOn, HeaterSwitchOn)
	assert.False(t, ok)
	_, ok = HairDryer{}.Apply(HairDryerOff, HairDryerSetHigh)
	assert.False(t, ok)
	_, ok = IndoorGarden{}.Apply(GardenOff, GardenSwitchOff)
	assert.False(t, ok)
	_, ok = AirConditioner{}.Apply(AirConditionerOff, AirConditionerCool)
	assert.False(t, ok)
	_, ok = Refrigerator{}.Apply(RefrigeratorOff, RefrigeratorRest)
	assert.False(t, ok)
}

func TestEnumNames_OutOfRange(t *testing.T) {
	assert.Equal(t, "HeaterState(7)", HeaterState(7).String())
	assert.Equal(t, "SolarEvent(-1)", SolarEvent(-1).String())
}
