package appliance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemsim/hemsim/sim"
)

// domainCase exercises one appliance domain through the generic engine.
type domainCase interface {
	name() string
	run(t *testing.T)
}

type domain[S sim.State, K sim.Kind] struct {
	behavior sim.Behavior[S, K]
	newModel func(id string) *sim.AtomicModel[S, K]
}

func (d domain[S, K]) name() string { return d.behavior.Domain() }

func (d domain[S, K]) run(t *testing.T) {
	b := d.behavior

	t.Run("ranks are distinct and antisymmetric", func(t *testing.T) {
		seen := map[int]K{}
		for _, k := range b.Kinds() {
			if prev, dup := seen[k.Rank()]; dup {
				t.Fatalf("%s and %s share rank %d", prev, k, k.Rank())
			}
			seen[k.Rank()] = k
		}
		for _, a := range b.Kinds() {
			for _, c := range b.Kinds() {
				if a == c {
					assert.False(t, sim.HasPriorityOver(a, c))
					continue
				}
				assert.NotEqual(t, sim.HasPriorityOver(a, c), sim.HasPriorityOver(c, a), "%s vs %s", a, c)
			}
		}
	})

	t.Run("event names parse case-insensitively", func(t *testing.T) {
		for _, k := range b.Kinds() {
			got, err := b.ParseKind(strings.ToLower(k.String()))
			require.NoError(t, err)
			assert.Equal(t, k, got)
		}
		_, err := b.ParseKind("Explode")
		assert.ErrorIs(t, err, sim.ErrUnknownKind)
	})

	t.Run("every state has a name and an output", func(t *testing.T) {
		for _, s := range b.States() {
			assert.NotContains(t, s.String(), "(")
			assert.GreaterOrEqual(t, b.Output(s), 0.0, "%s", s)
		}
		assert.Equal(t, 0.0, b.Output(b.Initial()))
	})

	t.Run("same-instant pairs commute", func(t *testing.T) {
		switchOn := b.Kinds()[0]
		for _, on := range []bool{false, true} {
			for _, a := range b.Kinds() {
				for _, c := range b.Kinds() {
					first, errFirst := d.fold(on, switchOn, a, c)
					second, errSecond := d.fold(on, switchOn, c, a)
					require.Equal(t, errFirst == nil, errSecond == nil, "on=%v %s,%s: %v / %v", on, a, c, errFirst, errSecond)
					if errFirst == nil {
						assert.Equal(t, first, second, "on=%v %s,%s", on, a, c)
					}
				}
			}
		}
	})
}

// fold injects a then c at the same instant, optionally after switching the
// model on, and returns the state reached.
func (d domain[S, K]) fold(on bool, switchOn, a, c K) (string, error) {
	m := d.newModel("m")
	m.Initialise(0)
	if on {
		if err := m.Inject(switchOn, 0); err != nil {
			return "", err
		}
		sim.Resolve(m, 0)
	}
	at := sim.AtHours(1)
	if err := m.Inject(a, at); err != nil {
		return "", err
	}
	if err := m.Inject(c, at); err != nil {
		return "", err
	}
	err := sim.Guard(func() { sim.Resolve(m, at) })
	return m.StateName(), err
}

func allDomains() []domainCase {
	return []domainCase{
		domain[HeaterState, HeaterEvent]{Heater{Voltage: 220, IdleWatts: 22, HeatWatts: 2200}, func(id string) *sim.AtomicModel[HeaterState, HeaterEvent] {
			return NewHeater(id, Heater{Voltage: 220, IdleWatts: 22, HeatWatts: 2200})
		}},
		domain[HeaterState, HeaterEvent]{HeaterThermal{HeatWatts: 2200, Efficiency: 1}, func(id string) *sim.AtomicModel[HeaterState, HeaterEvent] {
			return NewHeaterThermal(id, HeaterThermal{HeatWatts: 2200, Efficiency: 1})
		}},
		domain[HairDryerState, HairDryerEvent]{HairDryer{Voltage: 220, LowWatts: 660, HighWatts: 1100}, func(id string) *sim.AtomicModel[HairDryerState, HairDryerEvent] {
			return NewHairDryer(id, HairDryer{Voltage: 220, LowWatts: 660, HighWatts: 1100})
		}},
		domain[GardenState, GardenEvent]{IndoorGarden{Voltage: 220, StandbyWatts: 11, LightWatts: 110}, func(id string) *sim.AtomicModel[GardenState, GardenEvent] {
			return NewIndoorGarden(id, IndoorGarden{Voltage: 220, StandbyWatts: 11, LightWatts: 110})
		}},
		domain[BlanketState, BlanketEvent]{ElectricBlanket{Voltage: 220, StandbyWatts: 11, LowWatts: 60, HighWatts: 120}, func(id string) *sim.AtomicModel[BlanketState, BlanketEvent] {
			return NewElectricBlanket(id, ElectricBlanket{Voltage: 220, StandbyWatts: 11, LowWatts: 60, HighWatts: 120})
		}},
		domain[AirConditionerState, AirConditionerEvent]{AirConditioner{Voltage: 220, IdleWatts: 44, CoolWatts: 1100}, func(id string) *sim.AtomicModel[AirConditionerState, AirConditionerEvent] {
			return NewAirConditioner(id, AirConditioner{Voltage: 220, IdleWatts: 44, CoolWatts: 1100})
		}},
		domain[RefrigeratorState, RefrigeratorEvent]{Refrigerator{Voltage: 220, IdleWatts: 22, FreezeWatts: 220}, func(id string) *sim.AtomicModel[RefrigeratorState, RefrigeratorEvent] {
			return NewRefrigerator(id, Refrigerator{Voltage: 220, IdleWatts: 22, FreezeWatts: 220})
		}},
		domain[SolarState, SolarEvent]{SolarPanel{PeakWatts: 3000}, func(id string) *sim.AtomicModel[SolarState, SolarEvent] {
			return NewSolarPanel(id, SolarPanel{PeakWatts: 3000})
		}},
	}
}

func TestDomains(t *testing.T) {
	domains := allDomains()
	require.Len(t, domains, len(Kinds()))
	for _, d := range domains {
		t.Run(d.name(), d.run)
	}
}
