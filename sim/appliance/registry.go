package appliance

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hemsim/hemsim/sim"
)

// Appliance kind names, as used in household configuration files.
const (
	KindHeater          = "heater"
	KindHeaterThermal   = "heater-thermal"
	KindHairDryer       = "hair-dryer"
	KindIndoorGarden    = "indoor-garden"
	KindElectricBlanket = "electric-blanket"
	KindAirConditioner  = "air-conditioner"
	KindRefrigerator    = "refrigerator"
	KindSolarPanel      = "solar-panel"
)

// DefaultVoltage is the mains tension of the household, in volts.
const DefaultVoltage = 220.0

// Params holds the numeric parameters of an appliance, keyed by name.
type Params map[string]float64

type entry struct {
	defaults Params
	events   []string
	build    func(id string, p Params) sim.Model
}

var registry = map[string]entry{
	KindHeater: {
		defaults: Params{"voltage": DefaultVoltage, "idle_watts": 22, "heat_watts": 2200},
		events:   heaterEventNames,
		build: func(id string, p Params) sim.Model {
			return NewHeater(id, Heater{Voltage: p["voltage"], IdleWatts: p["idle_watts"], HeatWatts: p["heat_watts"]})
		},
	},
	KindHeaterThermal: {
		defaults: Params{"heat_watts": 2200, "efficiency": 1},
		events:   heaterEventNames,
		build: func(id string, p Params) sim.Model {
			return NewHeaterThermal(id, HeaterThermal{HeatWatts: p["heat_watts"], Efficiency: p["efficiency"]})
		},
	},
	KindHairDryer: {
		defaults: Params{"voltage": DefaultVoltage, "low_watts": 660, "high_watts": 1100},
		events:   hairDryerEventNames,
		build: func(id string, p Params) sim.Model {
			return NewHairDryer(id, HairDryer{Voltage: p["voltage"], LowWatts: p["low_watts"], HighWatts: p["high_watts"]})
		},
	},
	KindIndoorGarden: {
		defaults: Params{"voltage": DefaultVoltage, "standby_watts": 11, "light_watts": 110},
		events:   gardenEventNames,
		build: func(id string, p Params) sim.Model {
			return NewIndoorGarden(id, IndoorGarden{Voltage: p["voltage"], StandbyWatts: p["standby_watts"], LightWatts: p["light_watts"]})
		},
	},
	KindElectricBlanket: {
		defaults: Params{"voltage": DefaultVoltage, "standby_watts": 11, "low_watts": 60, "high_watts": 120},
		events:   blanketEventNames,
		build: func(id string, p Params) sim.Model {
			return NewElectricBlanket(id, ElectricBlanket{
				Voltage: p["voltage"], StandbyWatts: p["standby_watts"], LowWatts: p["low_watts"], HighWatts: p["high_watts"],
			})
		},
	},
	KindAirConditioner: {
		defaults: Params{"voltage": DefaultVoltage, "idle_watts": 44, "cool_watts": 1100},
		events:   airConditionerEventNames,
		build: func(id string, p Params) sim.Model {
			return NewAirConditioner(id, AirConditioner{Voltage: p["voltage"], IdleWatts: p["idle_watts"], CoolWatts: p["cool_watts"]})
		},
	},
	KindRefrigerator: {
		defaults: Params{"voltage": DefaultVoltage, "idle_watts": 22, "freeze_watts": 220},
		events:   refrigeratorEventNames,
		build: func(id string, p Params) sim.Model {
			return NewRefrigerator(id, Refrigerator{Voltage: p["voltage"], IdleWatts: p["idle_watts"], FreezeWatts: p["freeze_watts"]})
		},
	},
	KindSolarPanel: {
		defaults: Params{"peak_watts": 3000},
		events:   solarEventNames,
		build: func(id string, p Params) sim.Model {
			return NewSolarPanel(id, SolarPanel{PeakWatts: p["peak_watts"]})
		},
	},
}

// Kinds returns the registered appliance kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// IsValidKind returns true if kind names a registered appliance.
func IsValidKind(kind string) bool {
	_, ok := registry[kind]
	return ok
}

// Defaults returns a copy of the default parameters of kind.
func Defaults(kind string) (Params, bool) {
	e, ok := registry[kind]
	if !ok {
		return nil, false
	}
	return merge(e.defaults, nil), true
}

// Events returns the event names of kind in priority order.
func Events(kind string) ([]string, bool) {
	e, ok := registry[kind]
	if !ok {
		return nil, false
	}
	return append([]string(nil), e.events...), true
}

// Accepts reports whether event names an event of kind, ignoring case.
func Accepts(kind, event string) bool {
	for _, name := range registry[kind].events {
		if strings.EqualFold(name, event) {
			return true
		}
	}
	return false
}

// Resolve merges overrides into the defaults of kind and validates the result:
// unknown keys, non-finite and negative values are rejected, and a voltage
// must be positive.
func Resolve(kind string, overrides Params) (Params, error) {
	e, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("unknown appliance kind %q; valid: %v", kind, Kinds())
	}
	for k := range overrides {
		if _, known := e.defaults[k]; !known {
			return nil, fmt.Errorf("%s: unknown parameter %q", kind, k)
		}
	}
	p := merge(e.defaults, overrides)
	for k, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%s: parameter %s must be a finite number, got %f", kind, k, v)
		}
		if v < 0 {
			return nil, fmt.Errorf("%s: parameter %s must be non-negative, got %f", kind, k, v)
		}
	}
	if v, has := p["voltage"]; has && v <= 0 {
		return nil, fmt.Errorf("%s: voltage must be positive, got %f", kind, v)
	}
	return p, nil
}

// New builds a model of the given kind.
func New(kind, id string, overrides Params) (sim.Model, error) {
	if id == "" {
		return nil, fmt.Errorf("%s: empty model id", kind)
	}
	p, err := Resolve(kind, overrides)
	if err != nil {
		return nil, err
	}
	return registry[kind].build(id, p), nil
}

func merge(base, overrides Params) Params {
	out := make(Params, len(base))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
