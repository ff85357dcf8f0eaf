package appliance

import "github.com/hemsim/hemsim/sim"

// HeaterState is the operating state of a heater.
type HeaterState int

const (
	HeaterOff HeaterState = iota
	HeaterOn
	HeaterHeating
)

var heaterStateNames = []string{"OFF", "ON", "HEATING"}

func (s HeaterState) String() string { return enumName(heaterStateNames, int(s), "HeaterState") }

// HeaterEvent is a heater control command.
type HeaterEvent int

const (
	HeaterSwitchOn HeaterEvent = iota
	HeaterDoNotHeat
	HeaterHeat
	HeaterSwitchOff
)

var heaterEventNames = []string{"SwitchOn", "DoNotHeat", "Heat", "SwitchOff"}

func (e HeaterEvent) String() string { return enumName(heaterEventNames, int(e), "HeaterEvent") }
func (e HeaterEvent) Rank() int      { return int(e) }

// Heater draws a small standby current when on and its full power when heating.
type Heater struct {
	Voltage   float64
	IdleWatts float64
	HeatWatts float64
}

func (Heater) Domain() string       { return KindHeater }
func (Heater) Initial() HeaterState { return HeaterOff }

func (Heater) Apply(s HeaterState, e HeaterEvent) (HeaterState, bool) {
	return applyHeater(s, e)
}

func (h Heater) Output(s HeaterState) float64 {
	switch s {
	case HeaterOn:
		return h.IdleWatts / h.Voltage
	case HeaterHeating:
		return h.HeatWatts / h.Voltage
	default:
		return 0
	}
}

func (Heater) ParseKind(name string) (HeaterEvent, error) {
	return parseKind(KindHeater, name, heaterEvents)
}

func (Heater) Kinds() []HeaterEvent  { return heaterEvents }
func (Heater) States() []HeaterState { return heaterStates }

var (
	heaterEvents = []HeaterEvent{HeaterSwitchOn, HeaterDoNotHeat, HeaterHeat, HeaterSwitchOff}
	heaterStates = []HeaterState{HeaterOff, HeaterOn, HeaterHeating}
)

func applyHeater(s HeaterState, e HeaterEvent) (HeaterState, bool) {
	switch e {
	case HeaterSwitchOn:
		if s == HeaterOff {
			return HeaterOn, true
		}
	case HeaterDoNotHeat:
		if s != HeaterOff {
			return HeaterOn, true
		}
	case HeaterHeat:
		if s != HeaterOff {
			return HeaterHeating, true
		}
	case HeaterSwitchOff:
		if s != HeaterOff {
			return HeaterOff, true
		}
	}
	return s, false
}

// HeaterThermal is the thermal twin of a heater: it follows the same states and
// commands and exports the heat delivered to the room, in watts.
type HeaterThermal struct {
	HeatWatts  float64
	Efficiency float64
}

func (HeaterThermal) Domain() string       { return KindHeaterThermal }
func (HeaterThermal) Initial() HeaterState { return HeaterOff }

func (HeaterThermal) Apply(s HeaterState, e HeaterEvent) (HeaterState, bool) {
	return applyHeater(s, e)
}

func (h HeaterThermal) Output(s HeaterState) float64 {
	if s == HeaterHeating {
		return h.HeatWatts * h.Efficiency
	}
	return 0
}

func (HeaterThermal) ParseKind(name string) (HeaterEvent, error) {
	return parseKind(KindHeaterThermal, name, heaterEvents)
}

func (HeaterThermal) Kinds() []HeaterEvent  { return heaterEvents }
func (HeaterThermal) States() []HeaterState { return heaterStates }

// NewHeater creates a heater model drawing current from voltage.
func NewHeater(id string, h Heater) *sim.AtomicModel[HeaterState, HeaterEvent] {
	return sim.NewAtomicModel[HeaterState, HeaterEvent](id, sim.RoleConsumer, h.Voltage, h)
}

// NewHeaterThermal creates the thermal twin model of a heater.
func NewHeaterThermal(id string, h HeaterThermal) *sim.AtomicModel[HeaterState, HeaterEvent] {
	return sim.NewAtomicModel[HeaterState, HeaterEvent](id, sim.RoleObserver, 0, h)
}
