package appliance

import "github.com/hemsim/hemsim/sim"

// AirConditionerState is the operating state of an air conditioner.
type AirConditionerState int

const (
	AirConditionerOff AirConditionerState = iota
	AirConditionerOn
	AirConditionerCooling
)

var airConditionerStateNames = []string{"OFF", "ON", "COOLING"}

func (s AirConditionerState) String() string {
	return enumName(airConditionerStateNames, int(s), "AirConditionerState")
}

// AirConditionerEvent is an air conditioner control command.
type AirConditionerEvent int

const (
	AirConditionerSwitchOn AirConditionerEvent = iota
	AirConditionerDoNotCool
	AirConditionerCool
	AirConditionerSwitchOff
)

var airConditionerEventNames = []string{"SwitchOn", "DoNotCool", "Cool", "SwitchOff"}

func (e AirConditionerEvent) String() string {
	return enumName(airConditionerEventNames, int(e), "AirConditionerEvent")
}
func (e AirConditionerEvent) Rank() int { return int(e) }

// AirConditioner mirrors the heater: standby when on, full power when cooling.
type AirConditioner struct {
	Voltage   float64
	IdleWatts float64
	CoolWatts float64
}

func (AirConditioner) Domain() string               { return KindAirConditioner }
func (AirConditioner) Initial() AirConditionerState { return AirConditionerOff }

func (AirConditioner) Apply(s AirConditionerState, e AirConditionerEvent) (AirConditionerState, bool) {
	switch e {
	case AirConditionerSwitchOn:
		if s == AirConditionerOff {
			return AirConditionerOn, true
		}
	case AirConditionerDoNotCool:
		if s != AirConditionerOff {
			return AirConditionerOn, true
		}
	case AirConditionerCool:
		if s != AirConditionerOff {
			return AirConditionerCooling, true
		}
	case AirConditionerSwitchOff:
		if s != AirConditionerOff {
			return AirConditionerOff, true
		}
	}
	return s, false
}

func (a AirConditioner) Output(s AirConditionerState) float64 {
	switch s {
	case AirConditionerOn:
		return a.IdleWatts / a.Voltage
	case AirConditionerCooling:
		return a.CoolWatts / a.Voltage
	default:
		return 0
	}
}

func (AirConditioner) ParseKind(name string) (AirConditionerEvent, error) {
	return parseKind(KindAirConditioner, name, airConditionerEvents)
}

func (AirConditioner) Kinds() []AirConditionerEvent { return airConditionerEvents }
func (AirConditioner) States() []AirConditionerState {
	return []AirConditionerState{AirConditionerOff, AirConditionerOn, AirConditionerCooling}
}

var airConditionerEvents = []AirConditionerEvent{
	AirConditionerSwitchOn, AirConditionerDoNotCool, AirConditionerCool, AirConditionerSwitchOff,
}

// NewAirConditioner creates an air conditioner model.
func NewAirConditioner(id string, a AirConditioner) *sim.AtomicModel[AirConditionerState, AirConditionerEvent] {
	return sim.NewAtomicModel[AirConditionerState, AirConditionerEvent](id, sim.RoleConsumer, a.Voltage, a)
}
