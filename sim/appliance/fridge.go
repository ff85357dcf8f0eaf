package appliance

import "github.com/hemsim/hemsim/sim"

// RefrigeratorState is the operating state of a refrigerator.
type RefrigeratorState int

const (
	RefrigeratorOff RefrigeratorState = iota
	RefrigeratorOn
	RefrigeratorFreezing
)

var refrigeratorStateNames = []string{"OFF", "ON", "FREEZING"}

func (s RefrigeratorState) String() string {
	return enumName(refrigeratorStateNames, int(s), "RefrigeratorState")
}

// RefrigeratorEvent is a refrigerator control command.
type RefrigeratorEvent int

const (
	RefrigeratorSwitchOn RefrigeratorEvent = iota
	RefrigeratorRest
	RefrigeratorFreeze
	RefrigeratorSwitchOff
)

var refrigeratorEventNames = []string{"SwitchOn", "Rest", "Freeze", "SwitchOff"}

func (e RefrigeratorEvent) String() string {
	return enumName(refrigeratorEventNames, int(e), "RefrigeratorEvent")
}
func (e RefrigeratorEvent) Rank() int { return int(e) }

// Refrigerator draws its compressor power while freezing.
type Refrigerator struct {
	Voltage     float64
	IdleWatts   float64
	FreezeWatts float64
}

func (Refrigerator) Domain() string             { return KindRefrigerator }
func (Refrigerator) Initial() RefrigeratorState { return RefrigeratorOff }

func (Refrigerator) Apply(s RefrigeratorState, e RefrigeratorEvent) (RefrigeratorState, bool) {
	switch e {
	case RefrigeratorSwitchOn:
		if s == RefrigeratorOff {
			return RefrigeratorOn, true
		}
	case RefrigeratorRest:
		if s != RefrigeratorOff {
			return RefrigeratorOn, true
		}
	case RefrigeratorFreeze:
		if s != RefrigeratorOff {
			return RefrigeratorFreezing, true
		}
	case RefrigeratorSwitchOff:
		if s != RefrigeratorOff {
			return RefrigeratorOff, true
		}
	}
	return s, false
}

func (r Refrigerator) Output(s RefrigeratorState) float64 {
	switch s {
	case RefrigeratorOn:
		return r.IdleWatts / r.Voltage
	case RefrigeratorFreezing:
		return r.FreezeWatts / r.Voltage
	default:
		return 0
	}
}

func (Refrigerator) ParseKind(name string) (RefrigeratorEvent, error) {
	return parseKind(KindRefrigerator, name, refrigeratorEvents)
}

func (Refrigerator) Kinds() []RefrigeratorEvent { return refrigeratorEvents }
func (Refrigerator) States() []RefrigeratorState {
	return []RefrigeratorState{RefrigeratorOff, RefrigeratorOn, RefrigeratorFreezing}
}

var refrigeratorEvents = []RefrigeratorEvent{
	RefrigeratorSwitchOn, RefrigeratorRest, RefrigeratorFreeze, RefrigeratorSwitchOff,
}

// NewRefrigerator creates a refrigerator model.
func NewRefrigerator(id string, r Refrigerator) *sim.AtomicModel[RefrigeratorState, RefrigeratorEvent] {
	return sim.NewAtomicModel[RefrigeratorState, RefrigeratorEvent](id, sim.RoleConsumer, r.Voltage, r)
}
