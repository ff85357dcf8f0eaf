package appliance

import "github.com/hemsim/hemsim/sim"

// HairDryerState is the operating state of a hair dryer.
type HairDryerState int

const (
	HairDryerOff HairDryerState = iota
	HairDryerLow
	HairDryerHigh
)

var hairDryerStateNames = []string{"OFF", "LOW", "HIGH"}

func (s HairDryerState) String() string {
	return enumName(hairDryerStateNames, int(s), "HairDryerState")
}

// HairDryerEvent is a hair dryer control command.
type HairDryerEvent int

const (
	HairDryerSwitchOn HairDryerEvent = iota
	HairDryerSetHigh
	HairDryerSetLow
	HairDryerSwitchOff
)

var hairDryerEventNames = []string{"SwitchOn", "SetHigh", "SetLow", "SwitchOff"}

func (e HairDryerEvent) String() string {
	return enumName(hairDryerEventNames, int(e), "HairDryerEvent")
}
func (e HairDryerEvent) Rank() int { return int(e) }

// HairDryer starts in its low setting when switched on.
type HairDryer struct {
	Voltage   float64
	LowWatts  float64
	HighWatts float64
}

func (HairDryer) Domain() string          { return KindHairDryer }
func (HairDryer) Initial() HairDryerState { return HairDryerOff }

func (HairDryer) Apply(s HairDryerState, e HairDryerEvent) (HairDryerState, bool) {
	switch e {
	case HairDryerSwitchOn:
		if s == HairDryerOff {
			return HairDryerLow, true
		}
	case HairDryerSetHigh:
		if s != HairDryerOff {
			return HairDryerHigh, true
		}
	case HairDryerSetLow:
		if s != HairDryerOff {
			return HairDryerLow, true
		}
	case HairDryerSwitchOff:
		if s != HairDryerOff {
			return HairDryerOff, true
		}
	}
	return s, false
}

func (h HairDryer) Output(s HairDryerState) float64 {
	switch s {
	case HairDryerLow:
		return h.LowWatts / h.Voltage
	case HairDryerHigh:
		return h.HighWatts / h.Voltage
	default:
		return 0
	}
}

func (HairDryer) ParseKind(name string) (HairDryerEvent, error) {
	return parseKind(KindHairDryer, name, hairDryerEvents)
}

func (HairDryer) Kinds() []HairDryerEvent { return hairDryerEvents }
func (HairDryer) States() []HairDryerState {
	return []HairDryerState{HairDryerOff, HairDryerLow, HairDryerHigh}
}

var hairDryerEvents = []HairDryerEvent{HairDryerSwitchOn, HairDryerSetHigh, HairDryerSetLow, HairDryerSwitchOff}

// NewHairDryer creates a hair dryer model.
func NewHairDryer(id string, h HairDryer) *sim.AtomicModel[HairDryerState, HairDryerEvent] {
	return sim.NewAtomicModel[HairDryerState, HairDryerEvent](id, sim.RoleConsumer, h.Voltage, h)
}
