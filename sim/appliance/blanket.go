package appliance

import "github.com/hemsim/hemsim/sim"

// BlanketMode is the operating mode of an electric blanket.
type BlanketMode int

const (
	BlanketOff BlanketMode = iota
	BlanketOn
	BlanketHeating
)

var blanketModeNames = []string{"OFF", "ON", "HEATING"}

func (m BlanketMode) String() string { return enumName(blanketModeNames, int(m), "BlanketMode") }

// BlanketState is the mode of the blanket together with its temperature
// setting, which is kept while the blanket is not heating.
type BlanketState struct {
	Mode BlanketMode
	High bool
}

func (s BlanketState) String() string {
	if s.Mode == BlanketOff {
		return "OFF"
	}
	if s.High {
		return s.Mode.String() + "_HIGH"
	}
	return s.Mode.String() + "_LOW"
}

// BlanketEvent is an electric blanket control command.
type BlanketEvent int

const (
	BlanketSwitchOn BlanketEvent = iota
	BlanketDoNotHeat
	BlanketSetLowTemperature
	BlanketSetHighTemperature
	BlanketHeat
	BlanketSwitchOff
)

var blanketEventNames = []string{
	"SwitchOn", "DoNotHeat", "SetLowTemperature", "SetHighTemperature", "Heat", "SwitchOff",
}

func (e BlanketEvent) String() string { return enumName(blanketEventNames, int(e), "BlanketEvent") }
func (e BlanketEvent) Rank() int      { return int(e) }

// ElectricBlanket heats at one of two power levels.
type ElectricBlanket struct {
	Voltage      float64
	StandbyWatts float64
	LowWatts     float64
	HighWatts    float64
}

func (ElectricBlanket) Domain() string        { return KindElectricBlanket }
func (ElectricBlanket) Initial() BlanketState { return BlanketState{Mode: BlanketOff} }

func (ElectricBlanket) Apply(s BlanketState, e BlanketEvent) (BlanketState, bool) {
	on := s.Mode != BlanketOff
	switch e {
	case BlanketSwitchOn:
		if !on {
			return BlanketState{Mode: BlanketOn, High: s.High}, true
		}
	case BlanketDoNotHeat:
		if on {
			return BlanketState{Mode: BlanketOn, High: s.High}, true
		}
	case BlanketSetLowTemperature:
		if on {
			return BlanketState{Mode: s.Mode, High: false}, true
		}
	case BlanketSetHighTemperature:
		if on {
			return BlanketState{Mode: s.Mode, High: true}, true
		}
	case BlanketHeat:
		if on {
			return BlanketState{Mode: BlanketHeating, High: s.High}, true
		}
	case BlanketSwitchOff:
		if on {
			return BlanketState{Mode: BlanketOff, High: s.High}, true
		}
	}
	return s, false
}

func (b ElectricBlanket) Output(s BlanketState) float64 {
	switch s.Mode {
	case BlanketOn:
		return b.StandbyWatts / b.Voltage
	case BlanketHeating:
		if s.High {
			return b.HighWatts / b.Voltage
		}
		return b.LowWatts / b.Voltage
	default:
		return 0
	}
}

func (ElectricBlanket) ParseKind(name string) (BlanketEvent, error) {
	return parseKind(KindElectricBlanket, name, blanketEvents)
}

func (ElectricBlanket) Kinds() []BlanketEvent { return blanketEvents }

func (ElectricBlanket) States() []BlanketState {
	var states []BlanketState
	for _, m := range []BlanketMode{BlanketOff, BlanketOn, BlanketHeating} {
		states = append(states, BlanketState{Mode: m}, BlanketState{Mode: m, High: true})
	}
	return states
}

var blanketEvents = []BlanketEvent{
	BlanketSwitchOn, BlanketDoNotHeat, BlanketSetLowTemperature,
	BlanketSetHighTemperature, BlanketHeat, BlanketSwitchOff,
}

// NewElectricBlanket creates an electric blanket model.
func NewElectricBlanket(id string, b ElectricBlanket) *sim.AtomicModel[BlanketState, BlanketEvent] {
	return sim.NewAtomicModel[BlanketState, BlanketEvent](id, sim.RoleConsumer, b.Voltage, b)
}
