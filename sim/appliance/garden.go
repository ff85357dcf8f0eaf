package appliance

import "github.com/hemsim/hemsim/sim"

// GardenState is the operating state of an indoor garden.
type GardenState int

const (
	GardenOff GardenState = iota
	GardenLightOff
	GardenLightOn
)

var gardenStateNames = []string{"OFF", "LIGHT_OFF", "LIGHT_ON"}

func (s GardenState) String() string { return enumName(gardenStateNames, int(s), "GardenState") }

// GardenEvent is an indoor garden control command.
type GardenEvent int

const (
	GardenSwitchOn GardenEvent = iota
	GardenSwitchLightOff
	GardenSwitchLightOn
	GardenSwitchOff
)

var gardenEventNames = []string{"SwitchOn", "SwitchLightOff", "SwitchLightOn", "SwitchOff"}

func (e GardenEvent) String() string { return enumName(gardenEventNames, int(e), "GardenEvent") }
func (e GardenEvent) Rank() int      { return int(e) }

// IndoorGarden powers its controller when on and its grow light when lit.
type IndoorGarden struct {
	Voltage      float64
	StandbyWatts float64
	LightWatts   float64
}

func (IndoorGarden) Domain() string       { return KindIndoorGarden }
func (IndoorGarden) Initial() GardenState { return GardenOff }

func (IndoorGarden) Apply(s GardenState, e GardenEvent) (GardenState, bool) {
	switch e {
	case GardenSwitchOn:
		if s == GardenOff {
			return GardenLightOff, true
		}
	case GardenSwitchLightOff:
		if s != GardenOff {
			return GardenLightOff, true
		}
	case GardenSwitchLightOn:
		if s != GardenOff {
			return GardenLightOn, true
		}
	case GardenSwitchOff:
		if s != GardenOff {
			return GardenOff, true
		}
	}
	return s, false
}

func (g IndoorGarden) Output(s GardenState) float64 {
	switch s {
	case GardenLightOff:
		return g.StandbyWatts / g.Voltage
	case GardenLightOn:
		return g.LightWatts / g.Voltage
	default:
		return 0
	}
}

func (IndoorGarden) ParseKind(name string) (GardenEvent, error) {
	return parseKind(KindIndoorGarden, name, gardenEvents)
}

func (IndoorGarden) Kinds() []GardenEvent { return gardenEvents }
func (IndoorGarden) States() []GardenState {
	return []GardenState{GardenOff, GardenLightOff, GardenLightOn}
}

var gardenEvents = []GardenEvent{GardenSwitchOn, GardenSwitchLightOff, GardenSwitchLightOn, GardenSwitchOff}

// NewIndoorGarden creates an indoor garden model.
func NewIndoorGarden(id string, g IndoorGarden) *sim.AtomicModel[GardenState, GardenEvent] {
	return sim.NewAtomicModel[GardenState, GardenEvent](id, sim.RoleConsumer, g.Voltage, g)
}
