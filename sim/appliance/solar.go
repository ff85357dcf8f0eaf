package appliance

import "github.com/hemsim/hemsim/sim"

// SolarState is the operating state of a solar panel: whether its inverter is
// on and whether the sun is up.
type SolarState int

const (
	SolarOffNight SolarState = iota
	SolarOffDay
	SolarNight
	SolarDay
)

var solarStateNames = []string{"OFF_NIGHT", "OFF_DAY", "NIGHT", "DAY"}

func (s SolarState) String() string { return enumName(solarStateNames, int(s), "SolarState") }

func (s SolarState) on() bool       { return s == SolarNight || s == SolarDay }
func (s SolarState) daylight() bool { return s == SolarOffDay || s == SolarDay }

func solarState(on, daylight bool) SolarState {
	switch {
	case on && daylight:
		return SolarDay
	case on:
		return SolarNight
	case daylight:
		return SolarOffDay
	default:
		return SolarOffNight
	}
}

// SolarEvent is a solar panel command or environment change.
type SolarEvent int

const (
	SolarSwitchOn SolarEvent = iota
	SolarSunSet
	SolarSunRise
	SolarSwitchOff
)

var solarEventNames = []string{"SwitchOn", "SunSet", "SunRise", "SwitchOff"}

func (e SolarEvent) String() string { return enumName(solarEventNames, int(e), "SolarEvent") }
func (e SolarEvent) Rank() int      { return int(e) }

// SolarPanel produces its peak power while on in daylight. It exports watts.
type SolarPanel struct {
	PeakWatts float64
}

func (SolarPanel) Domain() string      { return KindSolarPanel }
func (SolarPanel) Initial() SolarState { return SolarOffNight }

func (SolarPanel) Apply(s SolarState, e SolarEvent) (SolarState, bool) {
	switch e {
	case SolarSwitchOn:
		if !s.on() {
			return solarState(true, s.daylight()), true
		}
	case SolarSwitchOff:
		if s.on() {
			return solarState(false, s.daylight()), true
		}
	case SolarSunRise:
		return solarState(s.on(), true), true
	case SolarSunSet:
		return solarState(s.on(), false), true
	}
	return s, false
}

func (p SolarPanel) Output(s SolarState) float64 {
	if s == SolarDay {
		return p.PeakWatts
	}
	return 0
}

func (SolarPanel) ParseKind(name string) (SolarEvent, error) {
	return parseKind(KindSolarPanel, name, solarEvents)
}

func (SolarPanel) Kinds() []SolarEvent { return solarEvents }
func (SolarPanel) States() []SolarState {
	return []SolarState{SolarOffNight, SolarOffDay, SolarNight, SolarDay}
}

var solarEvents = []SolarEvent{SolarSwitchOn, SolarSunSet, SolarSunRise, SolarSwitchOff}

// NewSolarPanel creates a solar panel model.
func NewSolarPanel(id string, p SolarPanel) *sim.AtomicModel[SolarState, SolarEvent] {
	return sim.NewAtomicModel[SolarState, SolarEvent](id, sim.RoleProducer, 0, p)
}
