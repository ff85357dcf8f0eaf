package sim

import (
	"fmt"
	"strings"
)

// lamp is a minimal domain used to exercise the engine without depending on
// the appliance package: OFF, DIM (0.5 A) and BRIGHT (1 A) at 100 V.
type lampState int

const (
	lampOff lampState = iota
	lampDim
	lampBright
)

func (s lampState) String() string {
	return [...]string{"OFF", "DIM", "BRIGHT"}[s]
}

type lampEvent int

const (
	lampSwitchOn lampEvent = iota
	lampSetDim
	lampSetBright
	lampSwitchOff
)

func (e lampEvent) String() string {
	return [...]string{"SwitchOn", "SetDim", "SetBright", "SwitchOff"}[e]
}

func (e lampEvent) Rank() int { return int(e) }

type lamp struct{}

func (lamp) Domain() string     { return "lamp" }
func (lamp) Initial() lampState { return lampOff }

func (lamp) Apply(s lampState, e lampEvent) (lampState, bool) {
	switch e {
	case lampSwitchOn:
		if s == lampOff {
			return lampDim, true
		}
	case lampSetDim:
		if s != lampOff {
			return lampDim, true
		}
	case lampSetBright:
		if s != lampOff {
			return lampBright, true
		}
	case lampSwitchOff:
		if s != lampOff {
			return lampOff, true
		}
	}
	return s, false
}

func (lamp) Output(s lampState) float64 {
	return [...]float64{0, 0.5, 1}[s]
}

func (lamp) ParseKind(name string) (lampEvent, error) {
	for _, k := range lampKinds {
		if strings.EqualFold(k.String(), name) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("lamp event %q: %w", name, ErrUnknownKind)
}

func (lamp) Kinds() []lampEvent  { return lampKinds }
func (lamp) States() []lampState { return []lampState{lampOff, lampDim, lampBright} }

var lampKinds = []lampEvent{lampSwitchOn, lampSetDim, lampSetBright, lampSwitchOff}

const lampVoltage = 100.0

func newLamp(id string) *AtomicModel[lampState, lampEvent] {
	return NewAtomicModel[lampState, lampEvent](id, RoleConsumer, lampVoltage, lamp{})
}

// sun is a producer exporting a constant 500 W while on.
type sunState bool

func (s sunState) String() string {
	if s {
		return "UP"
	}
	return "DOWN"
}

type sunEvent int

const (
	sunRise sunEvent = iota
	sunSet
)

func (e sunEvent) String() string { return [...]string{"Rise", "Set"}[e] }
func (e sunEvent) Rank() int      { return int(e) }

type sun struct{}

func (sun) Domain() string    { return "sun" }
func (sun) Initial() sunState { return false }
func (sun) Apply(_ sunState, e sunEvent) (sunState, bool) {
	return e == sunRise, true
}
func (sun) Output(s sunState) float64 {
	if s {
		return 500
	}
	return 0
}
func (sun) ParseKind(name string) (sunEvent, error) {
	switch name {
	case "Rise":
		return sunRise, nil
	case "Set":
		return sunSet, nil
	}
	return 0, fmt.Errorf("sun event %q: %w", name, ErrUnknownKind)
}
func (sun) Kinds() []sunEvent  { return []sunEvent{sunRise, sunSet} }
func (sun) States() []sunState { return []sunState{false, true} }

func newSun(id string) *AtomicModel[sunState, sunEvent] {
	return NewAtomicModel[sunState, sunEvent](id, RoleProducer, 0, sun{})
}

// step drives m through one external transition at t followed by the
// recompute it requests.
func step[S State, K Kind](m *AtomicModel[S, K], t Instant) {
	m.ExternalTransition(t.Sub(m.Now()))
	if m.TimeAdvance().IsImmediate() {
		m.InternalTransition()
	}
}
