package trace

import "sync"

// TraceLevel controls the verbosity of transition tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelTransitions captures every transition and injection.
	TraceLevelTransitions TraceLevel = "transitions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:        true,
	TraceLevelTransitions: true,
	"":                    true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelTransitions
}

// Recorder receives records from models. Implementations must be safe for
// concurrent use when models run on separate goroutines.
type Recorder interface {
	RecordTransition(TransitionRecord)
	RecordInjection(InjectionRecord)
}

// SimulationTrace collects transition and injection records during a run.
type SimulationTrace struct {
	Config TraceConfig

	mu          sync.Mutex
	Transitions []TransitionRecord
	Injections  []InjectionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:      config,
		Transitions: make([]TransitionRecord, 0),
		Injections:  make([]InjectionRecord, 0),
	}
}

// RecordTransition appends a transition record.
func (st *SimulationTrace) RecordTransition(record TransitionRecord) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Transitions = append(st.Transitions, record)
}

// RecordInjection appends an injection record.
func (st *SimulationTrace) RecordInjection(record InjectionRecord) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.Injections = append(st.Injections, record)
}
