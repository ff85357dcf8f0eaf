// Package trace provides transition-trace recording for appliance models.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// TransitionKind distinguishes event-driven transitions from recomputes.
type TransitionKind string

const (
	// TransitionExternal is a state change driven by an injected event.
	TransitionExternal TransitionKind = "external"
	// TransitionInternal is the zero-delay recompute of the exported value.
	TransitionInternal TransitionKind = "internal"
)

// TransitionRecord captures one transition of one model.
type TransitionRecord struct {
	ModelID string
	Clock   int64          // ticks
	Kind    TransitionKind // external or internal
	Event   string         // empty for internal transitions
	From    string
	To      string
	Output  float64 // exported value after the transition
}

// InjectionRecord captures one attempt to inject an event into a model.
type InjectionRecord struct {
	ModelID  string
	Clock    int64 // occurrence of the event, in ticks
	Event    string
	Accepted bool
	Reason   string // rejection cause, empty when accepted
}
