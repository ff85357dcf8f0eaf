package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTransitions    int            `json:"total_transitions"`
	ExternalCount       int            `json:"external_transitions"`
	InternalCount       int            `json:"internal_transitions"`
	AcceptedInjections  int            `json:"accepted_injections"`
	RejectedInjections  int            `json:"rejected_injections"`
	ModelsTouched       int            `json:"models_touched"`
	TransitionsPerModel map[string]int `json:"transitions_per_model"`
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		TransitionsPerModel: make(map[string]int),
	}
	if st == nil {
		return summary
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	summary.TotalTransitions = len(st.Transitions)
	for _, r := range st.Transitions {
		summary.TransitionsPerModel[r.ModelID]++
		switch r.Kind {
		case TransitionExternal:
			summary.ExternalCount++
		case TransitionInternal:
			summary.InternalCount++
		}
	}

	for _, in := range st.Injections {
		if in.Accepted {
			summary.AcceptedInjections++
		} else {
			summary.RejectedInjections++
		}
	}

	summary.ModelsTouched = len(summary.TransitionsPerModel)

	return summary
}
