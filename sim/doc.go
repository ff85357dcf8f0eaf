// Package sim provides the discrete-event engine shared by every appliance model.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - time.go: simulated instants and durations (ticks of one microsecond), and Advance
//   - event.go / event_queue.go: events, per-domain rank and the per-model event heap
//   - model.go: the atomic model contract (initialise, inject, external and internal
//     transitions, time advance, end of simulation, report)
//   - simulator.go: the run driver stepping all models in global time order
//
// # Architecture
//
// The sim package defines the generic model and the aggregation types;
// appliance domains and outer surfaces live in sub-packages:
//   - sim/appliance/: the seven appliance domains and the heater thermal twin
//   - sim/household/: household configuration (appliances, parameters, routes)
//   - sim/scenario/: scripted event scenarios
//   - sim/realtime/: accelerated wall-clock execution, one goroutine per model
//   - sim/telemetry/: prometheus collector over the meter
//   - sim/publish/: MQTT publication of meter samples and run reports, MQTT command intake
//   - sim/trace/: transition trace recording
//
// # Key Types
//
//   - Behavior: the pure (state, event) -> state and state -> output tables of a domain
//   - AtomicModel: the state machine holding state, pending recompute and run total
//   - Model: the domain-independent view used by drivers and readers
//   - Meter: sums and integrates consumption and production separately
//   - Router: cross-model event routing table
package sim
